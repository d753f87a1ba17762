package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS lastfm_accounts (
			username TEXT PRIMARY KEY COLLATE NOCASE,
			session_key TEXT NOT NULL,
			linked_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS charts (
			listener TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			sign TEXT NOT NULL,
			filled INTEGER NOT NULL,
			computed_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chart_positions (
			listener TEXT NOT NULL REFERENCES charts(listener) ON DELETE CASCADE,
			position TEXT NOT NULL,
			rank INTEGER NOT NULL,
			genre TEXT NOT NULL,
			pass INTEGER NOT NULL,
			artists TEXT NOT NULL,
			PRIMARY KEY (listener, position)
		);

		CREATE INDEX IF NOT EXISTS idx_chart_positions_genre ON chart_positions(genre);
		CREATE INDEX IF NOT EXISTS idx_charts_computed_at ON charts(computed_at DESC);

		CREATE TABLE IF NOT EXISTS lastfm_artist_tags (
			artist TEXT NOT NULL,
			tag TEXT NOT NULL,
			rank INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (artist, rank)
		);

		CREATE TABLE IF NOT EXISTS lastfm_artist_listeners (
			artist TEXT PRIMARY KEY,
			listeners INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
