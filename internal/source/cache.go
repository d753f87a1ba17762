package source

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/llehouerou/starchart/internal/db"
	"github.com/llehouerou/starchart/internal/metrics"
)

// TagCache keeps artist tags and listener counts in SQLite so repeated
// refreshes do not refetch them. Entries older than the TTL read as misses.
type TagCache struct {
	db      *sql.DB
	ttlDays int
	now     func() time.Time
}

// NewTagCache creates a TagCache over the state database.
func NewTagCache(db *sql.DB, ttlDays int) *TagCache {
	return &TagCache{db: db, ttlDays: ttlDays, now: time.Now}
}

func cacheKey(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}

func (c *TagCache) isExpired(fetchedAt int64) bool {
	expiry := c.now().AddDate(0, 0, -c.ttlDays).Unix()
	return fetchedAt < expiry
}

// GetTags returns the cached tags of artist. ok is false on a miss or an
// expired entry. An artist cached with no tags is a hit with an empty list.
func (c *TagCache) GetTags(artist string) (tags []string, ok bool, err error) {
	defer func() {
		if err == nil {
			metrics.RecordTagLookup(ok)
		}
	}()

	rows, err := c.db.Query(`
		SELECT tag, fetched_at
		FROM lastfm_artist_tags
		WHERE artist = ?
		ORDER BY rank ASC
	`, cacheKey(artist))
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	hasData := false
	tags = []string{}
	for rows.Next() {
		var tag string
		var fetchedAt int64
		if err := rows.Scan(&tag, &fetchedAt); err != nil {
			return nil, false, err
		}
		hasData = true
		if c.isExpired(fetchedAt) {
			return nil, false, nil
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if !hasData {
		return nil, false, nil
	}
	return tags, true, nil
}

// SetTags replaces the cached tags of artist.
func (c *TagCache) SetTags(artist string, tags []string) error {
	key := cacheKey(artist)
	now := c.now().Unix()

	// An untagged artist is stored as a single empty tag so it reads as a hit.
	if len(tags) == 0 {
		tags = []string{""}
	}

	return db.WithTx(c.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM lastfm_artist_tags WHERE artist = ?`, key); err != nil {
			return err
		}
		return db.ExecBatch(tx, `
			INSERT INTO lastfm_artist_tags (artist, tag, rank, fetched_at)
			VALUES (?, ?, ?, ?)
		`, len(tags), func(i int) ([]any, error) {
			return []any{key, tags[i], i, now}, nil
		})
	})
}

// GetListeners returns the cached listener count of artist.
func (c *TagCache) GetListeners(artist string) (int64, bool, error) {
	var listeners, fetchedAt int64
	err := c.db.QueryRow(`
		SELECT listeners, fetched_at
		FROM lastfm_artist_listeners
		WHERE artist = ?
	`, cacheKey(artist)).Scan(&listeners, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if c.isExpired(fetchedAt) {
		return 0, false, nil
	}
	return listeners, true, nil
}

// SetListeners caches the listener count of artist.
func (c *TagCache) SetListeners(artist string, listeners int64) error {
	_, err := c.db.Exec(`
		INSERT INTO lastfm_artist_listeners (artist, listeners, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(artist) DO UPDATE SET
			listeners = excluded.listeners,
			fetched_at = excluded.fetched_at
	`, cacheKey(artist), listeners, c.now().Unix())
	return err
}

// CleanExpired removes expired entries and returns how many rows went.
func (c *TagCache) CleanExpired() (int64, error) {
	expiry := c.now().AddDate(0, 0, -c.ttlDays).Unix()

	var total int64
	for _, table := range []string{"lastfm_artist_tags", "lastfm_artist_listeners"} {
		res, err := c.db.Exec(`DELETE FROM `+table+` WHERE fetched_at < ?`, expiry)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
