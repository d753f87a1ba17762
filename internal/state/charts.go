package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/llehouerou/starchart/internal/db"
)

// ChartRecord is the stored form of a listener's latest chart. Payload holds
// the full chart document; the other fields are indexed copies.
type ChartRecord struct {
	Listener   string
	RunID      string
	Kind       string
	Sign       string
	ComputedAt time.Time
	Positions  []PositionRecord
	Payload    []byte
}

// PositionRecord is one filled chart position.
type PositionRecord struct {
	Position string
	Rank     int
	Genre    string
	Pass     int
	Artists  []string
}

// ChartSummary is a row of ListCharts.
type ChartSummary struct {
	Listener   string
	Sign       string
	Filled     int
	ComputedAt time.Time
}

// SaveChart replaces the listener's chart in one transaction.
func (m *Manager) SaveChart(rec ChartRecord) error {
	if rec.Listener == "" {
		return errors.New("save chart: empty listener")
	}

	return db.WithTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO charts (listener, run_id, kind, sign, filled, computed_at, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(listener) DO UPDATE SET
				run_id = excluded.run_id,
				kind = excluded.kind,
				sign = excluded.sign,
				filled = excluded.filled,
				computed_at = excluded.computed_at,
				payload = excluded.payload
		`, rec.Listener, rec.RunID, rec.Kind, rec.Sign, len(rec.Positions), rec.ComputedAt.Unix(), rec.Payload)
		if err != nil {
			return fmt.Errorf("upsert chart: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM chart_positions WHERE listener = ?`, rec.Listener); err != nil {
			return fmt.Errorf("clear positions: %w", err)
		}

		err = db.ExecBatch(tx, `
			INSERT INTO chart_positions (listener, position, rank, genre, pass, artists)
			VALUES (?, ?, ?, ?, ?, ?)
		`, len(rec.Positions), func(i int) ([]any, error) {
			p := rec.Positions[i]
			artists, err := json.Marshal(p.Artists)
			if err != nil {
				return nil, err
			}
			return []any{rec.Listener, p.Position, p.Rank, p.Genre, p.Pass, string(artists)}, nil
		})
		if err != nil {
			return fmt.Errorf("insert positions: %w", err)
		}
		return nil
	})
}

// GetChart returns the listener's chart, or nil if none was stored.
func (m *Manager) GetChart(listener string) (*ChartRecord, error) {
	rec := ChartRecord{Listener: listener}
	var computedAt int64

	err := m.db.QueryRow(`
		SELECT run_id, kind, sign, computed_at, payload FROM charts WHERE listener = ?
	`, listener).Scan(&rec.RunID, &rec.Kind, &rec.Sign, &computedAt, &rec.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil chart means never computed
	}
	if err != nil {
		return nil, err
	}
	rec.ComputedAt = time.Unix(computedAt, 0)

	rows, err := m.db.Query(`
		SELECT position, rank, genre, pass, artists
		FROM chart_positions
		WHERE listener = ?
		ORDER BY rank ASC
	`, listener)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p PositionRecord
		var artists string
		if err := rows.Scan(&p.Position, &p.Rank, &p.Genre, &p.Pass, &artists); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(artists), &p.Artists); err != nil {
			return nil, fmt.Errorf("decode artists of %s: %w", p.Position, err)
		}
		rec.Positions = append(rec.Positions, p)
	}

	return &rec, rows.Err()
}

// ListCharts returns every stored chart, most recent first.
func (m *Manager) ListCharts() ([]ChartSummary, error) {
	rows, err := m.db.Query(`
		SELECT listener, sign, filled, computed_at
		FROM charts
		ORDER BY computed_at DESC, listener ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []ChartSummary
	for rows.Next() {
		var c ChartSummary
		var computedAt int64
		if err := rows.Scan(&c.Listener, &c.Sign, &c.Filled, &computedAt); err != nil {
			return nil, err
		}
		c.ComputedAt = time.Unix(computedAt, 0)
		charts = append(charts, c)
	}

	return charts, rows.Err()
}

// DeleteChart removes the listener's chart and its positions.
func (m *Manager) DeleteChart(listener string) error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM chart_positions WHERE listener = ?`, listener); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM charts WHERE listener = ?`, listener)
		return err
	})
}
