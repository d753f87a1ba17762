package state

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Account is a Last.fm account linked through the auth flow. Its session
// key authorizes listening-data calls made on the listener's behalf.
type Account struct {
	Username   string
	SessionKey string
	LinkedAt   time.Time
}

// LinkAccount stores or replaces the session of username.
func (m *Manager) LinkAccount(username, sessionKey string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("link account: empty username")
	}
	_, err := m.db.Exec(`
		INSERT INTO lastfm_accounts (username, session_key, linked_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			session_key = excluded.session_key,
			linked_at = excluded.linked_at
	`, username, sessionKey, time.Now().UnixNano())
	return err
}

// Accounts returns the linked accounts, most recently linked first.
func (m *Manager) Accounts() ([]Account, error) {
	rows, err := m.db.Query(`
		SELECT username, session_key, linked_at FROM lastfm_accounts
		ORDER BY linked_at DESC, username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		var linkedAt int64
		if err := rows.Scan(&a.Username, &a.SessionKey, &linkedAt); err != nil {
			return nil, err
		}
		a.LinkedAt = time.Unix(0, linkedAt)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Account returns the linked account of username, or nil if not linked.
// Usernames compare case-insensitively.
func (m *Manager) Account(username string) (*Account, error) {
	var a Account
	var linkedAt int64
	err := m.db.QueryRow(`
		SELECT username, session_key, linked_at FROM lastfm_accounts WHERE username = ?
	`, strings.TrimSpace(username)).Scan(&a.Username, &a.SessionKey, &linkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil account means not linked
	}
	if err != nil {
		return nil, err
	}
	a.LinkedAt = time.Unix(0, linkedAt)
	return &a, nil
}

// UnlinkAccount removes the session of username and reports whether one was
// stored.
func (m *Manager) UnlinkAccount(username string) (bool, error) {
	res, err := m.db.Exec(`DELETE FROM lastfm_accounts WHERE username = ?`, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
