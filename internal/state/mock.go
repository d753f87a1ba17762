package state

import (
	"database/sql"
	"slices"
	"strings"
	"sync"
	"time"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu      sync.Mutex
	accounts []Account
	charts  map[string]ChartRecord
	saves   int
	saveErr error
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{charts: make(map[string]ChartRecord)}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) LinkAccount(username, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeAccount(username)
	m.accounts = append([]Account{{Username: username, SessionKey: sessionKey, LinkedAt: time.Now()}}, m.accounts...)
	return nil
}

func (m *Mock) Accounts() ([]Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.accounts), nil
}

func (m *Mock) Account(username string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Username, username) {
			return &a, nil
		}
	}
	return nil, nil //nolint:nilnil // nil account means not linked
}

func (m *Mock) UnlinkAccount(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeAccount(username), nil
}

func (m *Mock) removeAccount(username string) bool {
	n := len(m.accounts)
	m.accounts = slices.DeleteFunc(m.accounts, func(a Account) bool {
		return strings.EqualFold(a.Username, username)
	})
	return len(m.accounts) < n
}

func (m *Mock) SaveChart(rec ChartRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.charts[rec.Listener] = rec
	return nil
}

func (m *Mock) GetChart(listener string) (*ChartRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.charts[listener]
	if !ok {
		return nil, nil //nolint:nilnil // nil chart means never computed
	}
	return &rec, nil
}

func (m *Mock) ListCharts() ([]ChartSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChartSummary, 0, len(m.charts))
	for _, rec := range m.charts {
		out = append(out, ChartSummary{
			Listener:   rec.Listener,
			Sign:       rec.Sign,
			Filled:     len(rec.Positions),
			ComputedAt: rec.ComputedAt,
		})
	}
	return out, nil
}

func (m *Mock) DeleteChart(listener string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.charts, listener)
	return nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns the number of SaveChart calls, failed ones included.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
