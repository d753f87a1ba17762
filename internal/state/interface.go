package state

import (
	"database/sql"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	LinkAccount(username, sessionKey string) error
	Accounts() ([]Account, error)
	Account(username string) (*Account, error)
	UnlinkAccount(username string) (bool, error)
	SaveChart(rec ChartRecord) error
	GetChart(listener string) (*ChartRecord, error)
	ListCharts() ([]ChartSummary, error)
	DeleteChart(listener string) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
