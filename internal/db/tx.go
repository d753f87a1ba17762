// Package db holds small database/sql helpers shared by the stores.
package db

import (
	"database/sql"
	"fmt"
)

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ExecBatch prepares query once and executes it n times with the arguments
// returned by args(i). The first failure stops the batch.
func ExecBatch(tx *sql.Tx, query string, n int, args func(i int) ([]any, error)) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range n {
		a, err := args(i)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(a...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
