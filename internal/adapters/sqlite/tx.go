package sqlite

import (
	"database/sql"
	"fmt"
)

// catalogTx groups catalog writes so a reconcile pass applies all or nothing
type catalogTx struct {
	tx *sql.Tx
}

func (c *Catalog) beginTx() (*catalogTx, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &catalogTx{tx: tx}, nil
}

// deleteEntry removes a row by trash path
func (t *catalogTx) deleteEntry(trashPath string) error {
	_, err := t.tx.Exec(`DELETE FROM trash_entries WHERE trash_path = ?`, trashPath)
	return err
}

// Commit commits the transaction
func (t *catalogTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. It is safe after Commit.
func (t *catalogTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
