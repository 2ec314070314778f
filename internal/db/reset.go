package db

import (
	"context"
	"fmt"
)

// ResetInvoices deletes every invoice and sets the invoice counter back to
// zero, so the next order id is PREFIX-0001 again.
func (db *DB) ResetInvoices(ctx context.Context) error {
	return db.wipe(ctx, "invoice_items", "invoices")
}

// ResetAll deletes invoices and clients and resets the invoice counter
func (db *DB) ResetAll(ctx context.Context) error {
	return db.wipe(ctx, "invoice_items", "invoices", "clients")
}

func (db *DB) wipe(ctx context.Context, tables ...string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO counter (id, value) VALUES ('invoiceCounter', 0)",
	); err != nil {
		return fmt.Errorf("failed to reset invoice counter: %w", err)
	}

	return tx.Commit()
}
