package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	d, err := Open(path, "test-key")
	require.NoError(t, err)
	return d
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orionledger.db")

	d := openTestDB(t, path)
	defer d.Close()

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestRunMigrations_SeedsCounter(t *testing.T) {
	d := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer d.Close()

	require.NoError(t, d.RunMigrations())

	var value int64
	err := d.QueryRow("SELECT value FROM counter WHERE id = 'invoiceCounter'").Scan(&value)
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		d := openTestDB(t, path)
		require.NoError(t, d.RunMigrations(), "iteration %d", i)
		d.Close()
	}

	d := openTestDB(t, path)
	defer d.Close()

	var versions int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&versions))
	assert.Equal(t, len(migrations), versions)

	for _, table := range Tables() {
		var n int
		err := d.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func seedRows(t *testing.T, d *DB) {
	t.Helper()
	stmts := []string{
		"INSERT INTO clients (name) VALUES ('Studio Nine')",
		"INSERT INTO invoices (order_id, date, client_id, total_due, currency, payment_details) VALUES ('BCMP-25-0001', '04-OCT-2026', '1', 10, 'INR', 'UPI')",
		"INSERT INTO invoice_items (order_id, position, description, quantity, unit_price) VALUES ('BCMP-25-0001', 0, 'Edit', 1, 10)",
		"UPDATE counter SET value = 1 WHERE id = 'invoiceCounter'",
	}
	for _, s := range stmts {
		_, err := d.Exec(s)
		require.NoError(t, err, s)
	}
}

func countRows(t *testing.T, d *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestResetInvoices_KeepsClients(t *testing.T) {
	d := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer d.Close()
	require.NoError(t, d.RunMigrations())
	seedRows(t, d)

	require.NoError(t, d.ResetInvoices(context.Background()))

	assert.Equal(t, 0, countRows(t, d, "invoices"))
	assert.Equal(t, 0, countRows(t, d, "invoice_items"))
	assert.Equal(t, 1, countRows(t, d, "clients"))

	var value int64
	require.NoError(t, d.QueryRow("SELECT value FROM counter WHERE id = 'invoiceCounter'").Scan(&value))
	assert.Equal(t, int64(0), value)
}

func TestResetAll(t *testing.T) {
	d := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer d.Close()
	require.NoError(t, d.RunMigrations())
	seedRows(t, d)

	require.NoError(t, d.ResetAll(context.Background()))

	assert.Equal(t, 0, countRows(t, d, "invoices"))
	assert.Equal(t, 0, countRows(t, d, "clients"))
	assert.Equal(t, 1, countRows(t, d, "counter"))
}
