package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andy/orionledger/internal/db"
	"github.com/andy/orionledger/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

// Add inserts the invoice and its rows in one transaction. The order id is
// the primary key, so adding an existing id fails.
func (r *InvoiceRepo) Add(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStoreError("begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (order_id, date, client_id, total_due, currency, payment_details)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		invoice.OrderID,
		invoice.Date,
		invoice.ClientID,
		invoice.TotalDue,
		invoice.Currency,
		invoice.PaymentDetails,
	); err != nil {
		return domain.NewStoreError("add invoice", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (order_id, position, description, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, item := range invoice.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			invoice.OrderID,
			i,
			item.Description,
			item.Quantity,
			item.UnitPrice,
		); err != nil {
			return domain.NewStoreError("add invoice item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError("commit invoice", err)
	}

	return nil
}

// Get retrieves an invoice and its rows by order id
func (r *InvoiceRepo) Get(ctx context.Context, orderID string) (*domain.Invoice, error) {
	query := `
		SELECT order_id, date, client_id, total_due, currency, payment_details
		FROM invoices
		WHERE order_id = ?
	`

	invoice := &domain.Invoice{}
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&invoice.OrderID,
		&invoice.Date,
		&invoice.ClientID,
		&invoice.TotalDue,
		&invoice.Currency,
		&invoice.PaymentDetails,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "invoice", Key: orderID}
		}
		return nil, domain.NewStoreError("get invoice", err)
	}

	if invoice.Items, err = r.getItems(ctx, orderID); err != nil {
		return nil, err
	}

	return invoice, nil
}

// GetAll retrieves every invoice in the order they were saved
func (r *InvoiceRepo) GetAll(ctx context.Context) ([]*domain.Invoice, error) {
	return r.list(ctx, `
		SELECT order_id, date, client_id, total_due, currency, payment_details
		FROM invoices
		ORDER BY rowid
	`)
}

// ListByDate retrieves the invoices issued on a display date
func (r *InvoiceRepo) ListByDate(ctx context.Context, date string) ([]*domain.Invoice, error) {
	return r.list(ctx, `
		SELECT order_id, date, client_id, total_due, currency, payment_details
		FROM invoices
		WHERE date = ?
		ORDER BY rowid
	`, date)
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list invoices", err)
	}

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice := &domain.Invoice{}
		if err := rows.Scan(
			&invoice.OrderID,
			&invoice.Date,
			&invoice.ClientID,
			&invoice.TotalDue,
			&invoice.Currency,
			&invoice.PaymentDetails,
		); err != nil {
			rows.Close()
			return nil, domain.NewStoreError("scan invoice", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, domain.NewStoreError("iterate invoices", err)
	}
	// Close before loading items: the pool holds a single connection.
	rows.Close()

	for _, invoice := range invoices {
		if invoice.Items, err = r.getItems(ctx, invoice.OrderID); err != nil {
			return nil, err
		}
	}

	return invoices, nil
}

func (r *InvoiceRepo) getItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	query := `
		SELECT description, quantity, unit_price
		FROM invoice_items
		WHERE order_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, domain.NewStoreError("get invoice items", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, domain.NewStoreError("scan invoice item", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate invoice items", err)
	}

	return items, nil
}
