package repository

import (
	"context"

	"github.com/andy/orionledger/internal/domain"
)

// The repositories are the record store adapter: typed get/getAll/put/add/
// delete over the clients, invoices and counter collections. Every driver
// failure is returned as a *domain.StoreError.

// ClientRepository manages client persistence
type ClientRepository interface {
	// Add inserts a new client and sets its store-assigned ID
	Add(ctx context.Context, client *domain.Client) error
	// Put overwrites the client with client.ID, creating it if absent
	Put(ctx context.Context, client *domain.Client) error
	// Get returns a *domain.NotFoundError on a miss
	Get(ctx context.Context, id int64) (*domain.Client, error)
	// GetAll returns clients in insertion order
	GetAll(ctx context.Context) ([]*domain.Client, error)
	// Delete removes the client; missing ids are not an error
	Delete(ctx context.Context, id int64) error
}

// InvoiceRepository manages invoice persistence. There is no update path.
type InvoiceRepository interface {
	// Add inserts a new invoice; an existing order id is a store error
	Add(ctx context.Context, invoice *domain.Invoice) error
	Get(ctx context.Context, orderID string) (*domain.Invoice, error)
	GetAll(ctx context.Context) ([]*domain.Invoice, error)
	ListByDate(ctx context.Context, date string) ([]*domain.Invoice, error)
}

// CounterRepository manages the singleton invoice counter record
type CounterRepository interface {
	// Get returns nil when the record is absent
	Get(ctx context.Context) (*domain.Counter, error)
	// Put writes the counter value, inserting the record if needed
	Put(ctx context.Context, counter *domain.Counter) error
	// AddIfMissing inserts the record with value 0 unless it exists
	AddIfMissing(ctx context.Context) error
}
