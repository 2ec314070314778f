package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andy/orionledger/internal/db"
	"github.com/andy/orionledger/internal/domain"
)

// CounterRepo is a SQLite implementation of CounterRepository
type CounterRepo struct {
	db *db.DB
}

// NewCounterRepo creates a new CounterRepo
func NewCounterRepo(database *db.DB) *CounterRepo {
	return &CounterRepo{db: database}
}

// Get retrieves the counter, or returns nil if the record is missing
func (r *CounterRepo) Get(ctx context.Context) (*domain.Counter, error) {
	counter := &domain.Counter{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, value FROM counter WHERE id = ?",
		domain.InvoiceCounterID,
	).Scan(&counter.ID, &counter.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStoreError("get invoice counter", err)
	}

	return counter, nil
}

// Put saves the counter value (insert or replace)
func (r *CounterRepo) Put(ctx context.Context, counter *domain.Counter) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO counter (id, value) VALUES (?, ?)",
		domain.InvoiceCounterID,
		counter.Value,
	)
	if err != nil {
		return domain.NewStoreError("put invoice counter", err)
	}

	return nil
}

// AddIfMissing seeds the counter at zero without touching an existing value
func (r *CounterRepo) AddIfMissing(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO counter (id, value) VALUES (?, 0)",
		domain.InvoiceCounterID,
	)
	if err != nil {
		return domain.NewStoreError("seed invoice counter", err)
	}

	return nil
}
