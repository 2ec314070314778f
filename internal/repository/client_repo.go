package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/andy/orionledger/internal/db"
	"github.com/andy/orionledger/internal/domain"
)

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// Add inserts a new client into the database
func (r *ClientRepo) Add(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (name, address, email, phone)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Address,
		client.Email,
		client.Phone,
	)
	if err != nil {
		return domain.NewStoreError("add client", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.NewStoreError("get client ID", err)
	}

	client.ID = id
	return nil
}

// Put writes the client under its ID, replacing any existing record
func (r *ClientRepo) Put(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, address, email, phone)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			email = excluded.email,
			phone = excluded.phone
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Address,
		client.Email,
		client.Phone,
	)
	if err != nil {
		return domain.NewStoreError("put client", err)
	}

	return nil
}

// Get retrieves a client by ID
func (r *ClientRepo) Get(ctx context.Context, id int64) (*domain.Client, error) {
	query := `
		SELECT id, name, address, email, phone
		FROM clients
		WHERE id = ?
	`

	client := &domain.Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Address,
		&client.Email,
		&client.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "client", Key: strconv.FormatInt(id, 10)}
		}
		return nil, domain.NewStoreError("get client", err)
	}

	return client, nil
}

// GetAll retrieves all clients ordered by ID
func (r *ClientRepo) GetAll(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, address, email, phone
		FROM clients
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStoreError("list clients", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Address,
			&client.Email,
			&client.Phone,
		); err != nil {
			return nil, domain.NewStoreError("scan client", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate clients", err)
	}

	return clients, nil
}

// Delete removes a client by ID
func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return domain.NewStoreError("delete client", err)
	}
	return nil
}
