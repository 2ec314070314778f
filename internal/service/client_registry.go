package service

import (
	"context"

	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/repository"
)

// ClientRegistry manages the client list behind the invoice form's selector.
// Callers reload their own views after Save and Delete.
type ClientRegistry interface {
	List(ctx context.Context) ([]*domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	// Save updates when client.ID is set, otherwise inserts and assigns ID
	Save(ctx context.Context, client *domain.Client) error
	// Delete is idempotent
	Delete(ctx context.Context, id int64) error
}

type clientRegistry struct {
	clientRepo repository.ClientRepository
}

// NewClientRegistry creates a new client registry
func NewClientRegistry(clientRepo repository.ClientRepository) ClientRegistry {
	return &clientRegistry{clientRepo: clientRepo}
}

func (r *clientRegistry) List(ctx context.Context) ([]*domain.Client, error) {
	return r.clientRepo.GetAll(ctx)
}

func (r *clientRegistry) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return r.clientRepo.Get(ctx, id)
}

func (r *clientRegistry) Save(ctx context.Context, client *domain.Client) error {
	client.Normalize()
	if err := client.Validate(); err != nil {
		return err
	}

	if client.IsNew() {
		return r.clientRepo.Add(ctx, client)
	}
	return r.clientRepo.Put(ctx, client)
}

func (r *clientRegistry) Delete(ctx context.Context, id int64) error {
	return r.clientRepo.Delete(ctx, id)
}
