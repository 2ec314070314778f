package service

import (
	"context"
	"strconv"

	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/repository"
)

// InvoiceService gives read access to committed invoices. Invoices are
// immutable, so nothing here writes to the invoice collection.
type InvoiceService interface {
	// GetInvoice retrieves an invoice by order id
	GetInvoice(ctx context.Context, orderID string) (*domain.Invoice, error)

	// ListInvoices lists all invoices, or only those issued on date
	ListInvoices(ctx context.Context, date *string) ([]*domain.Invoice, error)

	// ResolveClient returns the client an invoice refers to
	ResolveClient(ctx context.Context, invoice *domain.Invoice) (*domain.Client, error)

	// Export renders a stored invoice again and returns the document path
	Export(ctx context.Context, orderID string) (string, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clients     ClientRegistry
	exporter    Exporter
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clients ClientRegistry,
	exporter Exporter,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clients:     clients,
		exporter:    exporter,
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, orderID string) (*domain.Invoice, error) {
	return s.invoiceRepo.Get(ctx, orderID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, date *string) ([]*domain.Invoice, error) {
	if date != nil {
		return s.invoiceRepo.ListByDate(ctx, *date)
	}
	return s.invoiceRepo.GetAll(ctx)
}

func (s *invoiceService) ResolveClient(ctx context.Context, invoice *domain.Invoice) (*domain.Client, error) {
	return resolveClient(ctx, s.clients, invoice.ClientID)
}

func (s *invoiceService) Export(ctx context.Context, orderID string) (string, error) {
	invoice, err := s.invoiceRepo.Get(ctx, orderID)
	if err != nil {
		return "", err
	}

	client, err := s.ResolveClient(ctx, invoice)
	if err != nil {
		return "", err
	}

	return s.exporter.Export(ctx, invoice, client)
}

// resolveClient looks up an invoice's client reference. A reference that
// is not a client id is reported as not found.
func resolveClient(ctx context.Context, clients ClientRegistry, ref string) (*domain.Client, error) {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, &domain.NotFoundError{Entity: "client", Key: ref}
	}
	return clients.Get(ctx, id)
}
