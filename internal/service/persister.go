package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/repository"
)

// CommitState is a step of the invoice save cycle
type CommitState int

const (
	StateEditing CommitState = iota
	StateValidating
	StateReserving
	StatePersisting
	StateExporting
	StateDone
	StateFailed
)

// String returns the state name
func (s CommitState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateReserving:
		return "reserving"
	case StatePersisting:
		return "persisting"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Exporter turns a committed invoice into a document and returns its path
type Exporter interface {
	Export(ctx context.Context, invoice *domain.Invoice, client *domain.Client) (string, error)
}

// CommitResult describes how far a save cycle got
type CommitResult struct {
	State CommitState
	// FailedAt is the step that failed when State is StateFailed
	FailedAt CommitState

	Invoice      *domain.Invoice
	DocumentPath string

	// ExportErr is set when the invoice was stored but the document was not produced
	ExportErr error

	// NextPreview is the order id the following save would get. Commit does
	// not write it into the session; the caller applies it.
	NextPreview string
}

// InvoicePersister runs the save cycle for a session:
// validate, reserve an order id, store the invoice, export it.
//
// A reserved id is never given back. If storing the invoice fails after a
// successful reservation, that id stays consumed with no invoice behind it.
type InvoicePersister interface {
	Commit(ctx context.Context, session *Session) (*CommitResult, error)
}

type invoicePersister struct {
	sequence    SequenceGenerator
	invoiceRepo repository.InvoiceRepository
	clients     ClientRegistry
	exporter    Exporter
	logger      *zap.Logger
}

// NewInvoicePersister creates a new invoice persister
func NewInvoicePersister(
	sequence SequenceGenerator,
	invoiceRepo repository.InvoiceRepository,
	clients ClientRegistry,
	exporter Exporter,
	logger *zap.Logger,
) InvoicePersister {
	return &invoicePersister{
		sequence:    sequence,
		invoiceRepo: invoiceRepo,
		clients:     clients,
		exporter:    exporter,
		logger:      logger,
	}
}

func (p *invoicePersister) Commit(ctx context.Context, s *Session) (*CommitResult, error) {
	result := &CommitResult{State: StateEditing}
	log := p.logger.With(zap.String("session_id", s.ID.String()))

	fail := func(err error) (*CommitResult, error) {
		log.Warn("invoice save failed", zap.Stringer("state", result.State), zap.Error(err))
		result.FailedAt = result.State
		result.State = StateFailed
		return result, err
	}

	p.advance(log, result, StateValidating)
	items, err := validateSession(s)
	if err != nil {
		return fail(err)
	}

	p.advance(log, result, StateReserving)
	orderID, err := p.sequence.ReserveNext(ctx)
	if err != nil {
		return fail(err)
	}
	log = log.With(zap.String("order_id", orderID))

	p.advance(log, result, StatePersisting)
	invoice := domain.NewInvoice(
		orderID,
		s.Date,
		s.ClientID,
		items,
		s.Currency,
		strings.TrimSpace(s.PaymentDetails),
	)
	if err := p.invoiceRepo.Add(ctx, invoice); err != nil {
		return fail(err)
	}
	result.Invoice = invoice

	p.advance(log, result, StateExporting)
	result.DocumentPath, result.ExportErr = p.export(ctx, invoice)
	if result.ExportErr != nil {
		log.Error("invoice stored but export failed", zap.Error(result.ExportErr))
	}

	p.advance(log, result, StateDone)
	next, err := p.sequence.PeekNext(ctx)
	if err != nil {
		log.Warn("failed to refresh order id preview", zap.Error(err))
	}
	result.NextPreview = next

	return result, nil
}

func (p *invoicePersister) advance(log *zap.Logger, result *CommitResult, next CommitState) {
	log.Debug("invoice save transition",
		zap.Stringer("from", result.State),
		zap.Stringer("to", next),
	)
	result.State = next
}

func (p *invoicePersister) export(ctx context.Context, invoice *domain.Invoice) (string, error) {
	client, err := resolveClient(ctx, p.clients, invoice.ClientID)
	if err != nil {
		return "", err
	}

	return p.exporter.Export(ctx, invoice, client)
}

// validateSession checks the form in a fixed order and stops at the first
// problem: client, payment details, then the item rows.
func validateSession(s *Session) ([]domain.LineItem, error) {
	if strings.TrimSpace(s.ClientID) == "" {
		return nil, domain.NewValidationError("Please select a client")
	}
	if strings.TrimSpace(s.PaymentDetails) == "" {
		return nil, domain.NewValidationError("Payment details are required")
	}
	if s.Composer == nil {
		return nil, domain.NewValidationError("Please add at least one item")
	}
	return s.Composer.Items()
}
