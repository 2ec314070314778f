package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/repository"
)

// SequenceGenerator issues invoice order ids from the counter record
type SequenceGenerator interface {
	// PeekNext returns the id the next reservation would produce without
	// changing the counter. A missing counter record is seeded at zero.
	PeekNext(ctx context.Context) (string, error)

	// ReserveNext advances the counter by one and returns the new id
	ReserveNext(ctx context.Context) (string, error)

	// Format renders a counter value as an order id
	Format(n int64) string
}

// sequenceGenerator reads and writes the counter as two separate store
// operations. The mutex serializes callers sharing this instance; another
// process using the same database file can still interleave between the
// read and the write and issue a duplicate id.
type sequenceGenerator struct {
	mu          sync.Mutex
	counterRepo repository.CounterRepository
	prefix      string
	logger      *zap.Logger
}

// NewSequenceGenerator creates a generator that formats ids with prefix
func NewSequenceGenerator(counterRepo repository.CounterRepository, prefix string, logger *zap.Logger) SequenceGenerator {
	if prefix == "" {
		prefix = domain.DefaultOrderPrefix
	}
	return &sequenceGenerator{
		counterRepo: counterRepo,
		prefix:      prefix,
		logger:      logger,
	}
}

func (g *sequenceGenerator) Format(n int64) string {
	return domain.FormatOrderID(g.prefix, n)
}

func (g *sequenceGenerator) PeekNext(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	counter, err := g.counterRepo.Get(ctx)
	if err != nil {
		return "", err
	}

	var value int64
	if counter == nil {
		g.logger.Warn("invoice counter missing, seeding at zero")
		if err := g.counterRepo.AddIfMissing(ctx); err != nil {
			return "", err
		}
	} else {
		value = counter.Value
	}

	return g.Format(value + 1), nil
}

func (g *sequenceGenerator) ReserveNext(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	counter, err := g.counterRepo.Get(ctx)
	if err != nil {
		return "", err
	}

	next := int64(1)
	if counter != nil {
		next = counter.Value + 1
	}

	if err := g.counterRepo.Put(ctx, &domain.Counter{ID: domain.InvoiceCounterID, Value: next}); err != nil {
		return "", err
	}

	orderID := g.Format(next)
	g.logger.Debug("reserved order id", zap.String("order_id", orderID), zap.Int64("counter", next))
	return orderID, nil
}
