package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andy/orionledger/internal/domain"
)

// Session is the state of one invoice form: what the user has entered so
// far and the previewed order id. Sessions share nothing, so several can
// be open at once.
type Session struct {
	ID             uuid.UUID
	Date           string
	Preview        string
	ClientID       string
	Currency       string
	PaymentDetails string
	Composer       *Composer

	// EditingClientID is the client open in the client form, 0 when adding
	EditingClientID int64
}

// NewSession starts a blank invoice form dated now, with one empty item row
func NewSession(ctx context.Context, seq SequenceGenerator, now time.Time, currency string) (*Session, error) {
	s := &Session{
		ID:       uuid.New(),
		Currency: currency,
	}
	if err := s.Reset(ctx, seq, now); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset clears the form for a new invoice and primes the order id preview.
// Currency is kept.
func (s *Session) Reset(ctx context.Context, seq SequenceGenerator, now time.Time) error {
	s.Date = domain.FormatDisplayDate(now)
	s.ClientID = ""
	s.PaymentDetails = ""
	s.EditingClientID = 0
	s.Composer = NewComposer()
	s.Composer.AddItem()
	return s.RefreshPreview(ctx, seq)
}

// RefreshPreview re-reads the next order id from the counter
func (s *Session) RefreshPreview(ctx context.Context, seq SequenceGenerator) error {
	preview, err := seq.PeekNext(ctx)
	if err != nil {
		return err
	}
	s.Preview = preview
	return nil
}
