package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andy/orionledger/internal/domain"
)

type persisterFixture struct {
	counter  *mockCounterRepo
	invoices *mockInvoiceRepo
	clients  *mockClientRepo
	exporter *mockExporter
	seq      SequenceGenerator
	p        InvoicePersister
}

func newPersisterFixture() *persisterFixture {
	f := &persisterFixture{
		counter:  &mockCounterRepo{counter: &domain.Counter{ID: domain.InvoiceCounterID}},
		invoices: newMockInvoiceRepo(),
		clients:  newMockClientRepo(&domain.Client{ID: 1, Name: "Studio Nine"}),
		exporter: &mockExporter{},
	}
	f.seq = NewSequenceGenerator(f.counter, "BCMP-25", zap.NewNop())
	f.p = NewInvoicePersister(f.seq, f.invoices, NewClientRegistry(f.clients), f.exporter, zap.NewNop())
	return f
}

func (f *persisterFixture) session(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), f.seq, time.Date(2026, 10, 4, 9, 0, 0, 0, time.UTC), "INR")
	require.NoError(t, err)
	return s
}

func fillSession(s *Session) {
	s.ClientID = "1"
	s.PaymentDetails = "  UPI bestcuts@okbank  "
	s.Composer.SetDescription(0, "Edit")
	s.Composer.SetQuantity(0, "2")
	s.Composer.SetUnitPrice(0, "10")
	s.Composer.AddRow(ItemRow{Description: "Color", Quantity: "1", UnitPrice: "5"})
}

func TestCommit_FullCycle(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture()
	s := f.session(t)
	fillSession(s)
	assert.Equal(t, "BCMP-25-0001", s.Preview)

	result, err := f.p.Commit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.NoError(t, result.ExportErr)

	require.NotNil(t, result.Invoice)
	assert.Regexp(t, regexp.MustCompile(`^BCMP-25-\d{4}$`), result.Invoice.OrderID)
	assert.Equal(t, s.Composer.RecomputeTotal(), result.Invoice.TotalDue)
	assert.Equal(t, 25.0, result.Invoice.TotalDue)
	assert.Equal(t, "04-OCT-2026", result.Invoice.Date)
	assert.Equal(t, "UPI bestcuts@okbank", result.Invoice.PaymentDetails)
	assert.Equal(t, "INR", result.Invoice.Currency)

	assert.Equal(t, 1, f.invoices.adds)
	assert.Equal(t, []string{result.Invoice.OrderID}, f.exporter.exported)
	assert.Equal(t, "/tmp/BCMP-25-0001.pdf", result.DocumentPath)

	// the next id is handed back; the session itself is left as it was
	assert.Equal(t, "BCMP-25-0002", result.NextPreview)
	assert.Equal(t, "BCMP-25-0001", s.Preview)
	assert.Equal(t, 2, s.Composer.Len())
}

func TestCommit_ValidationStopsBeforeReserving(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Session)
		want   string
	}{
		{
			name:   "no client",
			mutate: func(s *Session) { s.ClientID = "" },
			want:   "Please select a client",
		},
		{
			name:   "no payment details",
			mutate: func(s *Session) { s.PaymentDetails = "  " },
			want:   "Payment details are required",
		},
		{
			name:   "no items",
			mutate: func(s *Session) { s.Composer.Reset() },
			want:   "Please add at least one item",
		},
		{
			name:   "client checked before items",
			mutate: func(s *Session) {
				s.ClientID = ""
				s.Composer.Reset()
			},
			want: "Please select a client",
		},
		{
			name:   "bad quantity",
			mutate: func(s *Session) { s.Composer.SetQuantity(1, "two") },
			want:   "Invalid quantity: two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPersisterFixture()
			s := f.session(t)
			fillSession(s)
			tt.mutate(s)

			result, err := f.p.Commit(context.Background(), s)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, StateFailed, result.State)
			assert.Equal(t, StateValidating, result.FailedAt)

			assert.Equal(t, 0, f.counter.puts)
			assert.Equal(t, 0, f.invoices.adds)
			assert.Empty(t, f.exporter.exported)
		})
	}
}

func TestCommit_PersistFailureLeaksReservedID(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture()
	f.invoices.addErr = domain.NewStoreError("save invoice", errors.New("disk full"))
	s := f.session(t)
	fillSession(s)

	result, err := f.p.Commit(ctx, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Equal(t, StatePersisting, result.FailedAt)
	assert.Nil(t, result.Invoice)
	assert.Empty(t, f.exporter.exported)

	// the reserved id is gone; the next save gets the one after it
	assert.Equal(t, int64(1), f.counter.counter.Value)

	f.invoices.addErr = nil
	result, err = f.p.Commit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "BCMP-25-0002", result.Invoice.OrderID)
}

func TestCommit_ReserveFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *mockCounterRepo)
	}{
		{
			name:  "counter read fails",
			setup: func(c *mockCounterRepo) { c.getErr = domain.NewStoreError("get invoice counter", errors.New("locked")) },
		},
		{
			name:  "counter write fails",
			setup: func(c *mockCounterRepo) { c.putErr = domain.NewStoreError("put invoice counter", errors.New("read-only")) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPersisterFixture()
			s := f.session(t)
			fillSession(s)
			tt.setup(f.counter)

			result, err := f.p.Commit(context.Background(), s)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStore)
			assert.Equal(t, StateFailed, result.State)
			assert.Equal(t, StateReserving, result.FailedAt)
			assert.Nil(t, result.Invoice)
			assert.Empty(t, result.NextPreview)

			assert.Equal(t, int64(0), f.counter.counter.Value)
			assert.Equal(t, 0, f.invoices.adds)
			assert.Empty(t, f.exporter.exported)
		})
	}
}

func TestCommit_ExportFailureStillDone(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture()
	f.exporter.err = errors.New("output dir not writable")
	s := f.session(t)
	fillSession(s)

	result, err := f.p.Commit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	require.Error(t, result.ExportErr)
	assert.Empty(t, result.DocumentPath)

	stored, err := f.invoices.Get(ctx, "BCMP-25-0001")
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.TotalDue)
}

func TestCommit_ExportFailsForUnknownClient(t *testing.T) {
	f := newPersisterFixture()
	s := f.session(t)
	fillSession(s)
	s.ClientID = "99"

	result, err := f.p.Commit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.ErrorIs(t, result.ExportErr, domain.ErrNotFound)
	assert.Equal(t, 1, f.invoices.adds)
}

func TestCommitState_String(t *testing.T) {
	assert.Equal(t, "reserving", StateReserving.String())
	assert.Equal(t, "unknown", CommitState(42).String())
}
