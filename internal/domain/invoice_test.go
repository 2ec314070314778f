package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOrderID(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "BCMP-25-0001"},
		{42, "BCMP-25-0042"},
		{9999, "BCMP-25-9999"},
		{12345, "BCMP-25-12345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatOrderID(DefaultOrderPrefix, tt.n))
	}
}

func TestFormatDisplayDate(t *testing.T) {
	d := time.Date(2026, time.October, 4, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "04-OCT-2026", FormatDisplayDate(d))
}

func TestNewInvoice_CapturesTotal(t *testing.T) {
	items := []LineItem{
		{Description: "Edit", Quantity: 2, UnitPrice: 10},
		{Description: "Color", Quantity: 1, UnitPrice: 5},
	}
	inv := NewInvoice("BCMP-25-0001", "04-OCT-2026", "1", items, "INR", "Bank: X")

	assert.Equal(t, 25.0, inv.TotalDue)
	assert.Equal(t, "25.00", FormatAmount(inv.TotalDue))
	require.NoError(t, inv.Validate())
}

func TestInvoiceValidate(t *testing.T) {
	inv := NewInvoice("BCMP-25-0001", "", "", nil, "INR", "")
	err := inv.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestClientValidate(t *testing.T) {
	c := NewClient("   ", "addr", "", "")
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Client name is required", err.Error())

	c = NewClient("  ACME  ", " 1 Road ", "", "")
	require.NoError(t, c.Validate())
	assert.Equal(t, "ACME", c.Name)
	assert.Equal(t, "1 Road", c.Address)
	assert.True(t, c.IsNew())
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("save invoice", cause)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save invoice: disk full", err.Error())
}
