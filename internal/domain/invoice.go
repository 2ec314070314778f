package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultOrderPrefix is prepended to every order id
	DefaultOrderPrefix = "BCMP-25"

	// orderDigits is the zero-padding width of the sequence part
	orderDigits = 4

	// displayDateLayout renders as e.g. 14-Oct-2026 before upper-casing
	displayDateLayout = "02-Jan-2006"
)

// Invoice is a committed invoice record. It is written once and never
// updated; TotalDue is captured at save time and not recomputed on read.
type Invoice struct {
	OrderID        string
	Date           string
	ClientID       string
	Items          []LineItem
	TotalDue       float64
	Currency       string
	PaymentDetails string
}

// LineItem is one billed row of an invoice
type LineItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// Amount returns quantity times unit price
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// NewInvoice assembles an invoice and captures its total
func NewInvoice(orderID, date, clientID string, items []LineItem, currency, paymentDetails string) *Invoice {
	inv := &Invoice{
		OrderID:        orderID,
		Date:           date,
		ClientID:       clientID,
		Items:          items,
		Currency:       currency,
		PaymentDetails: paymentDetails,
	}
	inv.TotalDue = SumItems(items)
	return inv
}

// SumItems totals quantity*unit price over items
func SumItems(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Amount()
	}
	return total
}

// Validate returns an error if the invoice cannot be stored
func (i *Invoice) Validate() error {
	if i.OrderID == "" {
		return NewValidationError("order id is required")
	}
	if strings.TrimSpace(i.ClientID) == "" {
		return NewValidationError("Please select a client")
	}
	if len(i.Items) == 0 {
		return NewValidationError("Please add at least one item")
	}
	return nil
}

// FormatOrderID renders a sequence value as PREFIX-NNNN. Values wider than
// four digits are kept intact.
func FormatOrderID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, orderDigits, n)
}

// FormatDisplayDate renders t as DD-MON-YYYY in upper case, e.g. 14-OCT-2026
func FormatDisplayDate(t time.Time) string {
	return cases.Upper(language.BritishEnglish).String(t.Format(displayDateLayout))
}

// FormatAmount renders money with two decimals
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
