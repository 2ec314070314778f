package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/andy/orionledger/internal/domain"
)

// ItemRow is a line item as typed into the form, before parsing
type ItemRow struct {
	Description string
	Quantity    string
	UnitPrice   string
}

// Composer holds the line items of the invoice being edited. It is plain
// in-memory state; nothing here touches the store.
type Composer struct {
	rows []ItemRow
}

// NewComposer creates a composer with no rows
func NewComposer() *Composer {
	return &Composer{}
}

// AddItem appends an empty row and returns its index
func (c *Composer) AddItem() int {
	c.rows = append(c.rows, ItemRow{})
	return len(c.rows) - 1
}

// AddRow appends a filled row and returns its index
func (c *Composer) AddRow(row ItemRow) int {
	c.rows = append(c.rows, row)
	return len(c.rows) - 1
}

// RemoveItem deletes the row at index. It reports false if index is out of range.
func (c *Composer) RemoveItem(index int) bool {
	if index < 0 || index >= len(c.rows) {
		return false
	}
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
	return true
}

// SetDescription edits the description of row index
func (c *Composer) SetDescription(index int, v string) {
	if c.inRange(index) {
		c.rows[index].Description = v
	}
}

// SetQuantity edits the quantity text of row index
func (c *Composer) SetQuantity(index int, v string) {
	if c.inRange(index) {
		c.rows[index].Quantity = v
	}
}

// SetUnitPrice edits the unit price text of row index
func (c *Composer) SetUnitPrice(index int, v string) {
	if c.inRange(index) {
		c.rows[index].UnitPrice = v
	}
}

// Rows returns a copy of the current rows
func (c *Composer) Rows() []ItemRow {
	out := make([]ItemRow, len(c.rows))
	copy(out, c.rows)
	return out
}

// Len returns the number of rows
func (c *Composer) Len() int {
	return len(c.rows)
}

// Reset removes every row
func (c *Composer) Reset() {
	c.rows = nil
}

// LineTotal returns quantity*price of one row for live display.
// Fields that do not parse count as zero.
func (c *Composer) LineTotal(index int) float64 {
	if !c.inRange(index) {
		return 0
	}
	return lenientNumber(c.rows[index].Quantity) * lenientNumber(c.rows[index].UnitPrice)
}

// RecomputeTotal sums every row for live display
func (c *Composer) RecomputeTotal() float64 {
	total := 0.0
	for i := range c.rows {
		total += c.LineTotal(i)
	}
	return total
}

// FormatTotal renders RecomputeTotal with two decimals
func (c *Composer) FormatTotal() string {
	return domain.FormatAmount(c.RecomputeTotal())
}

// Validate checks every row in order and returns the first problem found
func (c *Composer) Validate() error {
	if len(c.rows) == 0 {
		return domain.NewValidationError("Please add at least one item")
	}
	for _, row := range c.rows {
		if strings.TrimSpace(row.Description) == "" {
			return domain.NewValidationError("Item description cannot be empty")
		}
		if _, ok := parseNumber(row.Quantity); !ok {
			return domain.NewValidationError("Invalid quantity: %s", row.Quantity)
		}
		if _, ok := parseNumber(row.UnitPrice); !ok {
			return domain.NewValidationError("Invalid price: %s", row.UnitPrice)
		}
	}
	return nil
}

// Items validates the rows and converts them to invoice line items
func (c *Composer) Items() ([]domain.LineItem, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, len(c.rows))
	for i, row := range c.rows {
		qty, _ := parseNumber(row.Quantity)
		price, _ := parseNumber(row.UnitPrice)
		items[i] = domain.LineItem{
			Description: strings.TrimSpace(row.Description),
			Quantity:    qty,
			UnitPrice:   price,
		}
	}
	return items, nil
}

func (c *Composer) inRange(index int) bool {
	return index >= 0 && index < len(c.rows)
}

// parseNumber accepts finite decimal numbers, ignoring surrounding space
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func lenientNumber(s string) float64 {
	v, _ := parseNumber(s)
	return v
}
