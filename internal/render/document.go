package render

import (
	"strconv"
	"strings"

	"github.com/andy/orionledger/internal/domain"
)

// Letterhead is the issuing business printed at the top of every invoice
type Letterhead struct {
	Title   string
	Name    string
	Address string
	Email   string
	Phone   string
}

// TableHeader is the column header row of the item table
var TableHeader = [4]string{"Description", "Qty", "Unit Price", "Total"}

// Document is an invoice laid out as plain strings, independent of the
// output format.
type Document struct {
	Title        string
	BusinessName string
	BusinessInfo []string

	InvoiceNumber string
	Date          string

	BillTo []string
	Rows   [][4]string

	// Total is "<currency> <amount>"
	Total          string
	PaymentDetails []string

	FileName string
}

// NewDocument lays out a committed invoice for its client
func NewDocument(inv *domain.Invoice, client *domain.Client, lh Letterhead) *Document {
	doc := &Document{
		Title:         lh.Title,
		BusinessName:  lh.Name,
		BusinessInfo:  nonBlank(append(splitLines(lh.Address), lh.Email, lh.Phone)...),
		InvoiceNumber: inv.OrderID,
		Date:          inv.Date,
		Total:         inv.Currency + " " + domain.FormatAmount(inv.TotalDue),
		FileName:      FileName(client.Name, inv.OrderID),
	}

	billTo := []string{"Bill To: " + client.Name}
	billTo = append(billTo, splitLines(client.Address)...)
	if client.Email != "" {
		billTo = append(billTo, "Email: "+client.Email)
	}
	if client.Phone != "" {
		billTo = append(billTo, "Phone: "+client.Phone)
	}
	doc.BillTo = nonBlank(billTo...)

	for _, item := range inv.Items {
		doc.Rows = append(doc.Rows, [4]string{
			item.Description,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			domain.FormatAmount(item.UnitPrice),
			domain.FormatAmount(item.Amount()),
		})
	}

	doc.PaymentDetails = strings.Split(inv.PaymentDetails, "\n")
	return doc
}

// FileName is the exported file name for a client's invoice
func FileName(clientName, orderID string) string {
	name := strings.ReplaceAll(strings.TrimSpace(clientName), " ", "_")
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return name + "-" + orderID + ".pdf"
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

func nonBlank(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
