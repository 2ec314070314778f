package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TextRenderer writes a Document as plain text
type TextRenderer struct{}

// Render writes doc to w
func (TextRenderer) Render(w io.Writer, doc *Document) error {
	var b strings.Builder

	b.WriteString(doc.Title + "\n")
	b.WriteString(doc.BusinessName + "\n")
	for _, line := range doc.BusinessInfo {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nInvoice #: %s\nDate: %s\n\n", doc.InvoiceNumber, doc.Date)

	for _, line := range doc.BillTo {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(TableHeader[:], "\t"))
	for _, row := range doc.Rows {
		fmt.Fprintln(tw, strings.Join(row[:], "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nTotal Due: %s\n\nPayment Details:\n", doc.Total)
	for _, line := range doc.PaymentDetails {
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
