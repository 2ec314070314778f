package domain

// InvoiceCounterID is the key of the singleton counter record
const InvoiceCounterID = "invoiceCounter"

// Counter holds the last reserved invoice sequence value. Zero means no
// invoice number has been issued yet.
type Counter struct {
	ID    string
	Value int64
}
