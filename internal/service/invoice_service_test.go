package service

import (
	"context"
	"testing"

	"github.com/andy/orionledger/internal/domain"
)

func newStoredInvoice(orderID, date, clientID string) *domain.Invoice {
	return domain.NewInvoice(orderID, date, clientID,
		[]domain.LineItem{{Description: "Edit", Quantity: 1, UnitPrice: 100}},
		"INR", "UPI")
}

func TestListInvoices_ByDate(t *testing.T) {
	ctx := context.Background()

	mockInv := newMockInvoiceRepo()
	mockInv.invoices["BCMP-25-0001"] = newStoredInvoice("BCMP-25-0001", "04-OCT-2026", "1")
	mockInv.invoices["BCMP-25-0002"] = newStoredInvoice("BCMP-25-0002", "05-OCT-2026", "1")

	svc := NewInvoiceService(mockInv, NewClientRegistry(newMockClientRepo()), &mockExporter{})

	all, err := svc.ListInvoices(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(all))
	}

	date := "05-OCT-2026"
	some, err := svc.ListInvoices(ctx, &date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(some) != 1 || some[0].OrderID != "BCMP-25-0002" {
		t.Fatalf("expected only BCMP-25-0002, got %v", some)
	}
}

func TestExport_RerendersStoredInvoice(t *testing.T) {
	ctx := context.Background()

	mockInv := newMockInvoiceRepo()
	mockInv.invoices["BCMP-25-0001"] = newStoredInvoice("BCMP-25-0001", "04-OCT-2026", "1")
	exporter := &mockExporter{}

	svc := NewInvoiceService(mockInv,
		NewClientRegistry(newMockClientRepo(&domain.Client{ID: 1, Name: "ACME"})),
		exporter)

	path, err := svc.Export(ctx, "BCMP-25-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/BCMP-25-0001.pdf" {
		t.Fatalf("unexpected path %q", path)
	}
	if len(exporter.exported) != 1 {
		t.Fatalf("expected one export, got %d", len(exporter.exported))
	}
}

func TestResolveClient_BadReference(t *testing.T) {
	ctx := context.Background()
	svc := NewInvoiceService(newMockInvoiceRepo(), NewClientRegistry(newMockClientRepo()), &mockExporter{})

	_, err := svc.ResolveClient(ctx, newStoredInvoice("BCMP-25-0001", "04-OCT-2026", "ACME Ltd"))
	if err == nil {
		t.Fatalf("expected error for non-numeric client reference")
	}

	_, err = svc.Export(ctx, "BCMP-25-0404")
	if err == nil {
		t.Fatalf("expected error for missing invoice")
	}
}
