package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/andy/orionledger/internal/domain"
)

// mock implementations

type mockCounterRepo struct {
	counter   *domain.Counter
	getErr    error
	putErr    error
	puts      int
	seedCalls int
}

func (m *mockCounterRepo) Get(ctx context.Context) (*domain.Counter, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.counter == nil {
		return nil, nil
	}
	c := *m.counter
	return &c, nil
}

func (m *mockCounterRepo) Put(ctx context.Context, counter *domain.Counter) error {
	if m.putErr != nil {
		return m.putErr
	}
	c := *counter
	m.counter = &c
	m.puts++
	return nil
}

func (m *mockCounterRepo) AddIfMissing(ctx context.Context) error {
	m.seedCalls++
	if m.counter == nil {
		m.counter = &domain.Counter{ID: domain.InvoiceCounterID}
	}
	return nil
}

type mockInvoiceRepo struct {
	invoices map[string]*domain.Invoice
	addErr   error
	adds     int
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{invoices: map[string]*domain.Invoice{}}
}

func (m *mockInvoiceRepo) Add(ctx context.Context, invoice *domain.Invoice) error {
	if m.addErr != nil {
		return m.addErr
	}
	if _, ok := m.invoices[invoice.OrderID]; ok {
		return domain.NewStoreError("save invoice", context.Canceled)
	}
	m.invoices[invoice.OrderID] = invoice
	m.adds++
	return nil
}

func (m *mockInvoiceRepo) Get(ctx context.Context, orderID string) (*domain.Invoice, error) {
	if inv, ok := m.invoices[orderID]; ok {
		return inv, nil
	}
	return nil, &domain.NotFoundError{Entity: "invoice", Key: orderID}
}

func (m *mockInvoiceRepo) GetAll(ctx context.Context) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (m *mockInvoiceRepo) ListByDate(ctx context.Context, date string) ([]*domain.Invoice, error) {
	all, _ := m.GetAll(ctx)
	var out []*domain.Invoice
	for _, inv := range all {
		if inv.Date == date {
			out = append(out, inv)
		}
	}
	return out, nil
}

type mockClientRepo struct {
	clients map[int64]*domain.Client
	nextID  int64
	adds    int
	puts    int
}

func newMockClientRepo(clients ...*domain.Client) *mockClientRepo {
	m := &mockClientRepo{clients: map[int64]*domain.Client{}}
	for _, c := range clients {
		m.clients[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockClientRepo) Add(ctx context.Context, client *domain.Client) error {
	m.nextID++
	client.ID = m.nextID
	m.clients[client.ID] = client
	m.adds++
	return nil
}

func (m *mockClientRepo) Put(ctx context.Context, client *domain.Client) error {
	m.clients[client.ID] = client
	m.puts++
	return nil
}

func (m *mockClientRepo) Get(ctx context.Context, id int64) (*domain.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, &domain.NotFoundError{Entity: "client", Key: strconv.FormatInt(id, 10)}
}

func (m *mockClientRepo) GetAll(ctx context.Context) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id int64) error {
	delete(m.clients, id)
	return nil
}

type mockExporter struct {
	exported []string
	err      error
}

func (m *mockExporter) Export(ctx context.Context, invoice *domain.Invoice, client *domain.Client) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.exported = append(m.exported, invoice.OrderID)
	return "/tmp/" + invoice.OrderID + ".pdf", nil
}
