package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/orionledger/internal/app"
	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/render"
)

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewDetail                 // Viewing a single invoice
)

// InvoicesModel lists saved invoices. Saved invoices are read-only; the
// only action is writing their PDF again.
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	names     map[string]string
	cursor    int
	todayOnly bool
	detail    string
	loading   bool
	err       error
	statusMsg string
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	names    map[string]string
	err      error
}

type invoiceDetailMsg struct {
	text string
	err  error
}

type invoiceExportedMsg struct {
	path string
	err  error
}

// NewInvoicesModel creates the saved invoices screen
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	var date *string
	if m.todayOnly {
		d := domain.FormatDisplayDate(timeNow())
		date = &d
	}

	return func() tea.Msg {
		ctx := context.Background()

		invoices, err := m.app.InvoiceService.ListInvoices(ctx, date)
		if err != nil {
			return invoicesDataMsg{err: err}
		}

		names := make(map[string]string)
		for _, inv := range invoices {
			if _, ok := names[inv.ClientID]; ok {
				continue
			}
			names[inv.ClientID] = "Client not found"
			if c, err := m.app.InvoiceService.ResolveClient(ctx, inv); err == nil {
				names[inv.ClientID] = c.Name
			}
		}

		return invoicesDataMsg{invoices: invoices, names: names}
	}
}

func (m *InvoicesModel) loadDetail(inv *domain.Invoice) tea.Cmd {
	return func() tea.Msg {
		client, err := m.app.InvoiceService.ResolveClient(context.Background(), inv)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return invoiceDetailMsg{err: err}
			}
			client = &domain.Client{Name: "Client not found"}
		}

		var buf bytes.Buffer
		doc := render.NewDocument(inv, client, m.app.Letterhead())
		if err := (render.TextRenderer{}).Render(&buf, doc); err != nil {
			return invoiceDetailMsg{err: err}
		}
		return invoiceDetailMsg{text: buf.String()}
	}
}

func (m *InvoicesModel) export(orderID string) tea.Cmd {
	return func() tea.Msg {
		path, err := m.app.InvoiceService.Export(context.Background(), orderID)
		return invoiceExportedMsg{path: path, err: err}
	}
}

func (m *InvoicesModel) current() *domain.Invoice {
	if m.cursor < len(m.invoices) {
		return m.invoices[m.cursor]
	}
	return nil
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			m.names = msg.names
			if m.cursor >= len(m.invoices) {
				m.cursor = max(0, len(m.invoices)-1)
			}
		}
		return m, nil

	case invoiceDetailMsg:
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.text
			m.mode = invoiceViewDetail
		}
		return m, nil

	case invoiceExportedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to export invoice: %w", msg.err)
			return m, nil
		}
		m.statusMsg = "Exported " + msg.path
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		m.statusMsg = ""
		m.err = nil

		if m.mode == invoiceViewDetail {
			switch {
			case key.Matches(msg, DefaultKeyMap.Back):
				m.mode = invoiceViewList
			case key.Matches(msg, DefaultKeyMap.Export):
				if inv := m.current(); inv != nil {
					return m, m.export(inv.OrderID)
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if inv := m.current(); inv != nil {
				return m, m.loadDetail(inv)
			}
		case key.Matches(msg, DefaultKeyMap.Export):
			if inv := m.current(); inv != nil {
				return m, m.export(inv.OrderID)
			}
		case msg.String() == "t":
			m.todayOnly = !m.todayOnly
			m.cursor = 0
			m.loading = true
			return m, m.loadInvoices()
		}
	}

	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}

	var b strings.Builder

	if m.mode == invoiceViewDetail {
		b.WriteString(m.detail)
		m.writeFeedback(&b)
		b.WriteString("\n" + helpStyle.Render("  x: export pdf  esc: back"))
		return b.String()
	}

	header := "Invoices"
	if m.todayOnly {
		header += subtitleStyle.Render("  (issued today)")
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	if len(m.invoices) == 0 {
		b.WriteString(subtitleStyle.Render("  No invoices yet. Save one from the invoice form (f).") + "\n")
	}

	for i, inv := range m.invoices {
		line := fmt.Sprintf("%-14s %-12s %-28s %16s",
			inv.OrderID,
			inv.Date,
			truncateStr(m.names[inv.ClientID], 28),
			formatMoney(inv.Currency, inv.TotalDue),
		)
		if i == m.cursor {
			b.WriteString("> " + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	m.writeFeedback(&b)
	b.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter: view  x: export pdf  t: toggle today"))
	return b.String()
}

func (m *InvoicesModel) writeFeedback(b *strings.Builder) {
	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render("  ✓ "+m.statusMsg) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}
}
