package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/render"
	"github.com/andy/orionledger/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, show, and export invoices. Saved invoices cannot be edited.`,
}

var invoicesNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the order id the next invoice will get",
	RunE: func(cmd *cobra.Command, args []string) error {
		next, err := appInstance.Sequence.PeekNext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read invoice counter: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save a new invoice and export its PDF",
	Long: `Save a new invoice and export its PDF.

Each --item is "description|quantity|unit price", for example:
  orionledger invoices create --client 1 --item "Edit|2|1500" --item "Color|1|800" --payment "UPI bestcuts@okbank"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		session, err := appInstance.NewSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to start invoice: %w", err)
		}

		clientID, _ := cmd.Flags().GetInt64("client")
		if clientID > 0 {
			session.ClientID = fmt.Sprintf("%d", clientID)
		}
		session.PaymentDetails, _ = cmd.Flags().GetString("payment")
		session.PaymentDetails = unescapeNewlines(session.PaymentDetails)
		if cmd.Flags().Changed("currency") {
			session.Currency, _ = cmd.Flags().GetString("currency")
		}

		itemFlags, _ := cmd.Flags().GetStringArray("item")
		session.Composer.Reset()
		for _, raw := range itemFlags {
			row, err := parseItemFlag(raw)
			if err != nil {
				return err
			}
			session.Composer.AddRow(row)
		}

		result, err := appInstance.Persister.Commit(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		inv := result.Invoice
		fmt.Fprintf(out, "✓ Invoice saved: %s\n", inv.OrderID)
		fmt.Fprintf(out, "  Date:  %s\n", inv.Date)
		fmt.Fprintf(out, "  Total: %s %s\n", inv.Currency, domain.FormatAmount(inv.TotalDue))
		if result.ExportErr != nil {
			fmt.Fprintf(out, "  PDF export failed: %v\n", result.ExportErr)
			fmt.Fprintf(out, "  Retry with: orionledger invoices export %s\n", inv.OrderID)
			return nil
		}
		fmt.Fprintf(out, "  PDF:   %s\n", result.DocumentPath)
		return nil
	},
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		var date *string
		if cmd.Flags().Changed("date") {
			d, _ := cmd.Flags().GetString("date")
			d = strings.ToUpper(strings.TrimSpace(d))
			if d == "TODAY" {
				d = domain.FormatDisplayDate(time.Now())
			}
			date = &d
		}

		invoices, err := appInstance.InvoiceService.ListInvoices(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		fmt.Fprintf(out, "%-14s %-12s %-28s %14s\n", "Order ID", "Date", "Client", "Total")
		fmt.Fprintln(out, "---------------------------------------------------------------------")

		for _, inv := range invoices {
			fmt.Fprintf(out, "%-14s %-12s %-28s %14s\n",
				inv.OrderID,
				inv.Date,
				truncate(clientLabel(cmd, inv), 28),
				inv.Currency+" "+domain.FormatAmount(inv.TotalDue),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [order_id]",
	Short: "Print a saved invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inv, err := appInstance.InvoiceService.GetInvoice(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		client, err := appInstance.InvoiceService.ResolveClient(ctx, inv)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("failed to get client: %w", err)
			}
			client = &domain.Client{Name: "Client not found"}
		}

		doc := render.NewDocument(inv, client, appInstance.Letterhead())
		return render.TextRenderer{}.Render(cmd.OutOrStdout(), doc)
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [order_id]",
	Short: "Write the PDF of a saved invoice again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := appInstance.InvoiceService.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice exported: %s\n", path)
		return nil
	},
}

// parseItemFlag splits "description|quantity|price". Numbers are checked
// later by the composer, with the same messages as the form.
func parseItemFlag(raw string) (service.ItemRow, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != 3 {
		return service.ItemRow{}, fmt.Errorf("invalid item %q: expected description|quantity|price", raw)
	}
	return service.ItemRow{
		Description: strings.TrimSpace(parts[0]),
		Quantity:    strings.TrimSpace(parts[1]),
		UnitPrice:   strings.TrimSpace(parts[2]),
	}, nil
}

func clientLabel(cmd *cobra.Command, inv *domain.Invoice) string {
	client, err := appInstance.InvoiceService.ResolveClient(cmd.Context(), inv)
	if err != nil {
		return "Client #" + inv.ClientID
	}
	return client.Name
}

func init() {
	invoicesCmd.AddCommand(invoicesNextCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)

	// Create flags
	invoicesCreateCmd.Flags().Int64("client", 0, "Client ID (required)")
	invoicesCreateCmd.Flags().StringArray("item", nil, `Line item "description|quantity|price" (repeatable)`)
	invoicesCreateCmd.Flags().String("payment", "", `Payment details, lines separated by \n`)
	invoicesCreateCmd.Flags().String("currency", "", "Currency code (default from config)")

	// List flags
	invoicesListCmd.Flags().String("date", "", "Only invoices issued on this date (DD-MON-YYYY or 'today')")
}
