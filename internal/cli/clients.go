package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/orionledger/internal/domain"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `List, add, edit, show, and delete clients.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		clients, err := appInstance.Clients.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found")
			return nil
		}

		fmt.Fprintf(out, "%-5s %-30s %-28s %-15s\n", "ID", "Name", "Email", "Phone")
		fmt.Fprintln(out, "------------------------------------------------------------------------------")

		for _, client := range clients {
			fmt.Fprintf(out, "%-5d %-30s %-28s %-15s\n",
				client.ID,
				truncate(client.Name, 30),
				truncate(orNA(client.Email), 28),
				orNA(client.Phone),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d client(s)\n", len(clients))
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, _ := cmd.Flags().GetString("address")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")

		client := domain.NewClient(args[0], unescapeNewlines(address), email, phone)
		if err := appInstance.Clients.Save(cmd.Context(), client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client created: %s (ID: %d)\n", client.Name, client.ID)
		return nil
	},
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an existing client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := lookupClient(cmd, args[0])
		if err != nil {
			return err
		}

		// Update fields if flags provided
		if cmd.Flags().Changed("name") {
			client.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("address") {
			address, _ := cmd.Flags().GetString("address")
			client.Address = unescapeNewlines(address)
		}
		if cmd.Flags().Changed("email") {
			client.Email, _ = cmd.Flags().GetString("email")
		}
		if cmd.Flags().Changed("phone") {
			client.Phone, _ = cmd.Flags().GetString("phone")
		}

		if err := appInstance.Clients.Save(cmd.Context(), client); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client updated: %s\n", client.Name)
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show client details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := lookupClient(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Client #%d: %s\n", client.ID, client.Name)
		fmt.Fprintf(out, "  Address: %s\n", strings.ReplaceAll(orNA(client.Address), "\n", "\n           "))
		fmt.Fprintf(out, "  Email:   %s\n", orNA(client.Email))
		fmt.Fprintf(out, "  Phone:   %s\n", orNA(client.Phone))
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a client",
	Long: `Delete a client. Invoices issued to the client are kept and still
refer to its id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid client ID: %w", err)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(cmd, "Are you sure you want to delete this client?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.Clients.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Client deleted (ID: %d)\n", id)
		return nil
	},
}

func lookupClient(cmd *cobra.Command, arg string) (*domain.Client, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %w", err)
	}

	client, err := appInstance.Clients.Get(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// unescapeNewlines lets multi-line addresses be passed as "a\nb" on the shell
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsEditCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// Add flags
	clientsAddCmd.Flags().String("address", "", `Postal address, lines separated by \n`)
	clientsAddCmd.Flags().String("email", "", "Client email")
	clientsAddCmd.Flags().String("phone", "", "Client phone")

	// Edit flags
	clientsEditCmd.Flags().String("name", "", "New name")
	clientsEditCmd.Flags().String("address", "", "New address")
	clientsEditCmd.Flags().String("email", "", "New email")
	clientsEditCmd.Flags().String("phone", "", "New phone")

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
