package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database. Both variants set the invoice counter back
to zero, so the next order id starts again at 0001.

Examples:
  orionledger reset invoices   # Delete all invoices, keep clients
  orionledger reset all        # Wipe everything: invoices and clients`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices and reset the invoice counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "This will delete ALL invoices and restart numbering at 0001. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.DB.ResetInvoices(cmd.Context()); err != nil {
			return err
		}
		appInstance.Logger.Warn("all invoices deleted")

		fmt.Fprintln(cmd.OutOrStdout(), "All invoices have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: clients and invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmed(cmd, "This will delete ALL data (clients and invoices). Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.DB.ResetAll(cmd.Context()); err != nil {
			return err
		}
		appInstance.Logger.Warn("all clients and invoices deleted")

		fmt.Fprintln(cmd.OutOrStdout(), "All data has been deleted.")
		return nil
	},
}

func confirmed(cmd *cobra.Command, message string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	return confirmPrompt(cmd, message)
}

func confirmPrompt(cmd *cobra.Command, message string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", message)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)

	resetCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
