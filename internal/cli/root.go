package cli

import (
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/andy/orionledger/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "orionledger",
	Short: "Invoices for a small media production business",
	Long: `OrionLedger keeps a client list, numbers invoices from a single counter,
and exports each saved invoice as a PDF.

By default, running orionledger without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE:         launchTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}

// truncate shortens s to maxLen terminal columns, cutting on rune boundaries
func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}

// orNA fills blank client fields in listings
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
