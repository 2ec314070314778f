package tui

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/andy/orionledger/internal/domain"
)

// timeNow dates new invoice forms
var timeNow = time.Now

// formatMoney formats money as "INR 1,500.00" with comma separators
func formatMoney(currency string, amount float64) string {
	p := message.NewPrinter(language.English)
	return strings.TrimSpace(currency + " " + p.Sprintf("%.2f", amount))
}

// truncateStr truncates a string to the specified width with ellipsis
func truncateStr(s string, maxLen int) string {
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// clientDetails is the details panel under the client selector. A nil
// client with a selection means the selected id no longer resolves.
func clientDetails(client *domain.Client, selected bool) []string {
	if !selected {
		return nil
	}
	if client == nil {
		return []string{"Client not found"}
	}
	return []string{
		"Address: " + strings.ReplaceAll(orNA(client.Address), "\n", ", "),
		"Email:   " + orNA(client.Email),
		"Phone:   " + orNA(client.Phone),
	}
}
