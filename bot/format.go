/*
format.go - Shared message text helpers

PURPOSE:
  Line formats reused across flows: product summaries, user listings and
  the back-label escape that lets users type the back button's caption
  instead of pressing it.
*/
package bot

import (
	"fmt"
	"strings"

	"github.com/vinoteca/stockbot/ledger"
)

// productLine is the one-line product summary used by pickers and
// confirmations.
func productLine(p ledger.Product) string {
	return fmt.Sprintf("#%d) %s — total: %d, vândut: %d, rămase: %d",
		p.ID, p.Name, p.QtyTotal, p.QtySold, p.Remaining())
}

// userLine is the one-line user summary used by the management listings.
func userLine(u ledger.User) string {
	emoji := "👤"
	if u.Role == ledger.RoleAdministrator {
		emoji = "👑"
	}
	return fmt.Sprintf("%s %s — Rol: %s", emoji, u.Display(), u.Role)
}

func userListing(users []ledger.User) string {
	if len(users) == 0 {
		return "❌ Nu există utilizatori înregistrați."
	}
	lines := make([]string, 0, len(users)+1)
	lines = append(lines, "📋 Utilizatori actuali:\n")
	for _, u := range users {
		lines = append(lines, userLine(u))
	}
	return strings.Join(lines, "\n")
}

// isBackLabel reports whether typed text is someone typing a back button's
// caption. Text steps treat it as cancel so users are never trapped in a
// flow whose inline button scrolled away.
func isBackLabel(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "înapoi") ||
		strings.Contains(lower, "inapoi") ||
		strings.Contains(text, "⬅️")
}

// accountInfo is the /chatid and no-access account summary.
func accountInfo(userID, handle string) string {
	if handle == "" {
		handle = "Necunoscut"
	}
	return fmt.Sprintf("🆔 Informații despre cont:\n\nChatID: %s\nUtilizator: %s", userID, handle)
}
