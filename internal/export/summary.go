// Package export renders a shareable summary of a split session: totals,
// every participant's purchases and balance, and the current settlement
// list. It is a pure read of session data with no feedback into the core.
package export

import (
	"fmt"
	"strings"

	"github.com/sengdao/splitkip/internal/engine"
	"github.com/sengdao/splitkip/internal/models"
	"github.com/sengdao/splitkip/internal/money"
)

// RenderSummary produces the plain-text share summary for a split snapshot
// and its computed settlements.
func RenderSummary(split *models.Split, settlements []engine.Settlement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ລວມທັງໝົດ: %s\n", money.FormatKipWithCurrency(split.TotalAmount))
	fmt.Fprintf(&b, "ຕໍ່ຄົນ (%d ຄົນ): %s\n", split.TotalUsers, money.FormatKipWithCurrency(split.PerUserAmount))
	b.WriteString(strings.Repeat("-", 32) + "\n")

	for _, u := range split.Users {
		paid := ""
		if u.IsPaid {
			paid = " ✓"
		}
		fmt.Fprintf(&b, "%s%s\n", u.UserName, paid)
		for _, p := range u.Purchases {
			fmt.Fprintf(&b, "  - %s: %s\n", p.ItemName, money.FormatKipWithCurrency(p.Amount))
		}
		fmt.Fprintf(&b, "  ຍອດເຫຼືອ: %s\n", money.FormatKipWithCurrency(u.CurrentBalance))
	}

	if len(settlements) > 0 {
		b.WriteString(strings.Repeat("-", 32) + "\n")
		b.WriteString("ການໂອນ:\n")
		for _, s := range settlements {
			fmt.Fprintf(&b, "  %s → %s: %s\n", s.From, s.To, money.FormatKipWithCurrency(s.Amount))
		}
	}

	return b.String()
}
