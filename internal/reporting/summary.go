// Package reporting renders daily sales summaries as markdown and saves them to disk.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marcus/brew/internal/menu"
	"github.com/marcus/brew/internal/orders"
)

// DefaultReportsDir returns where daily reports are written.
func DefaultReportsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "brew", "reports")
}

// FormatSummary renders s as markdown with prices in symbol.
func FormatSummary(s orders.DaySummary, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sales for %s\n\n", s.Date.Format("Mon Jan 2, 2006"))

	if s.Orders == 0 {
		b.WriteString("No orders.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "- Orders: %d\n", s.Orders)
	fmt.Fprintf(&b, "- Revenue: %s\n", menu.FormatPrice(s.Revenue, symbol))
	fmt.Fprintf(&b, "- Average order: %s\n", menu.FormatPrice(s.Average, symbol))

	if len(s.Popular) > 0 {
		b.WriteString("\n## Toppings\n\n")
		for _, tc := range s.Popular {
			fmt.Fprintf(&b, "- %s: %d\n", tc.Topping, tc.Count)
		}
	}

	if len(s.Customer) > 0 {
		names := make([]string, 0, len(s.Customer))
		for name := range s.Customer {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n## Regulars\n\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %d\n", name, s.Customer[name])
		}
	}

	return b.String()
}

// ReportPath returns the file path for the summary of s.Date inside dir.
func ReportPath(dir string, s orders.DaySummary) string {
	return filepath.Join(dir, fmt.Sprintf("brew-report-%s.md", s.Date.Format("2006-01-02")))
}

// SaveSummary writes the rendered summary to dir and returns its path.
func SaveSummary(dir string, s orders.DaySummary, symbol string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating reports dir: %w", err)
	}
	path := ReportPath(dir, s)
	if err := os.WriteFile(path, []byte(FormatSummary(s, symbol)), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
