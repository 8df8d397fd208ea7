package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/menu"
	"github.com/marcus/brew/internal/orders"
)

type outputStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Price   lipgloss.Style
	Success lipgloss.Style
	Receipt lipgloss.Style
}

func newOutputStyles() outputStyles {
	return outputStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("180")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Price:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Receipt: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("94")).
			Padding(0, 1),
	}
}

// renderReceipt lists each layer of c with its price, then the total.
func renderReceipt(w io.Writer, c coffee.Coffee, symbol string) {
	st := newOutputStyles()

	base := coffee.Base(c)
	lines := []string{
		line(st, base.Description(), menu.FormatPrice(base.Cost(), symbol)),
	}
	for _, t := range coffee.Toppings(c) {
		label := t.Label
		if label == "" {
			label = t.Name
		}
		lines = append(lines, line(st, "  + "+label, menu.FormatPrice(t.Price, symbol)))
	}
	lines = append(lines,
		st.Muted.Render(strings.Repeat("─", 32)),
		line(st, "Total", st.Price.Render(menu.FormatPrice(c.Cost(), symbol))),
	)

	fmt.Fprintln(w, st.Receipt.Render(strings.Join(lines, "\n")))
}

func line(st outputStyles, label, price string) string {
	pad := 32 - lipgloss.Width(label) - lipgloss.Width(price)
	if pad < 1 {
		pad = 1
	}
	return st.Value.Render(label) + strings.Repeat(" ", pad) + price
}

func printOrderRow(w io.Writer, o orders.Order, symbol string) {
	st := newOutputStyles()
	who := ""
	if o.Customer != "" {
		who = " " + st.Label.Render("for "+o.Customer)
	}
	fmt.Fprintf(w, "%s  %s  %s%s\n",
		st.Muted.Render(o.CreatedAt.Local().Format("2006-01-02 15:04")),
		st.Price.Render(fmt.Sprintf("%9s", menu.FormatPrice(o.Cost, symbol))),
		st.Value.Render(o.Description),
		who,
	)
}
