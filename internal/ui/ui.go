// Package ui provides an interactive terminal order builder.
// Uses Bubbletea to pick toppings and preview the decorated coffee as it is built.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/menu"
)

// Focus is the part of the form receiving keys.
type Focus int

const (
	FocusToppings Focus = iota
	FocusCustomer
)

// Selection is what the user confirmed.
type Selection struct {
	Toppings []string
	Customer string
}

// Model holds the order builder state.
type Model struct {
	menu     *menu.Menu
	toppings []coffee.Topping
	symbol   string

	// order keeps the sequence toppings were added in, which is the wrap order.
	order    []string
	cursor   int
	focus    Focus
	customer textinput.Model

	width     int
	confirmed bool
	cancelled bool

	styles *Styles
}

// Styles holds lipgloss styles for the order builder.
type Styles struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Price    lipgloss.Style
	Preview  lipgloss.Style
	Total    lipgloss.Style
	Help     lipgloss.Style
	Box      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("180")),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Price:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Preview:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("252")),
		Total:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("94")).
			Padding(0, 1),
	}
}

// New creates an order builder over m, rendering prices with symbol.
func New(m *menu.Menu, symbol string) *Model {
	if m == nil {
		m = menu.Default()
	}
	ti := textinput.New()
	ti.Placeholder = "name (optional)"
	ti.CharLimit = 40
	ti.Prompt = "Customer: "

	return &Model{
		menu:     m,
		toppings: m.Toppings(),
		symbol:   symbol,
		customer: ti,
		width:    60,
		styles:   DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.focus == FocusCustomer {
			return m.handleCustomerKey(msg)
		}
		return m.handleToppingKey(msg)
	}
	return m, nil
}

func (m Model) handleToppingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "tab":
		m.focus = FocusCustomer
		cmd := m.customer.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.toppings)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if name, ok := m.current(); ok {
			if m.Count(name) > 0 {
				m.order = removeAll(m.order, name)
			} else {
				m.order = appendName(m.order, name)
			}
		}
	case "+", "=":
		if name, ok := m.current(); ok {
			m.order = appendName(m.order, name)
		}
	case "-":
		if name, ok := m.current(); ok {
			m.order = removeLast(m.order, name)
		}
	}
	return m, nil
}

func (m Model) handleCustomerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "tab", "shift+tab":
		m.focus = FocusToppings
		m.customer.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.customer, cmd = m.customer.Update(msg)
	return m, cmd
}

func (m Model) current() (string, bool) {
	if len(m.toppings) == 0 {
		return "", false
	}
	return m.toppings[m.cursor].Name, true
}

// Count returns how many times name is in the current order.
func (m Model) Count(name string) int {
	n := 0
	for _, o := range m.order {
		if o == name {
			n++
		}
	}
	return n
}

// Coffee returns the coffee the current selection builds.
func (m Model) Coffee() coffee.Coffee {
	c, err := m.menu.Build(m.order)
	if err != nil {
		// order only ever holds names taken from the menu
		return coffee.New()
	}
	return c
}

// Result returns the confirmed selection. ok is false if the user cancelled.
func (m Model) Result() (Selection, bool) {
	if !m.confirmed || m.cancelled {
		return Selection{}, false
	}
	return Selection{
		Toppings: append([]string(nil), m.order...),
		Customer: strings.TrimSpace(m.customer.Value()),
	}, true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("Build your coffee"))
	b.WriteString("\n\n")

	for i, t := range m.toppings {
		cursor := "  "
		if i == m.cursor && m.focus == FocusToppings {
			cursor = s.Cursor.Render("> ")
		}
		check := "[ ]"
		label := s.Item.Render(t.Label)
		if n := m.Count(t.Name); n > 0 {
			check = s.Selected.Render(fmt.Sprintf("[%d]", n))
			label = s.Selected.Render(t.Label)
		}
		price := s.Price.Render("+" + menu.FormatPrice(t.Price, m.symbol))
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, check, label, price)
	}

	b.WriteString("\n")
	b.WriteString(m.customer.View())
	b.WriteString("\n\n")

	c := m.Coffee()
	b.WriteString(s.Preview.Render(c.Description()))
	b.WriteString("\n")
	b.WriteString(s.Total.Render("Total " + menu.FormatPrice(c.Cost(), m.symbol)))
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render("↑/↓ move • space toggle • +/- amount • tab customer • enter order • esc cancel"))

	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return s.Box.Width(width).Render(b.String())
}

// Run shows the order builder and blocks until the user confirms or cancels.
func Run(m *menu.Menu, symbol string) (Selection, bool, error) {
	final, err := tea.NewProgram(*New(m, symbol)).Run()
	if err != nil {
		return Selection{}, false, fmt.Errorf("running order builder: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return Selection{}, false, nil
	}
	sel, ok := model.Result()
	return sel, ok, nil
}

// appendName copies so earlier Model values never share the order slice.
func appendName(list []string, name string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, name)
}

func removeAll(list []string, name string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != name {
			out = append(out, v)
		}
	}
	return out
}

func removeLast(list []string, name string) []string {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == name {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}
