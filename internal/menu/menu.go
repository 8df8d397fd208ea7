// Package menu holds the topping catalog and builds decorator chains from topping names.
package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/marcus/brew/internal/coffee"
)

var (
	ErrEmptyName        = errors.New("topping name is empty")
	ErrDuplicateTopping = errors.New("duplicate topping")
	ErrNegativePrice    = errors.New("topping price is negative")
	ErrUnknownTopping   = errors.New("unknown topping")
)

// Menu is an immutable set of toppings keyed by lower-case name.
type Menu struct {
	toppings map[string]coffee.Topping
}

// Default returns the built-in menu.
func Default() *Menu {
	m, _ := New(coffee.DefaultToppings())
	return m
}

// New validates toppings and builds a Menu.
func New(toppings []coffee.Topping) (*Menu, error) {
	m := &Menu{toppings: make(map[string]coffee.Topping, len(toppings))}
	for _, t := range toppings {
		key := normalize(t.Name)
		if key == "" {
			return nil, ErrEmptyName
		}
		if t.Price < 0 {
			return nil, fmt.Errorf("%w: %s (%d)", ErrNegativePrice, key, t.Price)
		}
		if _, ok := m.toppings[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTopping, key)
		}
		t.Name = key
		m.toppings[key] = t
	}
	return m, nil
}

// Merge returns a menu where overrides replace or extend base entries.
func Merge(base *Menu, overrides []coffee.Topping) (*Menu, error) {
	merged := make(map[string]coffee.Topping)
	for k, v := range base.toppings {
		merged[k] = v
	}
	seen := make(map[string]bool)
	for _, t := range overrides {
		key := normalize(t.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTopping, key)
		}
		seen[key] = true
		merged[key] = t
	}
	list := make([]coffee.Topping, 0, len(merged))
	for _, t := range merged {
		list = append(list, t)
	}
	return New(list)
}

// Lookup finds a topping by name, ignoring case and surrounding space.
func (m *Menu) Lookup(name string) (coffee.Topping, bool) {
	t, ok := m.toppings[normalize(name)]
	return t, ok
}

// Toppings returns all toppings sorted by name.
func (m *Menu) Toppings() []coffee.Topping {
	list := make([]coffee.Topping, 0, len(m.toppings))
	for _, t := range m.toppings {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Len returns the number of toppings.
func (m *Menu) Len() int {
	return len(m.toppings)
}

// Build starts from a BasicCoffee and wraps it once per name, in order.
// Names may repeat.
func (m *Menu) Build(names []string) (coffee.Coffee, error) {
	c := coffee.New()
	for _, name := range names {
		t, ok := m.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTopping, name)
		}
		c = coffee.Wrap(c, t)
	}
	return c, nil
}

// FormatPrice renders amount with thousands separators, e.g. "₩3,500".
func FormatPrice(amount int, symbol string) string {
	if amount < 0 {
		return "-" + symbol + humanize.Comma(int64(-amount))
	}
	return symbol + humanize.Comma(int64(amount))
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
