// Package orders records sold coffees in the brew database and summarizes sales.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/db"
	"github.com/marcus/brew/internal/logging"
)

// ErrNotFound is returned when an order ID does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a sold coffee.
type Order struct {
	ID          string
	Description string
	Cost        int
	Toppings    []string
	Customer    string
	CreatedAt   time.Time
}

// ToppingCount is how many times a topping was sold.
type ToppingCount struct {
	Topping string
	Count   int
}

// DaySummary aggregates one calendar day of orders.
type DaySummary struct {
	Date     time.Time
	Orders   int
	Revenue  int
	Average  int
	Popular  []ToppingCount
	Customer map[string]int
}

// Store reads and writes orders.
type Store struct {
	db  *db.DB
	now func() time.Time
	log *logging.Logger
}

// NewStore returns a Store backed by database.
func NewStore(database *db.DB) *Store {
	return &Store{
		db:  database,
		now: time.Now,
		log: logging.Component("orders"),
	}
}

// Place records c as a new order. The topping names come from c's decorator chain,
// so they always agree with the stored description and cost.
func (s *Store) Place(ctx context.Context, c coffee.Coffee, customer string) (Order, error) {
	if c == nil {
		return Order{}, errors.New("coffee is nil")
	}

	o := Order{
		ID:          uuid.NewString(),
		Description: c.Description(),
		Cost:        c.Cost(),
		Toppings:    toppingNames(c),
		Customer:    strings.TrimSpace(customer),
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.SQL().BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("begin order: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, description, cost, customer, created_at) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Description, o.Cost, o.Customer, o.CreatedAt,
	); err != nil {
		_ = tx.Rollback()
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i, name := range o.Toppings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_toppings (order_id, position, topping) VALUES (?, ?, ?)`,
			o.ID, i, name,
		); err != nil {
			_ = tx.Rollback()
			return Order{}, fmt.Errorf("insert topping: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("commit order: %w", err)
	}

	s.log.InfoCtx("order placed", map[string]any{
		"id":       o.ID,
		"cost":     o.Cost,
		"toppings": len(o.Toppings),
	})
	return o, nil
}

// Get returns a single order by ID.
func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	row := s.db.SQL().QueryRowContext(ctx,
		`SELECT id, description, cost, customer, created_at FROM orders WHERE id = ?`, id)

	var o Order
	if err := row.Scan(&o.ID, &o.Description, &o.Cost, &o.Customer, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Order{}, fmt.Errorf("query order: %w", err)
	}

	toppings, err := s.toppings(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	o.Toppings = toppings
	return o, nil
}

// Recent returns up to n orders, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Order, error) {
	if n <= 0 {
		return nil, nil
	}
	return s.query(ctx,
		`SELECT id, description, cost, customer, created_at FROM orders ORDER BY created_at DESC, rowid DESC LIMIT ?`, n)
}

// Between returns orders created in [from, to), oldest first.
func (s *Store) Between(ctx context.Context, from, to time.Time) ([]Order, error) {
	return s.query(ctx,
		`SELECT id, description, cost, customer, created_at FROM orders
		 WHERE created_at >= ? AND created_at < ? ORDER BY created_at, rowid`,
		from.UTC(), to.UTC())
}

// Summary aggregates the orders of the calendar day containing day, in day's location.
func (s *Store) Summary(ctx context.Context, day time.Time) (DaySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	list, err := s.Between(ctx, start, end)
	if err != nil {
		return DaySummary{}, err
	}
	return Summarize(start, list), nil
}

// Summarize aggregates orders. Popular toppings are sorted by count, then name.
func Summarize(date time.Time, list []Order) DaySummary {
	sum := DaySummary{Date: date, Customer: make(map[string]int)}
	counts := make(map[string]int)
	for _, o := range list {
		sum.Orders++
		sum.Revenue += o.Cost
		for _, t := range o.Toppings {
			counts[t]++
		}
		if o.Customer != "" {
			sum.Customer[o.Customer]++
		}
	}
	if sum.Orders > 0 {
		sum.Average = sum.Revenue / sum.Orders
	}
	for name, n := range counts {
		sum.Popular = append(sum.Popular, ToppingCount{Topping: name, Count: n})
	}
	sort.Slice(sum.Popular, func(i, j int) bool {
		if sum.Popular[i].Count != sum.Popular[j].Count {
			return sum.Popular[i].Count > sum.Popular[j].Count
		}
		return sum.Popular[i].Topping < sum.Popular[j].Topping
	})
	return sum
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := s.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var list []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Description, &o.Cost, &o.Customer, &o.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	_ = rows.Close()

	for i := range list {
		toppings, err := s.toppings(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Toppings = toppings
	}
	return list, nil
}

func (s *Store) toppings(ctx context.Context, orderID string) ([]string, error) {
	rows, err := s.db.SQL().QueryContext(ctx,
		`SELECT topping FROM order_toppings WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query toppings: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan topping: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// toppingNames lists the lower-cased topping names of c, innermost first.
func toppingNames(c coffee.Coffee) []string {
	toppings := coffee.Toppings(c)
	out := make([]string, 0, len(toppings))
	for _, t := range toppings {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			name = strings.ToLower(strings.TrimSpace(t.Label))
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
