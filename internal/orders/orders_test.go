package orders

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "brew.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database)
}

func TestPlaceAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := coffee.WithShot(coffee.WithMilk(coffee.New()))
	placed, err := s.Place(ctx, c, " Ada ")
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if placed.ID == "" {
		t.Fatal("expected order ID")
	}
	if placed.Cost != 4000 || placed.Description != "Basic Coffee, Milk, Extra Shot" {
		t.Errorf("placed = %+v", placed)
	}

	got, err := s.Get(ctx, placed.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Cost != 4000 || got.Customer != "Ada" {
		t.Errorf("got = %+v", got)
	}
	if len(got.Toppings) != 2 || got.Toppings[0] != "milk" || got.Toppings[1] != "shot" {
		t.Errorf("toppings = %v, want [milk shot]", got.Toppings)
	}
	if !got.CreatedAt.Equal(placed.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, placed.CreatedAt)
	}
}

func TestPlaceTakesToppingsFromChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := coffee.WithSyrup(coffee.Wrap(coffee.WithMilk(coffee.New()), coffee.Topping{Label: "Ice"}))
	placed, err := s.Place(ctx, c, "")
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	want := []string{"milk", "ice", "syrup"}
	if strings.Join(placed.Toppings, ",") != strings.Join(want, ",") {
		t.Errorf("placed toppings = %v, want %v", placed.Toppings, want)
	}

	got, err := s.Get(ctx, placed.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if strings.Join(got.Toppings, ",") != strings.Join(want, ",") {
		t.Errorf("stored toppings = %v, want %v", got.Toppings, want)
	}
	if got.Cost != c.Cost() || got.Description != c.Description() {
		t.Errorf("stored %q/%d, want %q/%d", got.Description, got.Cost, c.Description(), c.Cost())
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPlaceNil(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Place(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for nil coffee")
	}
}

func TestRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		if _, err := s.Place(ctx, coffee.New(), ""); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(list))
	}
	if !list[0].CreatedAt.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("newest first: got %v", list[0].CreatedAt)
	}

	if list, _ := s.Recent(ctx, 0); list != nil {
		t.Errorf("Recent(0) = %v, want nil", list)
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	place := func(at time.Time, names ...string) {
		t.Helper()
		c := coffee.New()
		for _, n := range names {
			switch n {
			case "milk":
				c = coffee.WithMilk(c)
			case "syrup":
				c = coffee.WithSyrup(c)
			}
		}
		s.now = func() time.Time { return at }
		if _, err := s.Place(ctx, c, "Lin"); err != nil {
			t.Fatal(err)
		}
	}

	place(day.Add(8*time.Hour), "milk")
	place(day.Add(9*time.Hour), "milk", "syrup")
	place(day.Add(23 * time.Hour))
	place(day.Add(25*time.Hour), "syrup") // next day

	sum, err := s.Summary(ctx, day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Orders != 3 {
		t.Errorf("orders = %d, want 3", sum.Orders)
	}
	if sum.Revenue != 3500+3800+3000 {
		t.Errorf("revenue = %d, want %d", sum.Revenue, 3500+3800+3000)
	}
	if sum.Average != (3500+3800+3000)/3 {
		t.Errorf("average = %d", sum.Average)
	}
	if len(sum.Popular) != 2 || sum.Popular[0] != (ToppingCount{"milk", 2}) || sum.Popular[1] != (ToppingCount{"syrup", 1}) {
		t.Errorf("popular = %v", sum.Popular)
	}
	if sum.Customer["Lin"] != 3 {
		t.Errorf("customer counts = %v", sum.Customer)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(time.Now(), nil)
	if sum.Orders != 0 || sum.Revenue != 0 || sum.Average != 0 || len(sum.Popular) != 0 {
		t.Errorf("empty summary = %+v", sum)
	}
}
