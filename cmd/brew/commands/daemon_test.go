package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/config"
	"github.com/marcus/brew/internal/db"
	"github.com/marcus/brew/internal/menu"
	"github.com/marcus/brew/internal/orders"
)

func TestDiffMenus(t *testing.T) {
	prev := menu.Default()
	next, err := menu.New([]coffee.Topping{
		{Name: "milk", Label: "Milk", Price: 600},
		{Name: "shot", Label: "Extra Shot", Price: 500},
		{Name: "honey", Label: "Honey", Price: 400},
	})
	if err != nil {
		t.Fatal(err)
	}

	changes := diffMenus(prev, next, "₩")
	want := []string{
		"added honey at ₩400",
		"repriced milk: ₩500 -> ₩600",
		"removed syrup",
		"removed whip",
	}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %q, want %q", i, changes[i], want[i])
		}
	}

	if got := diffMenus(prev, menu.Default(), "₩"); len(got) != 0 {
		t.Errorf("identical menus produced changes: %v", got)
	}
}

func TestDaemonWriteReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	database, err := db.Open(filepath.Join(t.TempDir(), "brew.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = database.Close() }()

	store := orders.NewStore(database)
	if _, err := store.Place(context.Background(), coffee.WithMilk(coffee.New()), ""); err != nil {
		t.Fatal(err)
	}

	reportsDir := filepath.Join(t.TempDir(), "reports")
	d := newDaemon(&config.Config{Currency: "$"}, menu.Default(), store, reportsDir)
	if err := d.writeReport(context.Background()); err != nil {
		t.Fatalf("writeReport: %v", err)
	}

	entries, err := os.ReadDir(reportsDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one report, got %v (%v)", entries, err)
	}
	data, _ := os.ReadFile(filepath.Join(reportsDir, entries[0].Name()))
	if !strings.Contains(string(data), "$3,500") {
		t.Errorf("report = %s", data)
	}
}

func TestDaemonSwapMenuAppliesOverrides(t *testing.T) {
	cfg := &config.Config{Toppings: []coffee.Topping{{Name: "milk", Label: "Oat Milk", Price: 800}}}
	d := newDaemon(cfg, menu.Default(), nil, "")

	next, err := menu.New([]coffee.Topping{{Name: "milk", Label: "Milk", Price: 550}, {Name: "ice", Price: 0}})
	if err != nil {
		t.Fatal(err)
	}
	d.swapMenu(next)

	current := d.menu.Load()
	milk, ok := current.Lookup("milk")
	if !ok || milk.Price != 800 {
		t.Errorf("milk = %+v, want override price 800", milk)
	}
	if _, ok := current.Lookup("ice"); !ok {
		t.Error("expected ice from reloaded menu")
	}
}

func TestDaemonRunWithEmptyCron(t *testing.T) {
	cfg := &config.Config{Report: config.ReportConfig{Cron: ""}}
	d := newDaemon(cfg, menu.Default(), nil, "")

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.run(ctx, cmd); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "Nightly report disabled") {
		t.Errorf("output = %q", buf.String())
	}
	if strings.Contains(buf.String(), "Next report") {
		t.Errorf("no report should be scheduled: %q", buf.String())
	}
}
