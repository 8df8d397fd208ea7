package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/config"
	"github.com/marcus/brew/internal/logging"
	"github.com/marcus/brew/internal/menu"
	"github.com/marcus/brew/internal/orders"
	"github.com/marcus/brew/internal/reporting"
	"github.com/marcus/brew/internal/scheduler"
)

const reportJob = "daily-report"

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Write the nightly sales report and track menu changes",
	Long: `Run in the foreground until interrupted.

The daemon writes the day's sales report on the report.cron schedule
(default 22:00) and, when menu_file is set, reloads the menu whenever
the file changes and logs every price change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, err := loadMenu(cfg)
		if err != nil {
			return err
		}
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d := newDaemon(cfg, m, store, reporting.DefaultReportsDir())
		return d.run(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

type daemon struct {
	cfg        *config.Config
	menu       atomic.Pointer[menu.Menu]
	store      *orders.Store
	reportsDir string
	log        *logging.Logger
}

func newDaemon(cfg *config.Config, m *menu.Menu, store *orders.Store, reportsDir string) *daemon {
	d := &daemon{
		cfg:        cfg,
		store:      store,
		reportsDir: reportsDir,
		log:        logging.Component("daemon"),
	}
	d.menu.Store(m)
	return d
}

func (d *daemon) run(ctx context.Context, cmd *cobra.Command) error {
	sched := scheduler.New(time.Local)
	if d.cfg.Report.Cron == "" {
		d.log.Warn("report.cron is empty, nightly report disabled")
		fmt.Fprintln(cmd.OutOrStdout(), "Nightly report disabled (report.cron is empty)")
	} else if err := sched.AddCron(reportJob, d.cfg.Report.Cron, d.writeReport); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if next, ok := sched.Next(reportJob); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Next report at %s\n", next.Format("2006-01-02 15:04"))
	}

	path := d.cfg.ExpandedMenuFile()
	if path == "" {
		<-ctx.Done()
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", path)
	if err := menu.Watch(ctx, path, d.swapMenu); err != nil {
		return fmt.Errorf("watching menu: %w", err)
	}
	return nil
}

func (d *daemon) writeReport(ctx context.Context) error {
	sum, err := d.store.Summary(ctx, time.Now())
	if err != nil {
		return err
	}
	path, err := reporting.SaveSummary(d.reportsDir, sum, d.cfg.CurrencySymbol())
	if err != nil {
		return err
	}
	d.log.InfoCtx("report saved", map[string]any{"path": path, "orders": sum.Orders, "revenue": sum.Revenue})
	return nil
}

// swapMenu installs next, applying config overrides the same way startup does.
func (d *daemon) swapMenu(next *menu.Menu) {
	if len(d.cfg.Toppings) > 0 {
		merged, err := menu.Merge(next, d.cfg.Toppings)
		if err != nil {
			d.log.Err(err).Msg("menu overrides rejected")
			return
		}
		next = merged
	}
	prev := d.menu.Swap(next)
	for _, change := range diffMenus(prev, next, d.cfg.CurrencySymbol()) {
		d.log.Info(change)
	}
}

// diffMenus describes added, removed, and repriced toppings.
func diffMenus(prev, next *menu.Menu, symbol string) []string {
	var changes []string
	for _, t := range next.Toppings() {
		old, ok := prev.Lookup(t.Name)
		switch {
		case !ok:
			changes = append(changes, fmt.Sprintf("added %s at %s", t.Name, menu.FormatPrice(t.Price, symbol)))
		case old.Price != t.Price:
			changes = append(changes, fmt.Sprintf("repriced %s: %s -> %s",
				t.Name, menu.FormatPrice(old.Price, symbol), menu.FormatPrice(t.Price, symbol)))
		}
	}
	for _, t := range prev.Toppings() {
		if _, ok := next.Lookup(t.Name); !ok {
			changes = append(changes, fmt.Sprintf("removed %s", t.Name))
		}
	}
	return changes
}
