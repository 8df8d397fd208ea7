package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/config"
	"github.com/marcus/brew/internal/db"
	"github.com/marcus/brew/internal/logging"
	"github.com/marcus/brew/internal/menu"
	"github.com/marcus/brew/internal/orders"
)

// isInteractive reports whether stdout is a terminal. Override in tests.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// loadConfig reads the file named by --config, or the default path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// initLogging sets up the global logger and the color profile.
func initLogging(cmd *cobra.Command, args []string) error {
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || os.Getenv("NO_COLOR") != "" || !isInteractive() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:         cfg.Logging.Level,
		Path:          cfg.ExpandedLogPath(),
		Format:        cfg.Logging.Format,
		RetentionDays: cfg.Logging.RetentionDays,
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Level = "debug"
		logCfg.Path = ""
		logCfg.Format = "text"
	}
	return logging.Init(logCfg)
}

// loadMenu builds the active menu: defaults, then the menu file, then config overrides.
func loadMenu(cfg *config.Config) (*menu.Menu, error) {
	m := menu.Default()

	if path := cfg.ExpandedMenuFile(); path != "" {
		fileMenu, err := menu.LoadFile(path)
		if err != nil {
			return nil, err
		}
		m = fileMenu
	}

	if len(cfg.Toppings) > 0 {
		merged, err := menu.Merge(m, cfg.Toppings)
		if err != nil {
			return nil, fmt.Errorf("config toppings: %w", err)
		}
		m = merged
	}
	return m, nil
}

// openStore opens the order ledger. Callers close the returned DB.
func openStore(cfg *config.Config) (*orders.Store, *db.DB, error) {
	database, err := db.Open(cfg.ExpandedDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening db: %w", err)
	}
	return orders.NewStore(database), database, nil
}
