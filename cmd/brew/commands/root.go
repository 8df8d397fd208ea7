// Package commands implements the brew CLI commands using cobra.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "brew",
	Short: "Coffee counter: build, price, and log coffee orders",
	Long: `Brew builds coffees from a Basic Coffee and a menu of toppings,
prices them, and keeps a ledger of every order.

Configure currency, toppings, and the nightly sales report in
~/.config/brew/config.yaml.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/brew/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}
