package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/ui"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Build and record a coffee order",
	Long: `Build a coffee from a Basic Coffee and the given toppings, print a
receipt, and record the order.

Toppings are applied in the order given and may repeat:

  brew order --with milk --with shot --with shot

Use --interactive to pick toppings in a terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		toppings, _ := cmd.Flags().GetStringSlice("with")
		customer, _ := cmd.Flags().GetString("customer")
		interactive, _ := cmd.Flags().GetBool("interactive")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, err := loadMenu(cfg)
		if err != nil {
			return err
		}

		if interactive {
			if !isInteractive() {
				return fmt.Errorf("--interactive needs a terminal")
			}
			sel, ok, err := runOrderUI(m, cfg.CurrencySymbol())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Order cancelled.")
				return nil
			}
			toppings = sel.Toppings
			if customer == "" {
				customer = sel.Customer
			}
		}

		c, err := m.Build(toppings)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderReceipt(out, c, cfg.CurrencySymbol())

		if dryRun {
			fmt.Fprintln(out, newOutputStyles().Muted.Render("dry run: order not recorded"))
			return nil
		}

		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		o, err := store.Place(cmd.Context(), c, customer)
		if err != nil {
			return fmt.Errorf("recording order: %w", err)
		}
		fmt.Fprintf(out, "%s %s\n", newOutputStyles().Success.Render("Order recorded"), o.ID)
		return nil
	},
}

// runOrderUI is swapped out in tests.
var runOrderUI = ui.Run

func init() {
	orderCmd.Flags().StringSliceP("with", "w", nil, "Topping to add (repeatable, comma-separated)")
	orderCmd.Flags().StringP("customer", "c", "", "Customer name")
	orderCmd.Flags().BoolP("interactive", "i", false, "Pick toppings in a terminal UI")
	orderCmd.Flags().Bool("dry-run", false, "Print the receipt without recording the order")
	rootCmd.AddCommand(orderCmd)
}
