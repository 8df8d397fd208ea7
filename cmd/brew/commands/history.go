package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetInt("last")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		list, err := store.Recent(cmd.Context(), last)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No orders yet.")
			return nil
		}
		for _, o := range list {
			printOrderRow(out, o, cfg.CurrencySymbol())
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("last", "n", 10, "Show last N orders")
	rootCmd.AddCommand(historyCmd)
}
