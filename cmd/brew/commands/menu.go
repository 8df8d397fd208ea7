package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/menu"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the base coffee and available toppings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, err := loadMenu(cfg)
		if err != nil {
			return err
		}

		st := newOutputStyles()
		out := cmd.OutOrStdout()
		symbol := cfg.CurrencySymbol()
		base := coffee.New()

		fmt.Fprintln(out, st.Title.Render("Menu"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, line(st, base.Description(), st.Price.Render(menu.FormatPrice(base.Cost(), symbol))))
		fmt.Fprintln(out)
		fmt.Fprintln(out, st.Title.Render("Toppings"))
		for _, t := range m.Toppings() {
			label := fmt.Sprintf("%-8s %s", t.Name, st.Label.Render(t.Label))
			fmt.Fprintln(out, line(st, label, "+"+menu.FormatPrice(t.Price, symbol)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
