package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/brew/internal/reporting"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the sales summary for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		save, _ := cmd.Flags().GetBool("save")

		day := time.Now()
		if dateStr != "" {
			parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", dateStr)
			}
			day = parsed
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store, database, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		sum, err := store.Summary(cmd.Context(), day)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, reporting.FormatSummary(sum, cfg.CurrencySymbol()))

		if save {
			path, err := reporting.SaveSummary(reporting.DefaultReportsDir(), sum, cfg.CurrencySymbol())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSaved to %s\n", path)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("date", "", "Day to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().Bool("save", false, "Also write the report to the reports directory")
	rootCmd.AddCommand(reportCmd)
}
