package main

import (
	"fmt"
	"time"

	"tally/internal/cli"
	"tally/internal/report"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spending reports",
		Long:  `Generate spending summaries and monthly reports, or export them to a text file.`,
	}

	cmd.AddCommand(summaryReportCmd())
	cmd.AddCommand(monthlyReportCmd())
	cmd.AddCommand(exportReportCmd())

	return cmd
}

func summaryReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "All-time spending summary by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine := report.NewEngine(store)
			summary, err := engine.CategorySummary(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Spending summary"))
			fmt.Print(summary.Render())
			return nil
		},
	}
}

func monthlyReportCmd() *cobra.Command {
	now := time.Now()
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Spending report for one calendar month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine := report.NewEngine(store)
			monthly, err := engine.MonthlyReport(ctx, year, month)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Monthly report"))
			fmt.Print(monthly.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", now.Year(), "year to report on")
	cmd.Flags().IntVarP(&month, "month", "m", int(now.Month()), "month to report on (1-12)")

	return cmd
}

func exportReportCmd() *cobra.Command {
	now := time.Now()
	var (
		out     string
		monthly bool
		year    int
		month   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report to a text file",
		Long: `Render the spending summary (or, with --monthly, a monthly report) to
plain text and write it to --out, overwriting any existing file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine := report.NewEngine(store)

			var r report.Report
			if monthly {
				r, err = engine.MonthlyReport(ctx, year, month)
			} else {
				r, err = engine.CategorySummary(ctx)
			}
			if err != nil {
				return err
			}

			if err := engine.Export(ctx, r, out); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Report written to %s", out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "expense_report.txt", "destination file")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "export a monthly report instead of the summary")
	cmd.Flags().IntVarP(&year, "year", "y", now.Year(), "year for --monthly")
	cmd.Flags().IntVarP(&month, "month", "m", int(now.Month()), "month for --monthly (1-12)")

	return cmd
}
