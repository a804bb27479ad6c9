package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"tally/internal/cli"
	"tally/internal/storage"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-import expenses from a CSV file",
		Long: `Import expenses from a CSV file with rows of the form:

  date,amount,category,description

where date is YYYY-MM-DD and category is matched by name. Rows that fail
validation are logged and skipped; the rest are imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			records, err := csv.NewReader(f).ReadAll()
			if err != nil {
				return fmt.Errorf("failed to read CSV: %w", err)
			}
			if len(records) == 0 {
				fmt.Println(cli.InfoStyle.Render("Nothing to import."))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(len(records),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing expenses..."),
			)

			var imported, skipped int
			for i, record := range records {
				if err := importRecord(cmd, store, record); err != nil {
					slog.Warn("skipping row", "row", i+1, "error", err)
					skipped++
				} else {
					imported++
				}
				_ = bar.Add(1)
			}
			fmt.Fprintln(os.Stderr)

			msg := fmt.Sprintf("Imported %d expenses", imported)
			if skipped > 0 {
				msg += fmt.Sprintf(" (%d rows skipped)", skipped)
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}
}

func importRecord(cmd *cobra.Command, store *storage.SQLiteStorage, record []string) error {
	if len(record) < 3 {
		return fmt.Errorf("expected at least 3 fields, got %d", len(record))
	}

	date, err := parseDate(record[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", record[1])
	}

	ctx := cmd.Context()
	cat, err := store.GetCategoryByName(ctx, record[2])
	if err != nil {
		return err
	}

	description := ""
	if len(record) > 3 {
		description = record[3]
	}

	_, err = store.CreateExpense(ctx, amount, cat.ID, description, date)
	return err
}
