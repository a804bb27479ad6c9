package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"tally/internal/cli"
	"tally/internal/model"
	"tally/internal/storage"

	"github.com/spf13/cobra"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Record and manage expenses",
		Long:  `Add, list, update, delete, and search expenses.`,
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())
	cmd.AddCommand(searchExpensesCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		categoryID  int64
		category    string
		description string
		dateText    string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new expense",
		Long: `Record an expense against a category. The category may be given by id
or by name; the date defaults to today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			var date time.Time
			if dateText != "" {
				if date, err = parseDate(dateText); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if categoryID == 0 {
				if category == "" {
					return fmt.Errorf("a category is required: pass --category-id or --category")
				}
				cat, err := store.GetCategoryByName(ctx, category)
				if err != nil {
					return err
				}
				categoryID = cat.ID
			}

			exp, err := store.CreateExpense(ctx, amount, categoryID, description, date)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded $%.2f against %s on %s (id %d)",
				exp.Amount, exp.CategoryName, exp.Date.Format(model.DateLayout), exp.ID)))

			warnBudget(cmd, store, exp.CategoryID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "category id")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "what the money went to")
	cmd.Flags().StringVar(&dateText, "date", "", "expense date (YYYY-MM-DD, default today)")

	return cmd
}

// warnBudget prints a warning when the category's spending is over, or
// within 90% of, its budget limit. Best effort; a failed lookup never fails
// the add.
func warnBudget(cmd *cobra.Command, store *storage.SQLiteStorage, categoryID int64) {
	usage, err := store.CategoryUsage(cmd.Context(), categoryID)
	if err != nil {
		return
	}
	pct, ok := usage.PercentUsed()
	if !ok {
		return
	}
	switch {
	case pct > 100:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s: spent $%.2f of $%.2f",
			usage.Name, usage.TotalSpent, usage.BudgetLimit)))
	case pct > 90:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Approaching budget for %s: %.1f%% used",
			usage.Name, pct)))
	}
}

func listExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		Long:  `Display all expenses, newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expenses, err := store.ListExpenses(ctx)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			renderExpenses(expenses)
			return nil
		},
	}
}

func updateExpenseCmd() *cobra.Command {
	var (
		amount      float64
		categoryID  int64
		description string
		dateText    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an expense",
		Long:  `Change an expense's amount, category, description, or date. Only supplied flags change anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			var upd model.ExpenseUpdate
			if cmd.Flags().Changed("amount") {
				upd.Amount = &amount
			}
			if cmd.Flags().Changed("category-id") {
				upd.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}
			if cmd.Flags().Changed("date") {
				date, err := parseDate(dateText)
				if err != nil {
					return err
				}
				upd.Date = &date
			}
			if upd.Amount == nil && upd.CategoryID == nil && upd.Description == nil && upd.Date == nil {
				return fmt.Errorf("nothing to update: pass at least one of --amount, --category-id, --description, --date")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			exp, err := store.UpdateExpense(ctx, id, upd)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated expense %d: $%.2f %s on %s",
				exp.ID, exp.Amount, exp.CategoryName, exp.Date.Format(model.DateLayout))))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "new amount")
	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "new category id")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&dateText, "date", "", "new date (YYYY-MM-DD)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteExpense(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted expense %d", id)))
			return nil
		},
	}
}

func searchExpensesCmd() *cobra.Command {
	var (
		categoryID int64
		category   string
		fromText   string
		toText     string
		keyword    string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search expenses",
		Long: `Search expenses by category, date range, or description keyword.
Filters combine with AND; results come back newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var filter model.ExpenseFilter
			if cmd.Flags().Changed("category-id") {
				filter.CategoryID = &categoryID
			}
			filter.CategoryName = category
			filter.Keyword = keyword
			if fromText != "" {
				from, err := parseDate(fromText)
				if err != nil {
					return err
				}
				filter.Start = &from
			}
			if toText != "" {
				to, err := parseDate(toText)
				if err != nil {
					return err
				}
				filter.End = &to
			}
			if filter.IsZero() {
				return fmt.Errorf("no filter given: pass --category-id, --category, --from/--to, or --keyword")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expenses, err := store.SearchExpenses(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to search expenses: %w", err)
			}

			renderExpenses(expenses)
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "filter by category id")
	cmd.Flags().StringVar(&category, "category", "", "filter by category name (case-insensitive)")
	cmd.Flags().StringVar(&fromText, "from", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toText, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&keyword, "keyword", "", "description keyword (case-insensitive)")

	return cmd
}

func renderExpenses(expenses []model.Expense) {
	if len(expenses) == 0 {
		fmt.Println(cli.InfoStyle.Render("No expenses found."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Description"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 10),
		strings.Repeat("-", 15),
		strings.Repeat("-", 10),
		strings.Repeat("-", 30))

	var total float64
	for i := range expenses {
		exp := &expenses[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\n",
			exp.ID, exp.Date.Format(model.DateLayout), exp.CategoryName, exp.Amount, exp.Description)
		total += exp.Amount
	}

	fmt.Fprintf(w, "\t\t\t$%.2f\t(%d expenses)\n", total, len(expenses))
}
