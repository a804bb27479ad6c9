package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"tally/internal/cli"
	"tally/internal/model"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, update, and delete the categories expenses are recorded against.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display all categories with their budget limits and total spending.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := store.CategorySummary(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(summary) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Budget"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Used"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 8))

			for i := range summary {
				row := &summary[i]
				used := cli.SubtleStyle.Render("no limit")
				if pct, ok := row.PercentUsed(); ok {
					used = fmt.Sprintf("%.1f%%", pct)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\n",
					row.CategoryID, row.Name, formatBudget(row.BudgetLimit), row.TotalSpent, used)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var budgetLimit float64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long:  `Create a new expense category. A budget limit of 0 means no limit.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.CreateCategory(ctx, args[0], budgetLimit)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (id %d, budget %s)",
				cat.Name, cat.ID, formatBudget(cat.BudgetLimit))))
			return nil
		},
	}

	cmd.Flags().Float64Var(&budgetLimit, "budget", 0, "monthly budget limit (0 = no limit)")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		newName     string
		budgetLimit float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Long:  `Change a category's name or budget limit. Only supplied flags change anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			var upd model.CategoryUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &newName
			}
			if cmd.Flags().Changed("budget") {
				upd.BudgetLimit = &budgetLimit
			}
			if upd.Name == nil && upd.BudgetLimit == nil {
				return fmt.Errorf("nothing to update: pass --name and/or --budget")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.UpdateCategory(ctx, id, upd)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %d: %s (budget %s)",
				cat.ID, cat.Name, formatBudget(cat.BudgetLimit))))
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new category name")
	cmd.Flags().Float64Var(&budgetLimit, "budget", 0, "new budget limit (0 = no limit)")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and all its expenses",
		Long: `Delete a category. Every expense recorded against it is removed in the
same transaction; there is no partial delete. This cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !force {
				usage, err := store.CategoryUsage(ctx, id)
				if err != nil {
					return err
				}
				if usage.ExpenseCount > 0 {
					fmt.Println(cli.FormatWarning(fmt.Sprintf(
						"Category %q has %d expenses totalling $%.2f; they will be deleted too. Re-run with --force.",
						usage.Name, usage.ExpenseCount, usage.TotalSpent)))
					return nil
				}
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete even when the category has expenses")

	return cmd
}
