package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List and add the categories transactions are classified into.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.FormatInfo("No categories found. Use 'duesflow categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Kind"),
				cli.HeaderStyle.Render("Timing"),
				cli.HeaderStyle.Render("Reserve"),
				cli.HeaderStyle.Render("Active"))

			for _, cat := range categories {
				reserve := ""
				if cat.IsReserve {
					reserve = "yes"
				}
				active := "yes"
				if !cat.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Name, cat.Kind, cat.Timing, reserve, active)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		kind      string
		timing    string
		isReserve bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a category. Kind is one of income, expense, transfer or
internal; only income and expense categories participate in budgets,
and reserve-fund expense categories are excluded from the operating
budget that dues are computed from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.GetCategoryByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to check existing category: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("category %q already exists", name)
			}

			category := &model.Category{
				Name:      name,
				Kind:      model.CategoryKind(kind),
				Timing:    model.Timing(timing),
				IsReserve: isReserve,
				IsActive:  true,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "expense", "Category kind (income, expense, transfer, internal)")
	cmd.Flags().StringVar(&timing, "timing", "monthly", "Budget timing (monthly, quarterly, annual)")
	cmd.Flags().BoolVar(&isReserve, "reserve", false, "Mark as a reserve-fund category")

	return cmd
}
