package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/budget"
	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the annual budget",
		Long:  `Set budget amounts and view year-to-date budget versus actuals.`,
	}

	cmd.AddCommand(budgetSummaryCmd())
	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(balancesCmd())

	return cmd
}

func budgetSummaryCmd() *cobra.Command {
	var (
		year     int
		asOfFlag string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show budget vs. actuals for a year",
		Long: `Display each budgeted category's year-to-date budget, actual amount
and remaining balance. Year-to-date budgets are prorated by the
category's timing: monthly and quarterly lines accrue through the
as-of date, annual lines count in full from January.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			asOf, err := resolveAsOf(asOfFlag)
			if err != nil {
				return err
			}
			year := resolveYear(year)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := budget.NewCalculator(store).Summary(ctx, year, asOf)
			if err != nil {
				return fmt.Errorf("failed to build budget summary: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Budget summary %d (as of %s)", year, asOf.Format("2006-01-02"))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			printSection(w, "Income", summary.Income)
			printSection(w, "Expenses", summary.Expense)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Budget year (default: current year)")
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "As-of date (2006-01-02, default: today)")

	return cmd
}

func printSection(w *tabwriter.Writer, title string, section budget.Section) {
	if len(section.Categories) == 0 {
		return
	}

	fmt.Fprintf(w, "%s\t\t\t\t\n", cli.BoldStyle.Render(title))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Annual"),
		cli.HeaderStyle.Render("YTD Budget"),
		cli.HeaderStyle.Render("YTD Actual"),
		cli.HeaderStyle.Render("Remaining"))

	for _, line := range section.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			line.Category,
			cli.FormatUSD(line.AnnualAmount),
			cli.FormatUSD(line.YTDBudget),
			cli.FormatUSD(line.YTDActual),
			cli.FormatUSD(line.Remaining))
	}

	fmt.Fprintf(w, "%s\t\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Total"),
		cli.FormatUSD(section.YTDBudget),
		cli.FormatUSD(section.YTDActual),
		cli.FormatUSD(section.Remaining))
	fmt.Fprintf(w, "\t\t\t\t\n")
}

func budgetSetCmd() *cobra.Command {
	var (
		year   int
		timing string
	)

	cmd := &cobra.Command{
		Use:   "set <category> <annual-amount>",
		Short: "Set a category's annual budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			category := args[0]

			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry := &model.BudgetEntry{
				Year:           resolveYear(year),
				Category:       category,
				AnnualAmount:   amount,
				TimingOverride: model.Timing(timing),
			}
			if err := store.SaveBudget(ctx, entry); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Set %d budget for %q to %s",
				entry.Year, category, cli.FormatUSD(amount))))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Budget year (default: current year)")
	cmd.Flags().StringVar(&timing, "timing", "", "Override the category's timing for this entry")

	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the latest balance per account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			balances, err := store.GetAccountBalances(ctx)
			if err != nil {
				return fmt.Errorf("failed to load balances: %w", err)
			}

			if len(balances) == 0 {
				fmt.Println(cli.FormatInfo("No transactions imported yet"))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Account"),
				cli.HeaderStyle.Render("Balance"),
				cli.HeaderStyle.Render("As of"))

			for _, balance := range balances {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					balance.Account,
					cli.FormatUSD(balance.Balance),
					balance.AsOf.Format("2006-01-02"))
			}

			return nil
		},
	}
}
