package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/dues"
)

func duesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dues",
		Short: "Reconcile owner dues",
		Long: `Compute each unit's share of the operating budget, payments received,
and outstanding balances including carryover from prior years.`,
	}

	cmd.AddCommand(duesStatusCmd())
	cmd.AddCommand(duesStatementCmd())

	return cmd
}

func duesStatusCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every unit's dues position for a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			year := resolveYear(year)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			report, err := newReconciler(store).Status(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to compute dues status: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Dues status %d", year)))
			fmt.Printf("Operating budget: %s\n\n", cli.FormatUSD(report.OperatingBudget))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Unit"),
				cli.HeaderStyle.Render("Share"),
				cli.HeaderStyle.Render("Carryover"),
				cli.HeaderStyle.Render("Annual"),
				cli.HeaderStyle.Render("Expected"),
				cli.HeaderStyle.Render("Paid"),
				cli.HeaderStyle.Render("Outstanding"))

			for _, unit := range report.Units {
				outstanding := cli.FormatUSD(unit.Outstanding)
				if unit.Outstanding.IsPositive() {
					outstanding = cli.WarningStyle.Render(outstanding)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					unit.Unit,
					unit.OwnershipFraction.String(),
					cli.FormatUSD(unit.Carryover),
					cli.FormatUSD(unit.AnnualShare),
					cli.FormatUSD(unit.ExpectedTotal),
					cli.FormatUSD(unit.PaidYTD),
					outstanding)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Fiscal year (default: current year)")

	return cmd
}

func duesStatementCmd() *cobra.Command {
	var (
		year     int
		asOfFlag string
	)

	cmd := &cobra.Command{
		Use:   "statement <unit>",
		Short: "Show one unit's statement and payment guidance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			stmt, err := newReconciler(store).Statement(ctx, args[0], year, asOf)
			if err != nil {
				return fmt.Errorf("failed to build statement: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Unit %s statement for %d", stmt.Unit, stmt.Year)))

			carryover := cli.FormatUSD(stmt.Carryover)
			if !stmt.CarryoverKnown {
				carryover = cli.SubtleStyle.Render("unknown (no prior-year budget)")
			}

			fmt.Printf("Ownership fraction:  %s\n", stmt.OwnershipFraction.String())
			fmt.Printf("Carryover:           %s\n", carryover)
			fmt.Printf("Annual dues:         %s\n", cli.FormatUSD(stmt.AnnualDues))
			fmt.Printf("Total due:           %s\n", cli.FormatUSD(stmt.TotalDue))
			fmt.Printf("Paid to date:        %s\n", cli.FormatUSD(stmt.PaidYTD))
			fmt.Printf("Remaining:           %s\n", cli.FormatUSD(stmt.Remaining))
			fmt.Printf("Standard monthly:    %s\n\n", cli.FormatUSD(stmt.StandardMonthly))

			switch stmt.Guidance {
			case dues.GuidancePaidInFull:
				fmt.Println(cli.FormatSuccess("Paid in full for the year"))
			case dues.GuidanceCreditBalance:
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Credit balance of %s",
					cli.FormatUSD(stmt.Remaining.Neg()))))
			case dues.GuidanceDueImmediately:
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%s due immediately; the year is ending",
					cli.FormatUSD(stmt.Remaining))))
			case dues.GuidanceMonthly:
				fmt.Printf("Pay %s per month for the remaining %d months to settle by year end\n",
					cli.BoldStyle.Render(cli.FormatUSD(stmt.SuggestedMonthly)),
					stmt.MonthsRemaining)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Fiscal year (default: current year)")
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "As-of date (2006-01-02, default: today)")

	return cmd
}
