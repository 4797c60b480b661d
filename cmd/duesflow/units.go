package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/duesflow/duesflow/internal/cli"
	"github.com/duesflow/duesflow/internal/dues"
	"github.com/duesflow/duesflow/internal/model"
)

func unitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Manage owner units",
		Long:  `List and configure owner units, their ownership fractions and dues categories, and seed historical debt.`,
	}

	cmd.AddCommand(listUnitsCmd())
	cmd.AddCommand(setUnitCmd())
	cmd.AddCommand(setDebtCmd())

	return cmd
}

func listUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured units",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			units, err := store.GetUnits(ctx)
			if err != nil {
				return fmt.Errorf("failed to load units: %w", err)
			}

			if len(units) == 0 {
				fmt.Println(cli.FormatInfo("No units configured. Use 'duesflow units set' to add one."))
				return nil
			}

			if err := dues.ValidateUnits(units); err != nil {
				fmt.Println(cli.FormatWarning(err.Error()))
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Unit"),
				cli.HeaderStyle.Render("Fraction"),
				cli.HeaderStyle.Render("Dues category"))

			total := decimal.Zero
			for _, unit := range units {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					unit.Number, unit.OwnershipFraction.String(), unit.DuesCategory)
				total = total.Add(unit.OwnershipFraction)
			}
			fmt.Fprintf(w, "%s\t%s\t\n", cli.BoldStyle.Render("Total"), total.String())

			return nil
		},
	}
}

func setUnitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <number> <ownership-fraction> <dues-category>",
		Short: "Add or update a unit",
		Long: `Configure a unit's ownership fraction and the category its dues
payments are recorded under. Fractions across all units must not sum
to more than 1.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fraction, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid ownership fraction %q: %w", args[1], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategoryByName(ctx, args[2])
			if err != nil {
				return fmt.Errorf("failed to look up category: %w", err)
			}
			if cat == nil {
				return fmt.Errorf("category %q does not exist", args[2])
			}

			unit := &model.UnitAccount{
				Number:            args[0],
				OwnershipFraction: fraction,
				DuesCategory:      args[2],
			}
			if err := store.SaveUnit(ctx, unit); err != nil {
				return err
			}

			// Warn immediately if the new fraction breaks the sum invariant.
			units, err := store.GetUnits(ctx)
			if err == nil {
				if err := dues.ValidateUnits(units); err != nil {
					fmt.Println(cli.FormatWarning(err.Error()))
				}
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved unit %s (fraction %s, dues category %q)",
				unit.Number, fraction, unit.DuesCategory)))
			return nil
		},
	}
}

func setDebtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debt <unit> <year> <balance>",
		Short: "Seed historical debt for a unit",
		Long: `Record a balance a unit owed at the end of a year predating
transaction records. Carryover for years before the base year is read
from these entries instead of being computed.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q: %w", args[1], err)
			}
			balance, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", args[2], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.GetUnit(ctx, args[0]); err != nil {
				return err
			}

			entry := &model.HistoricalDebtEntry{
				Unit:    args[0],
				Year:    year,
				Balance: balance,
			}
			if err := store.SaveHistoricalDebt(ctx, entry); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s debt of %s for unit %s",
				args[1], cli.FormatUSD(balance), args[0])))
			return nil
		},
	}
}
