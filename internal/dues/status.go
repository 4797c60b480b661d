package dues

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/common"
)

// UnitStatus is one row of the all-units dues table for a year.
type UnitStatus struct {
	Unit              string
	OwnershipFraction decimal.Decimal
	Carryover         decimal.Decimal
	AnnualShare       decimal.Decimal
	ExpectedTotal     decimal.Decimal
	PaidYTD           decimal.Decimal
	Outstanding       decimal.Decimal
}

// StatusReport covers every unit's dues position for a year.
type StatusReport struct {
	Units           []UnitStatus
	OperatingBudget decimal.Decimal
	TotalExpected   decimal.Decimal
	Year            int
}

// Status computes the dues position of every unit for a year, including
// cumulative carryover from prior years.
func (r *Reconciler) Status(ctx context.Context, year int) (*StatusReport, error) {
	units, err := r.storage.GetUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	if err := ValidateUnits(units); err != nil {
		return nil, err
	}

	operating, err := r.budgets.OperatingBudget(ctx, year)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Year:            year,
		OperatingBudget: operating,
	}

	for _, unit := range units {
		carryover, err := r.CumulativeCarryover(ctx, unit, year)
		if err != nil && !errors.Is(err, common.ErrNoPriorData) {
			return nil, err
		}

		position, err := r.Reconcile(ctx, unit, year)
		if err != nil {
			return nil, err
		}

		expectedTotal := carryover.Add(position.Expected)

		report.Units = append(report.Units, UnitStatus{
			Unit:              unit.Number,
			OwnershipFraction: unit.OwnershipFraction,
			Carryover:         carryover,
			AnnualShare:       position.Expected,
			ExpectedTotal:     expectedTotal,
			PaidYTD:           position.Paid,
			Outstanding:       expectedTotal.Sub(position.Paid),
		})
		report.TotalExpected = report.TotalExpected.Add(expectedTotal)
	}

	return report, nil
}
