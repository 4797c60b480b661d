package dues

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
)

// Carryover computes the balance a unit carries into the given year from
// the prior year: the prior operating budget share, plus any seeded
// historical debt for the prior year, minus payments recorded in the prior
// year. Positive means the unit still owes; negative is a credit.
//
// The value is always computed on demand from transaction and budget data,
// never stored, so a later recategorization is reflected on the next read.
// When no budget exists for the prior year the result is
// common.ErrNoPriorData, which callers must report as "no data available"
// rather than zero.
func (r *Reconciler) Carryover(ctx context.Context, unit model.UnitAccount, year int) (decimal.Decimal, error) {
	if err := validateFraction(unit); err != nil {
		return decimal.Zero, err
	}

	// At or before the base year there is no prior ledger; carryover is
	// whatever historical debt was seeded for the year itself.
	if year <= r.baseYear {
		debt, err := r.storage.GetHistoricalDebt(ctx, unit.Number, year)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load historical debt for unit %s: %w", unit.Number, err)
		}
		return debt, nil
	}

	prior := year - 1

	operating, err := r.budgets.OperatingBudget(ctx, prior)
	if err != nil {
		return decimal.Zero, err
	}
	if operating.IsZero() {
		return decimal.Zero, fmt.Errorf("carryover for unit %s into %d: %w", unit.Number, year, common.ErrNoPriorData)
	}

	share := operating.Mul(unit.OwnershipFraction).Round(2)

	debt, err := r.storage.GetHistoricalDebt(ctx, unit.Number, prior)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load historical debt for unit %s: %w", unit.Number, err)
	}

	paid, err := r.paid(ctx, unit, prior)
	if err != nil {
		return decimal.Zero, err
	}

	return share.Add(debt).Sub(paid), nil
}

// CumulativeCarryover accumulates carryover year over year from the base
// year through the year before the given one, so multi-year statements
// reflect every unpaid (or overpaid) season, not just the last.
func (r *Reconciler) CumulativeCarryover(ctx context.Context, unit model.UnitAccount, year int) (decimal.Decimal, error) {
	if err := validateFraction(unit); err != nil {
		return decimal.Zero, err
	}

	if year <= r.baseYear {
		debt, err := r.storage.GetHistoricalDebt(ctx, unit.Number, year)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load historical debt for unit %s: %w", unit.Number, err)
		}
		return debt, nil
	}

	carryover := decimal.Zero
	for y := r.baseYear; y < year; y++ {
		debt, err := r.storage.GetHistoricalDebt(ctx, unit.Number, y)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load historical debt for unit %s: %w", unit.Number, err)
		}

		operating, err := r.budgets.OperatingBudget(ctx, y)
		if err != nil {
			return decimal.Zero, err
		}
		share := operating.Mul(unit.OwnershipFraction).Round(2)

		paid, err := r.paid(ctx, unit, y)
		if err != nil {
			return decimal.Zero, err
		}

		carryover = carryover.Add(debt).Add(share).Sub(paid)
	}

	return carryover, nil
}
