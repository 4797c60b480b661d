// Package dues reconciles categorized transactions against per-unit dues
// obligations: expected shares, payments, multi-year carryover and payment
// guidance.
package dues

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/budget"
	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

// Reconciler computes per-unit dues positions from declared budgets and
// categorized transactions. All computations are pure reads of persisted
// data; nothing is cached, so a recategorized transaction changes the
// result on the next read.
type Reconciler struct {
	storage  service.Storage
	budgets  *budget.Calculator
	baseYear int
}

// NewReconciler creates a reconciler. baseYear is the first fiscal year
// with transaction records; carryover for earlier years comes only from
// seeded historical debt.
func NewReconciler(storage service.Storage, budgets *budget.Calculator, baseYear int) *Reconciler {
	return &Reconciler{
		storage:  storage,
		budgets:  budgets,
		baseYear: baseYear,
	}
}

// Position is a unit's dues reconciliation for one year, before carryover.
type Position struct {
	Unit        string
	Expected    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal // positive means still owed
}

// Reconcile computes a unit's expected share of the operating budget, its
// recorded payments, and the outstanding balance for a year.
func (r *Reconciler) Reconcile(ctx context.Context, unit model.UnitAccount, year int) (*Position, error) {
	if err := validateFraction(unit); err != nil {
		return nil, err
	}

	operating, err := r.budgets.OperatingBudget(ctx, year)
	if err != nil {
		return nil, err
	}

	expected := operating.Mul(unit.OwnershipFraction).Round(2)

	paid, err := r.paid(ctx, unit, year)
	if err != nil {
		return nil, err
	}

	return &Position{
		Unit:        unit.Number,
		Expected:    expected,
		Paid:        paid,
		Outstanding: expected.Sub(paid),
	}, nil
}

// ValidateUnits checks the static unit configuration: every ownership
// fraction must be positive and the fractions must sum to at most 1. Any
// violation is a fatal configuration error; computing dues from bad
// fractions would silently produce wrong receivables.
func ValidateUnits(units []model.UnitAccount) error {
	sum := decimal.Zero
	for _, unit := range units {
		if err := validateFraction(unit); err != nil {
			return err
		}
		sum = sum.Add(unit.OwnershipFraction)
	}
	if sum.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: ownership fractions sum to %s, must not exceed 1", common.ErrInvalidConfig, sum)
	}
	return nil
}

func validateFraction(unit model.UnitAccount) error {
	if unit.OwnershipFraction.IsZero() || unit.OwnershipFraction.IsNegative() {
		return fmt.Errorf("%w: unit %s has ownership fraction %s", common.ErrInvalidConfig, unit.Number, unit.OwnershipFraction)
	}
	return nil
}

// paid sums the credit amounts categorized to the unit's dues category for
// one year.
func (r *Reconciler) paid(ctx context.Context, unit model.UnitAccount, year int) (decimal.Decimal, error) {
	if unit.DuesCategory == "" {
		return decimal.Zero, fmt.Errorf("%w: unit %s has no dues category", common.ErrInvalidConfig, unit.Number)
	}
	paid, err := r.storage.SumCreditsByCategory(ctx, unit.DuesCategory, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for unit %s: %w", unit.Number, err)
	}
	return paid, nil
}
