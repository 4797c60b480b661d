package dues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/common"
)

// Guidance tells a unit owner what to pay next.
type Guidance string

const (
	// GuidancePaidInFull means the balance is exactly settled.
	GuidancePaidInFull Guidance = "PAID_IN_FULL"
	// GuidanceCreditBalance means the unit has overpaid.
	GuidanceCreditBalance Guidance = "CREDIT_BALANCE"
	// GuidanceDueImmediately means the full remaining amount is due by
	// year end; there is no time left to spread it monthly.
	GuidanceDueImmediately Guidance = "DUE_IMMEDIATELY"
	// GuidanceMonthly means the remaining balance is spread over the
	// months left in the year.
	GuidanceMonthly Guidance = "MONTHLY"
)

// Statement is a unit's payment-guidance view for one year.
type Statement struct {
	Unit              string
	Guidance          Guidance
	OwnershipFraction decimal.Decimal
	Carryover         decimal.Decimal
	AnnualDues        decimal.Decimal
	TotalDue          decimal.Decimal
	PaidYTD           decimal.Decimal
	Remaining         decimal.Decimal
	StandardMonthly   decimal.Decimal
	SuggestedMonthly  decimal.Decimal
	Year              int
	MonthsRemaining   int
	CarryoverKnown    bool // false when the prior year has no budget data
}

// Statement composes the carryover, current-year reconciliation and
// payment guidance for one unit as of a date.
func (r *Reconciler) Statement(ctx context.Context, unitNumber string, year int, asOf time.Time) (*Statement, error) {
	unit, err := r.storage.GetUnit(ctx, unitNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", unitNumber, err)
	}
	if unit == nil {
		return nil, fmt.Errorf("unit %s: %w", unitNumber, common.ErrNotFound)
	}
	if err := validateFraction(*unit); err != nil {
		return nil, err
	}

	carryover, err := r.Carryover(ctx, *unit, year)
	carryoverKnown := true
	if err != nil {
		if !errors.Is(err, common.ErrNoPriorData) {
			return nil, err
		}
		// No prior-year budget: the statement still composes, but the
		// carryover is reported as unknown rather than zero.
		carryover = decimal.Zero
		carryoverKnown = false
	}

	position, err := r.Reconcile(ctx, *unit, year)
	if err != nil {
		return nil, err
	}

	totalDue := carryover.Add(position.Expected)
	remaining := totalDue.Sub(position.Paid)

	stmt := &Statement{
		Unit:              unit.Number,
		Year:              year,
		OwnershipFraction: unit.OwnershipFraction,
		Carryover:         carryover,
		CarryoverKnown:    carryoverKnown,
		AnnualDues:        position.Expected,
		TotalDue:          totalDue,
		PaidYTD:           position.Paid,
		Remaining:         remaining,
		StandardMonthly:   position.Expected.Div(twelve).Round(2),
	}

	month := int(asOf.Month())

	switch {
	case remaining.IsZero():
		stmt.Guidance = GuidancePaidInFull
	case remaining.IsNegative():
		stmt.Guidance = GuidanceCreditBalance
	case month == 12:
		stmt.Guidance = GuidanceDueImmediately
		stmt.MonthsRemaining = 1
	default:
		stmt.MonthsRemaining = 12 - month + 1
		stmt.SuggestedMonthly = remaining.Div(decimal.NewFromInt(int64(stmt.MonthsRemaining))).Round(2)
		stmt.Guidance = GuidanceMonthly
	}

	return stmt, nil
}

var twelve = decimal.NewFromInt(12)
