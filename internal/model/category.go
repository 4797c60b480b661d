// Package model defines the core domain models used throughout the application.
package model

import "time"

// CategoryKind indicates how a category participates in budget arithmetic.
type CategoryKind string

const (
	// KindIncome represents categories for money coming in.
	KindIncome CategoryKind = "income"
	// KindExpense represents categories for money going out.
	KindExpense CategoryKind = "expense"
	// KindTransfer represents moves between accounts.
	KindTransfer CategoryKind = "transfer"
	// KindInternal represents operational noise such as ledger adjustments.
	KindInternal CategoryKind = "internal"
)

// Valid reports whether the kind is one of the closed set.
func (k CategoryKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer, KindInternal:
		return true
	}
	return false
}

// InBudget reports whether transactions of this kind count toward budget
// and dues arithmetic. Transfers and internal moves net to zero and are
// excluded everywhere.
func (k CategoryKind) InBudget() bool {
	return k == KindIncome || k == KindExpense
}

// Timing describes how an annual budget amount accrues over the year.
type Timing string

const (
	// TimingMonthly accrues one twelfth per elapsed month.
	TimingMonthly Timing = "monthly"
	// TimingQuarterly accrues one fourth per completed quarter.
	TimingQuarterly Timing = "quarterly"
	// TimingAnnual makes the full amount available all year.
	TimingAnnual Timing = "annual"
)

// Valid reports whether the timing is one of the closed set.
func (t Timing) Valid() bool {
	switch t {
	case TimingMonthly, TimingQuarterly, TimingAnnual:
		return true
	}
	return false
}

// Category represents a spending or income category.
type Category struct {
	CreatedAt time.Time
	Name      string
	Kind      CategoryKind
	Timing    Timing
	ID        int
	IsReserve bool // reserve-fund contributions, excluded from dues share
	IsActive  bool
}
