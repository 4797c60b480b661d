package model

import "github.com/shopspring/decimal"

// BudgetEntry declares the annual amount for one category in one year.
// Unique per (year, category).
type BudgetEntry struct {
	Category       string
	TimingOverride Timing // empty means use the category's timing
	AnnualAmount   decimal.Decimal
	ID             int
	Year           int
}

// EffectiveTiming returns the timing override if set, otherwise the
// category's own timing.
func (b BudgetEntry) EffectiveTiming(cat Category) Timing {
	if b.TimingOverride != "" {
		return b.TimingOverride
	}
	return cat.Timing
}

// UnitAccount identifies an owner unit and its share of the operating
// budget. Fractions across all units sum to at most 1; any remainder is
// attributable to non-unit income such as interest.
type UnitAccount struct {
	Number            string
	DuesCategory      string // category whose credits are this unit's payments
	OwnershipFraction decimal.Decimal
	ID                int
}

// HistoricalDebtEntry seeds a balance owed by a unit from before
// transaction records exist. Manually entered, never computed.
type HistoricalDebtEntry struct {
	Unit    string
	Balance decimal.Decimal
	ID      int
	Year    int
}
