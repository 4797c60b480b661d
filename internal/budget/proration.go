// Package budget implements time-prorated budget allowances and
// per-category budget summaries.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/model"
)

var (
	twelve = decimal.NewFromInt(12)
	four   = decimal.NewFromInt(4)
)

// YTDBudget returns the year-to-date allowance of an annual amount under a
// timing pattern, as of the given date. The result is exact to the cent
// and depends only on the inputs.
//
//   - monthly: one twelfth per elapsed month, including the current one.
//   - quarterly: one fourth per completed quarter; the current partial
//     quarter contributes nothing.
//   - annual: the full amount all year, since the expense can occur at any
//     point in the year.
func YTDBudget(annual decimal.Decimal, timing model.Timing, asOf time.Time) decimal.Decimal {
	month := int64(asOf.Month())

	switch timing {
	case model.TimingMonthly:
		return annual.Div(twelve).Mul(decimal.NewFromInt(month)).Round(2)
	case model.TimingQuarterly:
		completedQuarters := (month - 1) / 3
		return annual.Div(four).Mul(decimal.NewFromInt(completedQuarters)).Round(2)
	case model.TimingAnnual:
		return annual.Round(2)
	}

	// Unknown timing defaults to annual.
	return annual.Round(2)
}
