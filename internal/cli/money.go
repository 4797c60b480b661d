package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders a decimal dollar amount as a display string, e.g.
// "$1,234.56". Amounts are rounded to cents first.
func FormatUSD(amount decimal.Decimal) string {
	cents := amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	return money.New(cents, money.USD).Display()
}
