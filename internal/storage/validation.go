package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

// scanDecimal converts a TEXT column value back into a decimal. Amounts
// are stored as decimal strings so arithmetic stays exact.
func scanDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt decimal value %q: %w", value, err)
	}
	return d, nil
}
