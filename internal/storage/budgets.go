package storage

import (
	"context"
	"fmt"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
)

// GetBudgets returns the budget entries for a year.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, year int) ([]model.BudgetEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, year, category, annual_amount, COALESCE(timing_override, '')
		FROM budgets WHERE year = ? ORDER BY category`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.BudgetEntry
	for rows.Next() {
		var entry model.BudgetEntry
		var amount, override string
		if err := rows.Scan(&entry.ID, &entry.Year, &entry.Category, &amount, &override); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if entry.AnnualAmount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		entry.TimingOverride = model.Timing(override)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveBudget inserts or updates the budget entry for (year, category).
// Annual amounts must be non-negative.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, entry *model.BudgetEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("budget entry cannot be nil")
	}
	if err := validateString(entry.Category, "category"); err != nil {
		return err
	}
	if entry.AnnualAmount.IsNegative() {
		return fmt.Errorf("%w: budget amount for %s/%d is negative", common.ErrInvalidConfig, entry.Category, entry.Year)
	}
	if entry.TimingOverride != "" && !entry.TimingOverride.Valid() {
		return fmt.Errorf("%w: invalid timing override %q", common.ErrInvalidConfig, entry.TimingOverride)
	}

	cat, err := s.GetCategoryByName(ctx, entry.Category)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: budget references category %q", common.ErrUnknownCategory, entry.Category)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO budgets (year, category, annual_amount, timing_override)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, category) DO UPDATE SET
			annual_amount = excluded.annual_amount,
			timing_override = excluded.timing_override`,
		entry.Year, entry.Category, entry.AnnualAmount.String(), nullable(string(entry.TimingOverride)))
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}
