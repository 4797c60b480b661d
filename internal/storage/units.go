package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
)

// GetUnits returns every unit account ordered by unit number.
func (s *SQLiteStorage) GetUnits(ctx context.Context) ([]model.UnitAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, number, dues_category, ownership_fraction
		FROM units ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var units []model.UnitAccount
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

// GetUnit returns the unit with the given number, or ErrNotFound.
func (s *SQLiteStorage) GetUnit(ctx context.Context, number string) (*model.UnitAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(number, "number"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, number, dues_category, ownership_fraction
		FROM units WHERE number = ?`, number)

	unit, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: unit %s", common.ErrNotFound, number)
	}
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// SaveUnit inserts or updates a unit account by its number.
func (s *SQLiteStorage) SaveUnit(ctx context.Context, unit *model.UnitAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if unit == nil {
		return fmt.Errorf("unit cannot be nil")
	}
	if err := validateString(unit.Number, "number"); err != nil {
		return err
	}
	if err := validateString(unit.DuesCategory, "dues category"); err != nil {
		return err
	}
	if !unit.OwnershipFraction.IsPositive() || unit.OwnershipFraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: ownership fraction for unit %s must be in (0, 1]",
			common.ErrInvalidConfig, unit.Number)
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO units (number, dues_category, ownership_fraction)
		VALUES (?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			dues_category = excluded.dues_category,
			ownership_fraction = excluded.ownership_fraction`,
		unit.Number, unit.DuesCategory, unit.OwnershipFraction.String())
	if err != nil {
		return fmt.Errorf("failed to save unit: %w", err)
	}
	return nil
}

// GetHistoricalDebt returns the seeded debt balance for a unit and year,
// or zero when none was recorded.
func (s *SQLiteStorage) GetHistoricalDebt(ctx context.Context, unit string, year int) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(unit, "unit"); err != nil {
		return decimal.Zero, err
	}

	var balance string
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM historical_debt WHERE unit = ? AND year = ?`,
		unit, year).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query historical debt: %w", err)
	}
	return scanDecimal(balance)
}

// SaveHistoricalDebt inserts or updates the seeded debt for (unit, year).
func (s *SQLiteStorage) SaveHistoricalDebt(ctx context.Context, entry *model.HistoricalDebtEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("historical debt entry cannot be nil")
	}
	if err := validateString(entry.Unit, "unit"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO historical_debt (unit, year, balance)
		VALUES (?, ?, ?)
		ON CONFLICT(unit, year) DO UPDATE SET balance = excluded.balance`,
		entry.Unit, entry.Year, entry.Balance.String())
	if err != nil {
		return fmt.Errorf("failed to save historical debt: %w", err)
	}
	return nil
}

// GetAccounts returns the masked-number-to-name account mapping.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) (map[string]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT masked_number, name FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := make(map[string]string)
	for rows.Next() {
		var masked, name string
		if err := rows.Scan(&masked, &name); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[masked] = name
	}
	return accounts, rows.Err()
}

// SaveAccount maps a masked account number to a display name.
func (s *SQLiteStorage) SaveAccount(ctx context.Context, maskedNumber, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(maskedNumber, "masked number"); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts (masked_number, name)
		VALUES (?, ?)
		ON CONFLICT(masked_number) DO UPDATE SET name = excluded.name`,
		maskedNumber, name)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func scanUnit(row rowScanner) (*model.UnitAccount, error) {
	var unit model.UnitAccount
	var fraction string

	err := row.Scan(&unit.ID, &unit.Number, &unit.DuesCategory, &fraction)
	if err != nil {
		return nil, err
	}

	if unit.OwnershipFraction, err = scanDecimal(fraction); err != nil {
		return nil, err
	}
	return &unit, nil
}
