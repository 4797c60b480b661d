package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
)

const categoryColumns = `id, name, kind, timing, is_reserve, is_active, created_at`

// GetCategories returns every category ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}
	return categories, rows.Err()
}

// GetCategoryByName returns a category, or nil when absent.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)

	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// CreateCategory inserts a new category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category cannot be nil")
	}
	if err := validateString(category.Name, "name"); err != nil {
		return err
	}
	if !category.Kind.Valid() {
		return fmt.Errorf("%w: invalid category kind %q", common.ErrInvalidConfig, category.Kind)
	}
	if category.Timing == "" {
		category.Timing = model.TimingMonthly
	}
	if !category.Timing.Valid() {
		return fmt.Errorf("%w: invalid category timing %q", common.ErrInvalidConfig, category.Timing)
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO categories
		(name, kind, timing, is_reserve, is_active) VALUES (?, ?, ?, ?, ?)`,
		category.Name, string(category.Kind), string(category.Timing),
		category.IsReserve, category.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	category.ID = int(id)
	return nil
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var kind, timing string

	err := row.Scan(
		&cat.ID,
		&cat.Name,
		&kind,
		&timing,
		&cat.IsReserve,
		&cat.IsActive,
		&cat.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	cat.Kind = model.CategoryKind(kind)
	cat.Timing = model.Timing(timing)
	return &cat, nil
}
