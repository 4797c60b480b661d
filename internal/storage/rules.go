package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/duesflow/duesflow/internal/model"
)

const ruleColumns = `id, pattern, category, confidence, priority, is_regex, is_active, source, created_at`

// GetRules returns every rule, active or not, in deterministic match
// order: priority descending, longer pattern first, then insertion order.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	return s.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules
		ORDER BY priority DESC, LENGTH(pattern) DESC, id`)
}

// GetActiveRules returns only the active rules, in match order.
func (s *SQLiteStorage) GetActiveRules(ctx context.Context) ([]model.Rule, error) {
	return s.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules
		WHERE is_active = 1 ORDER BY priority DESC, LENGTH(pattern) DESC, id`)
}

// GetRuleByPattern returns the rule with the given pattern and category,
// or nil when none exists.
func (s *SQLiteStorage) GetRuleByPattern(ctx context.Context, pattern, category string) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(pattern, "pattern"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE pattern = ? AND category = ?`,
		pattern, category)

	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// SaveRule inserts a new rule or updates an existing one by ID.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rule == nil {
		return fmt.Errorf("rule cannot be nil")
	}
	if err := validateString(rule.Pattern, "pattern"); err != nil {
		return err
	}
	if err := validateString(rule.Category, "category"); err != nil {
		return err
	}

	if rule.Source == "" {
		rule.Source = model.RuleSourceManual
	}

	if rule.ID == 0 {
		result, err := s.db.ExecContext(ctx, `INSERT INTO rules
			(pattern, category, confidence, priority, is_regex, is_active, source)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rule.Pattern, rule.Category, rule.Confidence, rule.Priority,
			rule.IsRegex, rule.IsActive, string(rule.Source))
		if err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get rule ID: %w", err)
		}
		rule.ID = int(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `UPDATE rules
		SET pattern = ?, category = ?, confidence = ?, priority = ?, is_regex = ?, is_active = ?, source = ?
		WHERE id = ?`,
		rule.Pattern, rule.Category, rule.Confidence, rule.Priority,
		rule.IsRegex, rule.IsActive, string(rule.Source), rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

// DeactivateRule disables a rule without deleting it.
func (s *SQLiteStorage) DeactivateRule(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE rules SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %d not found", id)
	}
	return nil
}

func (s *SQLiteStorage) queryRules(ctx context.Context, query string) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func scanRule(row rowScanner) (*model.Rule, error) {
	var rule model.Rule
	var source string

	err := row.Scan(
		&rule.ID,
		&rule.Pattern,
		&rule.Category,
		&rule.Confidence,
		&rule.Priority,
		&rule.IsRegex,
		&rule.IsActive,
		&source,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Source = model.RuleSource(source)
	return &rule, nil
}
