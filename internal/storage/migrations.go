package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					kind TEXT NOT NULL,
					timing TEXT NOT NULL DEFAULT 'monthly',
					is_reserve INTEGER NOT NULL DEFAULT 0,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					pattern TEXT NOT NULL,
					category TEXT NOT NULL,
					confidence INTEGER NOT NULL DEFAULT 90,
					priority INTEGER NOT NULL DEFAULT 50,
					is_regex INTEGER NOT NULL DEFAULT 0,
					is_active INTEGER NOT NULL DEFAULT 1,
					source TEXT NOT NULL DEFAULT 'MANUAL',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(pattern, category)
				)`,
				`CREATE INDEX idx_rules_active ON rules(is_active)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					date DATETIME NOT NULL,
					description TEXT NOT NULL,
					account_number TEXT NOT NULL,
					account_name TEXT,
					check_number TEXT,
					status TEXT,
					debit TEXT NOT NULL DEFAULT '0',
					credit TEXT NOT NULL DEFAULT '0',
					balance TEXT NOT NULL DEFAULT '0',
					category TEXT,
					auto_category TEXT,
					confidence INTEGER NOT NULL DEFAULT 0,
					needs_review INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category)`,
				`CREATE INDEX idx_transactions_review ON transactions(needs_review)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Budgets, units and historical debt",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS budgets (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					year INTEGER NOT NULL,
					category TEXT NOT NULL,
					annual_amount TEXT NOT NULL DEFAULT '0',
					timing_override TEXT,
					UNIQUE(year, category)
				)`,

				`CREATE TABLE IF NOT EXISTS units (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					number TEXT UNIQUE NOT NULL,
					dues_category TEXT NOT NULL,
					ownership_fraction TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS historical_debt (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					unit TEXT NOT NULL,
					year INTEGER NOT NULL,
					balance TEXT NOT NULL DEFAULT '0',
					UNIQUE(unit, year)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Account name mapping",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS accounts (
				masked_number TEXT PRIMARY KEY,
				name TEXT NOT NULL
			)`)
			if err != nil {
				return fmt.Errorf("failed to create accounts table: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	current, err := s.currentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (s *SQLiteStorage) currentVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
