package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/duesflow/duesflow/internal/budget"
	"github.com/duesflow/duesflow/internal/config"
	"github.com/duesflow/duesflow/internal/dues"
	"github.com/duesflow/duesflow/internal/llm"
	"github.com/duesflow/duesflow/internal/service"
	"github.com/duesflow/duesflow/internal/storage"
)

// defaultBaseYear is the first fiscal year with transaction records.
// Carryover for earlier years comes only from seeded historical debt.
const defaultBaseYear = 2025

// initStorage initializes the storage service with proper path expansion
// and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/duesflow/duesflow.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createClassifier builds the external classifier from configuration, or
// returns nil when no API key is configured. Without a classifier,
// unmatched transactions are flagged for review instead.
func createClassifier() *llm.Classifier {
	cfg := config.LoadLLMConfig()
	if cfg.APIKey == "" {
		slog.Warn("No LLM API key configured; unmatched transactions will be flagged for review")
		return nil
	}

	classifier, err := llm.NewClassifier(cfg, slog.Default())
	if err != nil {
		slog.Warn("Failed to initialize external classifier", "error", err)
		return nil
	}
	return classifier
}

func newReconciler(store service.Storage) *dues.Reconciler {
	baseYear := viper.GetInt("dues.base_year")
	if baseYear == 0 {
		baseYear = defaultBaseYear
	}
	return dues.NewReconciler(store, budget.NewCalculator(store), baseYear)
}

// resolveYear returns the flag value or the current calendar year.
func resolveYear(year int) int {
	if year > 0 {
		return year
	}
	return time.Now().Year()
}

// resolveAsOf parses an --as-of flag, defaulting to now.
func resolveAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	asOf, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q (want 2006-01-02)", value)
	}
	return asOf, nil
}
