// Package testutil provides shared helpers for tests that need a real
// database: in-memory storage with migrations applied and common fixture
// data for categories, budgets and units.
package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
	"github.com/duesflow/duesflow/internal/storage"
)

// SetupTestDB creates a migrated in-memory database, seeds the given
// categories, and registers cleanup.
func SetupTestDB(t *testing.T, categories ...model.Category) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range categories {
		if err := store.CreateCategory(ctx, &categories[i]); err != nil {
			t.Fatalf("failed to seed category %q: %v", categories[i].Name, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// AssociationCategories is a representative category set for a small
// condominium association.
func AssociationCategories() []model.Category {
	return []model.Category{
		{Name: "Dues Unit 1", Kind: model.KindIncome, Timing: model.TimingMonthly, IsActive: true},
		{Name: "Dues Unit 2", Kind: model.KindIncome, Timing: model.TimingMonthly, IsActive: true},
		{Name: "Interest Income", Kind: model.KindIncome, Timing: model.TimingMonthly, IsActive: true},
		{Name: "Water & Sewer", Kind: model.KindExpense, Timing: model.TimingMonthly, IsActive: true},
		{Name: "Insurance", Kind: model.KindExpense, Timing: model.TimingAnnual, IsActive: true},
		{Name: "Landscaping", Kind: model.KindExpense, Timing: model.TimingQuarterly, IsActive: true},
		{Name: "Reserve Contribution", Kind: model.KindExpense, Timing: model.TimingMonthly, IsReserve: true, IsActive: true},
		{Name: "Account Transfer", Kind: model.KindTransfer, Timing: model.TimingMonthly, IsActive: true},
	}
}

// SeedBudget saves one budget entry, failing the test on error.
func SeedBudget(t *testing.T, store service.Storage, year int, category, amount string) {
	t.Helper()

	annual, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("invalid fixture amount %q: %v", amount, err)
	}
	entry := &model.BudgetEntry{Year: year, Category: category, AnnualAmount: annual}
	if err := store.SaveBudget(context.Background(), entry); err != nil {
		t.Fatalf("failed to seed budget %s/%d: %v", category, year, err)
	}
}

// SeedUnit saves one unit account, failing the test on error.
func SeedUnit(t *testing.T, store service.Storage, number, fraction, duesCategory string) {
	t.Helper()

	f, err := decimal.NewFromString(fraction)
	if err != nil {
		t.Fatalf("invalid fixture fraction %q: %v", fraction, err)
	}
	unit := &model.UnitAccount{Number: number, OwnershipFraction: f, DuesCategory: duesCategory}
	if err := store.SaveUnit(context.Background(), unit); err != nil {
		t.Fatalf("failed to seed unit %s: %v", number, err)
	}
}

// MustDecimal parses a decimal literal, failing the test on error.
func MustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", value, err)
	}
	return d
}
