package dues

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/testutil"
)

func TestStatus(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "36000")
	testutil.SeedBudget(t, store, 2025, "Insurance", "3600")
	testutil.SeedBudget(t, store, 2025, "Reserve Contribution", "5000")

	testutil.SeedUnit(t, store, "1", "0.104", "Dues Unit 1")
	testutil.SeedUnit(t, store, "2", "0.26", "Dues Unit 2")

	seedPayment(t, store, date(2025, 1, 15), "Dues Unit 1", "700")
	seedPayment(t, store, date(2025, 1, 20), "Dues Unit 2", "10296")

	report, err := newTestReconciler(store).Status(ctx, 2025)
	require.NoError(t, err)

	assert.True(t, report.OperatingBudget.Equal(testutil.MustDecimal(t, "39600")), "got %s", report.OperatingBudget)
	require.Len(t, report.Units, 2)

	unit1 := report.Units[0]
	assert.Equal(t, "1", unit1.Unit)
	assert.True(t, unit1.AnnualShare.Equal(testutil.MustDecimal(t, "4118.40")), "got %s", unit1.AnnualShare)
	assert.True(t, unit1.PaidYTD.Equal(testutil.MustDecimal(t, "700")))
	assert.True(t, unit1.Outstanding.Equal(testutil.MustDecimal(t, "3418.40")), "got %s", unit1.Outstanding)

	unit2 := report.Units[1]
	assert.Equal(t, "2", unit2.Unit)
	assert.True(t, unit2.AnnualShare.Equal(testutil.MustDecimal(t, "10296.00")), "got %s", unit2.AnnualShare)
	assert.True(t, unit2.Outstanding.IsZero(), "got %s", unit2.Outstanding)

	assert.True(t, report.TotalExpected.Equal(testutil.MustDecimal(t, "14414.40")), "got %s", report.TotalExpected)
}

func TestStatusInvalidFractions(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "36000")
	testutil.SeedUnit(t, store, "1", "0.6", "Dues Unit 1")
	testutil.SeedUnit(t, store, "2", "0.6", "Dues Unit 2")

	_, err := newTestReconciler(store).Status(ctx, 2025)
	assert.Error(t, err)
}

func TestStatusIncludesCumulativeCarryover(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "36000")
	testutil.SeedBudget(t, store, 2026, "Water & Sewer", "36000")
	testutil.SeedUnit(t, store, "1", "0.1", "Dues Unit 1")
	// 2025: owed 3,600, paid 3,000 -> 600 carries into 2026.
	seedPayment(t, store, date(2025, 6, 1), "Dues Unit 1", "3000")

	report, err := newTestReconciler(store).Status(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, report.Units, 1)

	unit := report.Units[0]
	assert.True(t, unit.Carryover.Equal(testutil.MustDecimal(t, "600")), "got %s", unit.Carryover)
	assert.True(t, unit.ExpectedTotal.Equal(testutil.MustDecimal(t, "4200.00")), "got %s", unit.ExpectedTotal)
}
