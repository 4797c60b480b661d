package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/testutil"
)

func seedTransaction(t *testing.T, txns *[]model.Transaction, day time.Time, description, category, debit, credit string) {
	t.Helper()

	txn := model.Transaction{
		Date:          day,
		Description:   description,
		AccountNumber: "XX1234",
		AccountName:   "Operating",
		Category:      category,
		Debit:         testutil.MustDecimal(t, debit),
		Credit:        testutil.MustDecimal(t, credit),
		Status:        "Posted",
	}
	txn.ID = txn.GenerateHash()
	*txns = append(*txns, txn)
}

func TestSummary(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "1200")
	testutil.SeedBudget(t, store, 2025, "Insurance", "3600")
	testutil.SeedBudget(t, store, 2025, "Dues Unit 1", "4800")

	var txns []model.Transaction
	seedTransaction(t, &txns, date(2025, 2, 10), "ACME WATER CO", "Water & Sewer", "95.50", "0")
	seedTransaction(t, &txns, date(2025, 5, 10), "ACME WATER CO", "Water & Sewer", "104.50", "0")
	seedTransaction(t, &txns, date(2025, 3, 1), "UNIT 1 DUES", "Dues Unit 1", "0", "400")
	// Transfers never count toward actuals.
	seedTransaction(t, &txns, date(2025, 3, 2), "TO RESERVE ACCT", "Account Transfer", "1000", "0")
	require.NoError(t, store.ReplaceTransactions(ctx, txns))

	summary, err := NewCalculator(store).Summary(ctx, 2025, date(2025, 8, 15))
	require.NoError(t, err)

	require.Len(t, summary.Expense.Categories, 2)
	require.Len(t, summary.Income.Categories, 1)

	byName := make(map[string]CategoryLine)
	for _, line := range summary.Expense.Categories {
		byName[line.Category] = line
	}

	// August 15 is eight elapsed months of a 1200 monthly budget.
	water := byName["Water & Sewer"]
	assert.True(t, water.YTDBudget.Equal(testutil.MustDecimal(t, "800")), "got %s", water.YTDBudget)
	assert.True(t, water.YTDActual.Equal(testutil.MustDecimal(t, "200")), "got %s", water.YTDActual)
	assert.True(t, water.Remaining.Equal(testutil.MustDecimal(t, "600")), "got %s", water.Remaining)

	// Annual timing counts in full regardless of the as-of month.
	insurance := byName["Insurance"]
	assert.True(t, insurance.YTDBudget.Equal(testutil.MustDecimal(t, "3600")), "got %s", insurance.YTDBudget)

	dues := summary.Income.Categories[0]
	assert.Equal(t, "Dues Unit 1", dues.Category)
	assert.True(t, dues.YTDActual.Equal(testutil.MustDecimal(t, "400")), "got %s", dues.YTDActual)

	assert.True(t, summary.Expense.YTDBudget.Equal(testutil.MustDecimal(t, "4400")))
}

func TestSummaryRecomputesFromCurrentData(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "1200")

	var txns []model.Transaction
	seedTransaction(t, &txns, date(2025, 2, 10), "ACME WATER CO", "Water & Sewer", "100", "0")
	require.NoError(t, store.ReplaceTransactions(ctx, txns))

	calc := NewCalculator(store)
	asOf := date(2025, 6, 30)

	before, err := calc.Summary(ctx, 2025, asOf)
	require.NoError(t, err)
	assert.True(t, before.Expense.YTDActual.Equal(testutil.MustDecimal(t, "100")))

	// Recategorizing the transaction changes the next read.
	require.NoError(t, store.UpdateTransactionCategory(ctx, txns[0].ID, "Landscaping"))

	after, err := calc.Summary(ctx, 2025, asOf)
	require.NoError(t, err)
	assert.True(t, after.Expense.YTDActual.IsZero(), "got %s", after.Expense.YTDActual)
}

func TestOperatingBudgetExcludesReserve(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	testutil.SeedBudget(t, store, 2025, "Water & Sewer", "1200")
	testutil.SeedBudget(t, store, 2025, "Insurance", "3600")
	testutil.SeedBudget(t, store, 2025, "Reserve Contribution", "5000")
	// Income never contributes to the operating expense budget.
	testutil.SeedBudget(t, store, 2025, "Dues Unit 1", "4800")

	operating, err := NewCalculator(store).OperatingBudget(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, operating.Equal(testutil.MustDecimal(t, "4800")), "got %s", operating)
}

func TestOperatingBudgetEmptyYear(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)

	operating, err := NewCalculator(store).OperatingBudget(context.Background(), 2019)
	require.NoError(t, err)
	assert.True(t, operating.IsZero())
}
