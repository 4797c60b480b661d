package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func seedCategory(t *testing.T, store *SQLiteStorage, name string, kind model.CategoryKind) {
	t.Helper()

	cat := &model.Category{Name: name, Kind: kind, Timing: model.TimingMonthly, IsActive: true}
	require.NoError(t, store.CreateCategory(context.Background(), cat))
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func newTxn(t *testing.T, id, description, category string, day time.Time, debit, credit, balance string) model.Transaction {
	t.Helper()

	return model.Transaction{
		ID:            id,
		Date:          day,
		Description:   description,
		AccountNumber: "XX1234",
		AccountName:   "Operating",
		Category:      category,
		Debit:         mustDecimal(t, debit),
		Credit:        mustDecimal(t, credit),
		Balance:       mustDecimal(t, balance),
		Status:        "Posted",
	}
}

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))

	version, err := store.currentVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestReplaceTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := []model.Transaction{
		newTxn(t, "a", "ONE", "", day(2025, 1, 1), "10", "0", "100"),
		newTxn(t, "b", "TWO", "", day(2025, 1, 2), "20", "0", "80"),
	}
	require.NoError(t, store.ReplaceTransactions(ctx, first))

	second := []model.Transaction{
		newTxn(t, "c", "THREE", "", day(2025, 2, 1), "5", "0", "75"),
	}
	require.NoError(t, store.ReplaceTransactions(ctx, second))

	stored, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "c", stored[0].ID)
	assert.True(t, stored[0].Debit.Equal(mustDecimal(t, "5")))
}

func TestReplaceTransactionsAtomic(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	good := []model.Transaction{
		newTxn(t, "a", "KEEP ME", "", day(2025, 1, 1), "10", "0", "100"),
	}
	require.NoError(t, store.ReplaceTransactions(ctx, good))

	// A batch containing a transaction without an ID fails before commit;
	// the previous data must survive.
	bad := []model.Transaction{
		newTxn(t, "b", "FINE", "", day(2025, 1, 2), "1", "0", "99"),
		newTxn(t, "", "NO ID", "", day(2025, 1, 3), "2", "0", "97"),
	}
	require.Error(t, store.ReplaceTransactions(ctx, bad))

	stored, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "a", stored[0].ID)
}

func TestGetTransactionsFilter(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{
		newTxn(t, "a", "JAN WATER", "Water & Sewer", day(2025, 1, 15), "10", "0", "100"),
		newTxn(t, "b", "FEB WATER", "Water & Sewer", day(2025, 2, 15), "10", "0", "90"),
		newTxn(t, "c", "FEB DUES", "Dues Unit 1", day(2025, 2, 20), "0", "400", "490"),
	}))

	start := day(2025, 2, 1)
	byDate, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byCategory, err := store.GetTransactions(ctx, service.TransactionFilter{Category: "Water & Sewer"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	limited, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID, "newest first")
}

func TestGetTransactionByIDAbsent(t *testing.T) {
	store := newTestStorage(t)

	txn, err := store.GetTransactionByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, txn)
}

func TestUpdateTransactionCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := newTxn(t, "a", "ACME WATER", "", day(2025, 1, 1), "10", "0", "100")
	txn.NeedsReview = true
	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{txn}))

	require.NoError(t, store.UpdateTransactionCategory(ctx, "a", "Water & Sewer"))

	updated, err := store.GetTransactionByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Water & Sewer", updated.Category)
	assert.False(t, updated.NeedsReview, "correction clears the review flag")

	assert.Error(t, store.UpdateTransactionCategory(ctx, "missing", "Water & Sewer"))
}

func TestGetReviewQueue(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	flagged := newTxn(t, "a", "MYSTERY", "", day(2025, 1, 1), "10", "0", "100")
	flagged.NeedsReview = true
	flagged.AutoCategory = "Landscaping"
	clean := newTxn(t, "b", "KNOWN", "Water & Sewer", day(2025, 1, 2), "10", "0", "90")

	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{flagged, clean}))

	queue, err := store.GetReviewQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "a", queue[0].ID)
	assert.Equal(t, "Landscaping", queue[0].AutoCategory)
}

func TestSumCreditsByCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{
		newTxn(t, "a", "DUES JAN", "Dues Unit 1", day(2025, 1, 15), "0", "400", "400"),
		newTxn(t, "b", "DUES FEB", "Dues Unit 1", day(2025, 2, 15), "0", "300.50", "700.50"),
		newTxn(t, "c", "DUES PRIOR YEAR", "Dues Unit 1", day(2024, 12, 15), "0", "999", "999"),
		newTxn(t, "d", "OTHER", "Interest Income", day(2025, 3, 1), "0", "12", "712.50"),
	}))

	total, err := store.SumCreditsByCategory(ctx, "Dues Unit 1", 2025)
	require.NoError(t, err)
	assert.True(t, total.Equal(mustDecimal(t, "700.50")), "got %s", total)

	empty, err := store.SumCreditsByCategory(ctx, "Dues Unit 1", 2020)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestGetActualsByCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	seedCategory(t, store, "Dues Unit 1", model.KindIncome)
	seedCategory(t, store, "Water & Sewer", model.KindExpense)
	seedCategory(t, store, "Account Transfer", model.KindTransfer)

	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{
		newTxn(t, "a", "DUES", "Dues Unit 1", day(2025, 1, 15), "0", "400", "400"),
		newTxn(t, "b", "WATER", "Water & Sewer", day(2025, 2, 15), "95.50", "0", "304.50"),
		newTxn(t, "c", "WATER AGAIN", "Water & Sewer", day(2025, 3, 15), "104.50", "0", "200"),
		newTxn(t, "d", "MOVE TO RESERVE", "Account Transfer", day(2025, 3, 20), "100", "0", "100"),
		newTxn(t, "e", "UNCATEGORIZED", "", day(2025, 3, 21), "50", "0", "50"),
	}))

	actuals, err := store.GetActualsByCategory(ctx, 2025)
	require.NoError(t, err)

	assert.True(t, actuals["Dues Unit 1"].Equal(mustDecimal(t, "400")), "income counts credits")
	assert.True(t, actuals["Water & Sewer"].Equal(mustDecimal(t, "200")), "expense counts debits")
	_, hasTransfer := actuals["Account Transfer"]
	assert.False(t, hasTransfer, "transfers are excluded")
}

func TestGetAccountBalances(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	operating1 := newTxn(t, "a", "EARLY", "", day(2025, 1, 1), "10", "0", "100")
	operating2 := newTxn(t, "b", "LATE", "", day(2025, 3, 1), "10", "0", "90")
	reserve := newTxn(t, "c", "RESERVE", "", day(2025, 2, 1), "0", "50", "5050")
	reserve.AccountNumber = "XX5678"
	reserve.AccountName = "Reserve"

	require.NoError(t, store.ReplaceTransactions(ctx, []model.Transaction{operating1, operating2, reserve}))

	balances, err := store.GetAccountBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "Operating", balances[0].Account)
	assert.True(t, balances[0].Balance.Equal(mustDecimal(t, "90")), "latest balance wins, got %s", balances[0].Balance)
	assert.Equal(t, "Reserve", balances[1].Account)
	assert.True(t, balances[1].Balance.Equal(mustDecimal(t, "5050")))
}
