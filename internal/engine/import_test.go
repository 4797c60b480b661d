package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
	"github.com/duesflow/duesflow/internal/testutil"
)

func TestImportReplacesPriorTransactions(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	first := []model.Transaction{
		testTransaction(t, "OLD VENDOR", "Water & Sewer"),
		testTransaction(t, "OLDER VENDOR", "Insurance"),
	}
	_, err := eng.Import(ctx, first)
	require.NoError(t, err)

	second := []model.Transaction{
		testTransaction(t, "NEW VENDOR", "Landscaping"),
	}
	stats, err := eng.Import(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)

	stored, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1, "a new import supersedes all prior transactions")
	assert.Equal(t, "NEW VENDOR", stored[0].Description)
}

func TestImportAppliesClassifications(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	seedRule(t, store, "ACME WATER", "Water & Sewer", 95, 100)

	classifier := &mockClassifier{suggestions: map[string]service.Suggestion{
		"MYSTERY VENDOR": {Category: "Landscaping", Confidence: 70},
	}}

	stats, err := New(store, classifier).Import(ctx, []model.Transaction{
		testTransaction(t, "ACME WATER CO", ""),
		testTransaction(t, "MYSTERY VENDOR", ""),
		testTransaction(t, "UNIT 1 CHECK", "Dues Unit 1"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.SourceProvided)
	assert.Equal(t, 1, stats.RuleMatched)
	assert.Equal(t, 0, stats.ExternallyClassified)
	assert.Equal(t, 1, stats.FlaggedForReview)

	queue, err := store.GetReviewQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "MYSTERY VENDOR", queue[0].Description)
	assert.Equal(t, "Landscaping", queue[0].AutoCategory, "low-confidence guess kept as suggestion")
	assert.Empty(t, queue[0].Category)
}

// A classifier outage mid-import still lands every transaction, with the
// unresolved ones queued for review.
func TestImportSurvivesClassifierOutage(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	classifier := &mockClassifier{err: assert.AnError}

	stats, err := New(store, classifier).Import(ctx, []model.Transaction{
		testTransaction(t, "VENDOR A", ""),
		testTransaction(t, "VENDOR B", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FlaggedForReview)

	stored, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
