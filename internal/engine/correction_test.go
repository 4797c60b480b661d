package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/testutil"
)

func TestApplyCorrection(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	txn := testTransaction(t, "ACME WATER CO", "")
	_, err := eng.Import(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	require.NoError(t, eng.ApplyCorrection(ctx, txn.ID, "Water & Sewer", true))

	updated, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Water & Sewer", updated.Category)
	assert.False(t, updated.NeedsReview)

	// The correction synthesized a learned rule that now matches variants
	// of the same description.
	rule, err := store.GetRuleByPattern(ctx, "ACME WATER CO", "Water & Sewer")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, model.RuleSourceLearned, rule.Source)
	assert.Equal(t, 90, rule.Confidence)
	assert.Equal(t, 50, rule.Priority)

	out, err := eng.ClassifyBatch(ctx, []model.Transaction{
		testTransaction(t, "ACME WATER CO #2", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusClassifiedByRule, out[0].Status)
	assert.Equal(t, "Water & Sewer", out[0].Category)
}

func TestApplyCorrectionWithoutLearning(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	txn := testTransaction(t, "ONE OFF REFUND", "")
	_, err := eng.Import(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	require.NoError(t, eng.ApplyCorrection(ctx, txn.ID, "Interest Income", false))

	rules, err := store.GetRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestApplyCorrectionValidation(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	txn := testTransaction(t, "ACME WATER CO", "")
	_, err := eng.Import(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	err = eng.ApplyCorrection(ctx, txn.ID, "No Such Category", true)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)

	err = eng.ApplyCorrection(ctx, "missing-id", "Water & Sewer", true)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLearnRuleRaisesConfidence(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	// Existing low-confidence rule for the same pattern and category.
	low := &model.Rule{
		Pattern:    "ACME WATER CO",
		Category:   "Water & Sewer",
		Confidence: 60,
		Priority:   50,
		IsActive:   true,
		Source:     model.RuleSourceManual,
	}
	require.NoError(t, store.SaveRule(ctx, low))

	require.NoError(t, eng.LearnRule(ctx, "ACME WATER CO", "Water & Sewer"))

	rule, err := store.GetRuleByPattern(ctx, "ACME WATER CO", "Water & Sewer")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, low.ID, rule.ID, "existing rule updated, not duplicated")
	assert.Equal(t, 90, rule.Confidence)
}

func TestLearnRuleNeverLowersConfidence(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	high := &model.Rule{
		Pattern:    "ACME WATER CO",
		Category:   "Water & Sewer",
		Confidence: 98,
		Priority:   100,
		IsActive:   true,
		Source:     model.RuleSourceManual,
	}
	require.NoError(t, store.SaveRule(ctx, high))

	require.NoError(t, eng.LearnRule(ctx, "ACME WATER CO", "Water & Sewer"))

	rule, err := store.GetRuleByPattern(ctx, "ACME WATER CO", "Water & Sewer")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, 98, rule.Confidence)
	assert.Equal(t, 100, rule.Priority)
}

func TestLearnRuleSkipsNoiseOnlyDescription(t *testing.T) {
	store := testutil.SetupTestDB(t, testutil.AssociationCategories()...)
	ctx := context.Background()

	eng := New(store, nil)

	require.NoError(t, eng.LearnRule(ctx, "Deposit", "Interest Income"))

	rules, err := store.GetRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
