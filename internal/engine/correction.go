package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/rules"
)

// Defaults for rules synthesized from corrections: above generic fallback
// rules, below curated high-confidence exact rules.
const (
	learnedRuleConfidence = 90
	learnedRulePriority   = 50
)

// ApplyCorrection records a human-supplied category for a transaction,
// clears its review flag, and optionally promotes the correction into a
// new classification rule.
func (e *Engine) ApplyCorrection(ctx context.Context, transactionID, category string, learn bool) error {
	cat, err := e.storage.GetCategoryByName(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to look up category: %w", err)
	}
	if cat == nil || !cat.IsActive {
		return fmt.Errorf("%w: %s", common.ErrUnknownCategory, category)
	}

	txn, err := e.storage.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to look up transaction: %w", err)
	}
	if txn == nil {
		return fmt.Errorf("transaction %s: %w", transactionID, common.ErrNotFound)
	}

	if err := e.storage.UpdateTransactionCategory(ctx, transactionID, category); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	slog.Info("Applied correction",
		"transaction_id", transactionID,
		"category", category,
		"learn", learn)

	if learn {
		return e.LearnRule(ctx, txn.Description, category)
	}
	return nil
}

// LearnRule synthesizes a classification rule from a corrected
// description. When a rule with the same pattern and category already
// exists its confidence is raised, never lowered; otherwise a new learned
// rule is appended. This is the system's only learning mechanism.
func (e *Engine) LearnRule(ctx context.Context, description, category string) error {
	pattern := rules.ExtractPattern(description)
	if pattern == "" {
		slog.Warn("No distinctive pattern in description, skipping rule learning",
			"description", description)
		return nil
	}

	existing, err := e.storage.GetRuleByPattern(ctx, pattern, category)
	if err != nil {
		return fmt.Errorf("failed to look up rule: %w", err)
	}

	if existing != nil {
		if existing.Confidence >= learnedRuleConfidence {
			return nil
		}
		existing.Confidence = learnedRuleConfidence
		if err := e.storage.SaveRule(ctx, existing); err != nil {
			return fmt.Errorf("failed to update learned rule: %w", err)
		}
		slog.Info("Raised confidence of existing rule",
			"rule_id", existing.ID,
			"pattern", pattern,
			"category", category)
		return nil
	}

	rule := &model.Rule{
		Pattern:    pattern,
		Category:   category,
		Confidence: learnedRuleConfidence,
		Priority:   learnedRulePriority,
		Source:     model.RuleSourceLearned,
		IsActive:   true,
	}
	if err := e.storage.SaveRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to save learned rule: %w", err)
	}

	slog.Info("Learned new rule from correction",
		"pattern", pattern,
		"category", category,
		"priority", learnedRulePriority)
	return nil
}
