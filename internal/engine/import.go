package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duesflow/duesflow/internal/model"
)

// ImportStats summarizes one batch import.
type ImportStats struct {
	Total                int
	SourceProvided       int
	RuleMatched          int
	ExternallyClassified int
	FlaggedForReview     int
}

// Import classifies a transaction batch and atomically replaces all stored
// transactions with the result. A new import supersedes every prior
// transaction record; on error nothing is committed.
func (e *Engine) Import(ctx context.Context, txns []model.Transaction) (*ImportStats, error) {
	classifications, err := e.ClassifyBatch(ctx, txns)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{Total: len(classifications)}
	applied := make([]model.Transaction, len(classifications))

	for i, classification := range classifications {
		txn := classification.Transaction
		txn.Category = classification.Category
		txn.AutoCategory = classification.Suggestion
		txn.Confidence = classification.Confidence
		txn.NeedsReview = classification.NeedsReview
		if txn.ID == "" {
			txn.ID = txn.GenerateHash()
		}
		applied[i] = txn

		switch classification.Status {
		case model.StatusSourceProvided:
			stats.SourceProvided++
		case model.StatusClassifiedByRule:
			stats.RuleMatched++
		case model.StatusClassifiedByExternal:
			stats.ExternallyClassified++
		case model.StatusFlaggedForReview:
			stats.FlaggedForReview++
		}
	}

	if err := e.storage.ReplaceTransactions(ctx, applied); err != nil {
		return nil, fmt.Errorf("failed to replace transactions: %w", err)
	}

	slog.Info("Import complete",
		"total", stats.Total,
		"source_provided", stats.SourceProvided,
		"rule_matched", stats.RuleMatched,
		"externally_classified", stats.ExternallyClassified,
		"flagged_for_review", stats.FlaggedForReview)

	return stats, nil
}
