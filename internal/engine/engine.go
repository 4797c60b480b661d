// Package engine implements the classification pipeline for categorizing
// imported transactions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/rules"
	"github.com/duesflow/duesflow/internal/service"
)

// ReviewThreshold is the minimum confidence (0-100) an automatic category
// assignment needs to be accepted without human review.
const ReviewThreshold = 80

// Engine orchestrates rule matching, the external classifier fallback and
// the review flag for a batch of transactions.
type Engine struct {
	storage    service.Storage
	classifier Classifier // nil degrades every fallback to review
	onProgress func(done, total int)
	batchSize  int
}

// Config holds configuration options for the classification engine.
type Config struct {
	// OnProgress, when set, is called as classifications resolve.
	OnProgress func(done, total int)
	BatchSize  int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{BatchSize: 25}
}

// New creates a new classification engine with the given dependencies.
func New(storage service.Storage, classifier Classifier) *Engine {
	return NewWithConfig(storage, classifier, DefaultConfig())
}

// NewWithConfig creates a new classification engine with custom configuration.
func NewWithConfig(storage service.Storage, classifier Classifier, config Config) *Engine {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Engine{
		storage:    storage,
		classifier: classifier,
		onProgress: config.OnProgress,
		batchSize:  config.BatchSize,
	}
}

// ClassifyBatch runs the pipeline over a batch of transactions and returns
// one classification per transaction, in input order.
//
// A transaction that already carries a category is accepted as-is: the
// pipeline never overwrites a non-empty incoming category. Otherwise rules
// are consulted first; only transactions no rule matched go to the
// external classifier, in bounded sub-batches. A failed external call
// flags its sub-batch for review and classification continues.
func (e *Engine) ClassifyBatch(ctx context.Context, txns []model.Transaction) ([]model.Classification, error) {
	categories, err := e.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories configured", common.ErrInvalidConfig)
	}

	activeByName := make(map[string]model.Category)
	for _, cat := range categories {
		if cat.IsActive {
			activeByName[cat.Name] = cat
		}
	}

	activeRules, err := e.storage.GetActiveRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	// Rules referencing a category that does not exist are a configuration
	// error, not something to drop silently.
	for _, rule := range activeRules {
		if _, ok := activeByName[rule.Category]; !ok {
			return nil, fmt.Errorf("%w: rule %d references category %q", common.ErrUnknownCategory, rule.ID, rule.Category)
		}
	}

	matcher := rules.NewMatcher(activeRules)
	now := time.Now()

	out := make([]model.Classification, len(txns))
	var fallbackIdx []int

	for i, txn := range txns {
		switch {
		case txn.Category != "":
			// Preserving manual/source categorization is a hard invariant.
			out[i] = model.Classification{
				Transaction:  txn,
				Category:     txn.Category,
				Confidence:   100,
				Status:       model.StatusSourceProvided,
				ClassifiedAt: now,
			}

		default:
			if rule := matcher.Match(txn.Description); rule != nil {
				out[i] = model.Classification{
					Transaction:  txn,
					Category:     rule.Category,
					Confidence:   rule.Confidence,
					Status:       model.StatusClassifiedByRule,
					NeedsReview:  rule.Confidence < ReviewThreshold,
					ClassifiedAt: now,
				}
				continue
			}
			fallbackIdx = append(fallbackIdx, i)
		}
	}

	e.progress(len(txns)-len(fallbackIdx), len(txns))

	e.classifyFallback(ctx, txns, categories, fallbackIdx, out, now)

	return out, nil
}

func (e *Engine) progress(done, total int) {
	if e.onProgress != nil {
		e.onProgress(done, total)
	}
}

// classifyFallback sends unmatched transactions to the external classifier
// in bounded sub-batches and fills in their classifications. Failures
// never propagate: the affected sub-batch is flagged for review instead.
func (e *Engine) classifyFallback(ctx context.Context, txns []model.Transaction, categories []model.Category, indices []int, out []model.Classification, now time.Time) {
	activeByName := make(map[string]model.Category)
	for _, cat := range categories {
		if cat.IsActive {
			activeByName[cat.Name] = cat
		}
	}

	done := len(txns) - len(indices)
	for start := 0; start < len(indices); start += e.batchSize {
		end := start + e.batchSize
		if end > len(indices) {
			end = len(indices)
		}
		chunk := indices[start:end]

		batch := make([]model.Transaction, len(chunk))
		for j, idx := range chunk {
			batch[j] = txns[idx]
		}

		suggestions, err := e.suggest(ctx, batch, categories)
		if err != nil {
			slog.Warn("External classification failed, flagging batch for review",
				"batch_size", len(chunk),
				"error", err)
			for _, idx := range chunk {
				out[idx] = model.Classification{
					Transaction:  txns[idx],
					Status:       model.StatusFlaggedForReview,
					NeedsReview:  true,
					ClassifiedAt: now,
				}
			}
			done += len(chunk)
			e.progress(done, len(txns))
			continue
		}

		for j, idx := range chunk {
			suggestion := suggestions[j]
			_, known := activeByName[suggestion.Category]

			if known && suggestion.Confidence >= ReviewThreshold {
				out[idx] = model.Classification{
					Transaction:  txns[idx],
					Category:     suggestion.Category,
					Confidence:   suggestion.Confidence,
					Status:       model.StatusClassifiedByExternal,
					ClassifiedAt: now,
				}
				continue
			}

			// Below threshold or unknown label: the guess is retained as a
			// suggestion only, never as the transaction's category.
			classification := model.Classification{
				Transaction:  txns[idx],
				Status:       model.StatusFlaggedForReview,
				NeedsReview:  true,
				Confidence:   suggestion.Confidence,
				ClassifiedAt: now,
			}
			if known {
				classification.Suggestion = suggestion.Category
			}
			out[idx] = classification
		}

		done += len(chunk)
		e.progress(done, len(txns))
	}
}

func (e *Engine) suggest(ctx context.Context, batch []model.Transaction, categories []model.Category) ([]service.Suggestion, error) {
	if e.classifier == nil {
		return nil, fmt.Errorf("%w: no external classifier configured", common.ErrClassificationFailed)
	}
	return e.classifier.SuggestCategories(ctx, batch, categories)
}
