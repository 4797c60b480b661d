package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/duesflow/duesflow/internal/common"
	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

// Config holds configuration for the LLM classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	CacheTTL    time.Duration
	Temperature float64
	MaxTokens   int
}

// Classifier implements the engine's external classifier using LLM APIs.
// Each call is bounded by the configured timeout; callers decide how to
// degrade when the call fails.
type Classifier struct {
	client    Client
	cache     *suggestionCache
	logger    *slog.Logger
	retryOpts service.RetryOptions
	timeout   time.Duration
}

// NewClassifier creates a new LLM-based classifier.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Classifier{
		client:    client,
		cache:     newSuggestionCache(cfg.CacheTTL),
		logger:    logger,
		retryOpts: retryOpts,
		timeout:   timeout,
	}, nil
}

// SuggestCategories classifies a bounded batch of transactions against the
// candidate category list. The returned slice has one suggestion per
// transaction, in order. An error means the whole batch is unresolved.
func (c *Classifier) SuggestCategories(ctx context.Context, txns []model.Transaction, categories []model.Category) ([]service.Suggestion, error) {
	if len(txns) == 0 {
		return nil, common.ErrNoTransactions
	}

	out := make([]service.Suggestion, len(txns))

	// Serve cache hits first so a re-import only pays for new descriptions.
	var missIdx []int
	var misses []model.Transaction
	for i, txn := range txns {
		if suggestion, found := c.cache.get(txn.Description); found {
			out[i] = suggestion
			continue
		}
		missIdx = append(missIdx, i)
		misses = append(misses, txn)
	}

	if len(misses) == 0 {
		c.logger.Debug("batch served entirely from cache", "count", len(txns))
		return out, nil
	}

	prompt := buildBatchPrompt(misses, categories)

	var content string
	err := common.WithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var callErr error
		content, callErr = c.client.Complete(callCtx, prompt)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	suggestions, err := parseBatchResponse(content, len(misses))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	for j, idx := range missIdx {
		out[idx] = suggestions[j]
		if suggestions[j].Category != "" {
			c.cache.set(txns[idx].Description, suggestions[j])
		}
	}

	c.logger.Info("external classification batch complete",
		"count", len(txns),
		"cache_hits", len(txns)-len(misses),
		"api_items", len(misses))

	return out, nil
}

// Close releases classifier resources.
func (c *Classifier) Close() {
	c.cache.stop()
}
