package engine

import (
	"context"

	"github.com/duesflow/duesflow/internal/model"
	"github.com/duesflow/duesflow/internal/service"
)

// Classifier is the external fallback for transactions no rule matched.
// Implementations must bound each call by a timeout; an error means the
// whole batch is unresolved and the pipeline degrades it to review.
type Classifier interface {
	SuggestCategories(ctx context.Context, txns []model.Transaction, categories []model.Category) ([]service.Suggestion, error)
}
