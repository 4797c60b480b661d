package model

import "time"

// ClassificationStatus indicates how a transaction was categorized.
type ClassificationStatus string

// Classification status constants.
const (
	StatusUnclassified         ClassificationStatus = "UNCLASSIFIED"
	StatusSourceProvided       ClassificationStatus = "SOURCE_PROVIDED"
	StatusClassifiedByRule     ClassificationStatus = "CLASSIFIED_BY_RULE"
	StatusClassifiedByExternal ClassificationStatus = "CLASSIFIED_BY_EXTERNAL"
	StatusFlaggedForReview     ClassificationStatus = "FLAGGED_FOR_REVIEW"
	StatusUserModified         ClassificationStatus = "USER_MODIFIED"
)

// Classification represents a transaction after the pipeline has run.
// When NeedsReview is set, Category is empty and Suggestion carries the
// best available guess.
type Classification struct {
	ClassifiedAt time.Time
	Category     string
	Suggestion   string
	Status       ClassificationStatus
	Transaction  Transaction
	Confidence   int
	NeedsReview  bool
}
