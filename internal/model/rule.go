package model

import "time"

// RuleSource indicates how a classification rule was created.
type RuleSource string

const (
	// RuleSourceManual indicates a rule created by an administrator.
	RuleSourceManual RuleSource = "MANUAL"
	// RuleSourceLearned indicates a rule synthesized from a correction.
	RuleSourceLearned RuleSource = "LEARNED"
)

// Rule maps a description pattern to a category with a confidence score.
// Rules are never deleted, only deactivated.
type Rule struct {
	CreatedAt  time.Time
	Pattern    string
	Category   string
	Source     RuleSource
	ID         int
	Confidence int // 0-100
	Priority   int // higher wins
	IsRegex    bool
	IsActive   bool
}
