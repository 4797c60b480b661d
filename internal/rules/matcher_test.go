package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duesflow/duesflow/internal/model"
)

func TestMatcherSubstring(t *testing.T) {
	matcher := NewMatcher([]model.Rule{
		{ID: 1, Pattern: "ACME WATER", Category: "Water & Sewer", Priority: 100, Confidence: 95, IsActive: true},
	})

	tests := []struct {
		name         string
		description  string
		wantCategory string
	}{
		{
			name:         "exact match",
			description:  "ACME WATER",
			wantCategory: "Water & Sewer",
		},
		{
			name:         "substring with trailing reference",
			description:  "ACME WATER CO #2",
			wantCategory: "Water & Sewer",
		},
		{
			name:         "case insensitive",
			description:  "payment to acme water co",
			wantCategory: "Water & Sewer",
		},
		{
			name:        "no match",
			description: "GENERIC PLUMBING LLC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := matcher.Match(tt.description)
			if tt.wantCategory == "" {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantCategory, rule.Category)
		})
	}
}

func TestMatcherOrdering(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantRuleID  int
		rules       []model.Rule
	}{
		{
			name: "higher priority wins",
			rules: []model.Rule{
				{ID: 1, Pattern: "WATER", Category: "Water & Sewer", Priority: 50, IsActive: true},
				{ID: 2, Pattern: "WATER", Category: "Utilities", Priority: 100, IsActive: true},
			},
			description: "CITY WATER BILL",
			wantRuleID:  2,
		},
		{
			name: "longer pattern wins at equal priority",
			rules: []model.Rule{
				{ID: 1, Pattern: "WATER", Category: "Utilities", Priority: 50, IsActive: true},
				{ID: 2, Pattern: "ACME WATER", Category: "Water & Sewer", Priority: 50, IsActive: true},
			},
			description: "ACME WATER CO",
			wantRuleID:  2,
		},
		{
			name: "lower ID wins on full tie",
			rules: []model.Rule{
				{ID: 7, Pattern: "WATER", Category: "Utilities", Priority: 50, IsActive: true},
				{ID: 3, Pattern: "SEWER", Category: "Water & Sewer", Priority: 50, IsActive: true},
			},
			description: "WATER SEWER COMBINED",
			wantRuleID:  3,
		},
		{
			name: "inactive rules never match",
			rules: []model.Rule{
				{ID: 1, Pattern: "WATER", Category: "Utilities", Priority: 100, IsActive: false},
				{ID: 2, Pattern: "WATER", Category: "Water & Sewer", Priority: 50, IsActive: true},
			},
			description: "CITY WATER",
			wantRuleID:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := NewMatcher(tt.rules)
			rule := matcher.Match(tt.description)
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantRuleID, rule.ID)
		})
	}
}

func TestMatcherDeterministic(t *testing.T) {
	rules := []model.Rule{
		{ID: 2, Pattern: "DUES", Category: "Dues Unit 2", Priority: 50, IsActive: true},
		{ID: 1, Pattern: "DUES", Category: "Dues Unit 1", Priority: 50, IsActive: true},
	}

	first := NewMatcher(rules).Match("MONTHLY DUES")
	require.NotNil(t, first)

	// Same input, same rule set, same winner on every construction.
	for i := 0; i < 10; i++ {
		rule := NewMatcher(rules).Match("MONTHLY DUES")
		require.NotNil(t, rule)
		assert.Equal(t, first.ID, rule.ID)
	}
}

func TestMatcherRegex(t *testing.T) {
	matcher := NewMatcher([]model.Rule{
		{ID: 1, Pattern: `CHECK\s+\d+`, Category: "Checks", Priority: 50, IsRegex: true, IsActive: true},
		{ID: 2, Pattern: `[invalid`, Category: "Broken", Priority: 100, IsRegex: true, IsActive: true},
	})

	rule := matcher.Match("check 1042 cleared")
	require.NotNil(t, rule, "valid regex should match despite higher-priority invalid one")
	assert.Equal(t, "Checks", rule.Category)

	assert.Nil(t, matcher.Match("no checks here"))
}

func TestMatcherEmptyPattern(t *testing.T) {
	matcher := NewMatcher([]model.Rule{
		{ID: 1, Pattern: "", Category: "Everything", Priority: 100, IsActive: true},
	})

	assert.Nil(t, matcher.Match("anything at all"))
}
