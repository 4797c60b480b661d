package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duesflow/duesflow/internal/model"
)

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "plain vendor name",
			description: "ACME WATER CO",
			want:        "ACME WATER CO",
		},
		{
			name:        "trailing reference trimmed by word cap",
			description: "ACME WATER CO #2",
			want:        "ACME WATER CO",
		},
		{
			name:        "noise prefix stripped",
			description: "External Deposit ACME WATER CO",
			want:        "ACME WATER CO",
		},
		{
			name:        "noise prefix with dash separator",
			description: "Descriptive Deposit - UNIT 2 DUES",
			want:        "UNIT 2 DUES",
		},
		{
			name:        "whitespace normalized",
			description: "  ACME   WATER\tCO  ",
			want:        "ACME WATER CO",
		},
		{
			name:        "too short after stripping",
			description: "Deposit",
			want:        "",
		},
		{
			name:        "empty input",
			description: "",
			want:        "",
		},
		{
			name:        "short but distinctive",
			description: "HOA",
			want:        "HOA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPattern(tt.description))
		})
	}
}

// A learned pattern must match the description it was learned from, plus
// close variants with different trailing references.
func TestExtractPatternRoundTrip(t *testing.T) {
	original := "ACME WATER CO"
	pattern := ExtractPattern(original)
	assert.NotEmpty(t, pattern)

	m := NewMatcher([]model.Rule{{ID: 1, Pattern: pattern, Category: "Water & Sewer", Priority: 50, IsActive: true}})
	assert.NotNil(t, m.Match(original))
	assert.NotNil(t, m.Match("ACME WATER CO #2"))
	assert.NotNil(t, m.Match("External Deposit ACME WATER CO 9931"))
}
