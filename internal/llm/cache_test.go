package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/duesflow/duesflow/internal/service"
)

func TestSuggestionCache(t *testing.T) {
	cache := newSuggestionCache(time.Hour)
	defer cache.stop()

	_, found := cache.get("ACME WATER CO")
	assert.False(t, found)

	suggestion := service.Suggestion{Category: "Water & Sewer", Confidence: 92}
	cache.set("ACME WATER CO", suggestion)

	got, found := cache.get("ACME WATER CO")
	assert.True(t, found)
	assert.Equal(t, suggestion, got)
}

// Keys normalize case and whitespace so trivially different descriptions
// share one entry.
func TestSuggestionCacheKeyNormalization(t *testing.T) {
	cache := newSuggestionCache(time.Hour)
	defer cache.stop()

	cache.set("ACME   WATER Co", service.Suggestion{Category: "Water & Sewer", Confidence: 92})

	got, found := cache.get("acme water co")
	assert.True(t, found)
	assert.Equal(t, "Water & Sewer", got.Category)
}

func TestSuggestionCacheExpiry(t *testing.T) {
	cache := newSuggestionCache(time.Nanosecond)
	defer cache.stop()

	cache.set("ACME WATER CO", service.Suggestion{Category: "Water & Sewer", Confidence: 92})
	time.Sleep(time.Millisecond)

	_, found := cache.get("ACME WATER CO")
	assert.False(t, found)
}
