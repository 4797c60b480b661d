package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/duesflow/duesflow/internal/service"
)

// parseBatchResponse extracts one suggestion per transaction from the raw
// model response. Items the model skipped come back zero-valued; the
// pipeline treats those as unresolved. Indices in the response are 1-based.
func parseBatchResponse(content string, count int) ([]service.Suggestion, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var items []struct {
		Category   string `json:"category"`
		Index      int    `json:"index"`
		Confidence int    `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	out := make([]service.Suggestion, count)
	for _, item := range items {
		if item.Index < 1 || item.Index > count {
			continue
		}

		confidence := item.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}

		out[item.Index-1] = service.Suggestion{
			Category:   strings.TrimSpace(item.Category),
			Confidence: confidence,
		}
	}

	return out, nil
}
