package llm

import (
	"fmt"
	"strings"

	"github.com/duesflow/duesflow/internal/model"
)

// buildBatchPrompt renders the candidate category list and the batch of
// transactions into a single classification prompt.
func buildBatchPrompt(txns []model.Transaction, categories []model.Category) string {
	var categoryList strings.Builder
	for _, cat := range categories {
		if !cat.IsActive {
			continue
		}
		fmt.Fprintf(&categoryList, "- %s (%s)\n", cat.Name, cat.Kind)
	}

	var txnList strings.Builder
	for i, txn := range txns {
		fmt.Fprintf(&txnList, "%d. Account: %s, Description: %s\n", i+1, txn.AccountName, txn.Description)
	}

	return fmt.Sprintf(`You are a financial transaction categorizer for a condo association.
Given the following categories:
%s
Categorize each of these transactions. For each, provide:
1. The category name (exactly as listed above)
2. A confidence score from 0-100

Transactions to categorize:
%s
Respond in JSON format:
[
  {"index": 1, "category": "Category Name", "confidence": 85},
  ...
]

Rules:
- Dues categories are for payments from unit owners (look for names in the description)
- Transfer categories are for internal moves between accounts
- Interest income is for Dividend/Interest entries
- If truly uncertain, pick the closest category with low confidence
`, categoryList.String(), txnList.String())
}
