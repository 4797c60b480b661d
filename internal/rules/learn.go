package rules

import "strings"

// Prefixes the bank prepends to descriptions that carry no information
// about the counterparty.
var noisePrefixes = []string{
	"External Deposit",
	"Descriptive Deposit",
	"Business Mobile Deposit",
	"Incoming Wire Transfer",
	"Deposit",
	"Withdrawal",
	"Payment",
	"ACH",
	"CREDIT",
	"DEBIT",
}

// maxPatternWords caps learned patterns so trailing reference numbers
// ("#2", check numbers) do not make the pattern too specific to reuse.
const maxPatternWords = 3

// ExtractPattern derives a case-insensitive substring pattern from a
// transaction description for use in a learned rule. It strips common
// noise prefixes and keeps the leading distinctive words. Returns an empty
// string when no distinctive part remains.
func ExtractPattern(description string) string {
	desc := strings.Join(strings.Fields(description), " ")

	remaining := desc
	for _, prefix := range noisePrefixes {
		if len(remaining) >= len(prefix) && strings.EqualFold(remaining[:len(prefix)], prefix) {
			remaining = strings.TrimSpace(remaining[len(prefix):])
			remaining = strings.TrimSpace(strings.TrimLeft(remaining, "-"))
		}
	}

	words := strings.Fields(remaining)
	if len(words) > maxPatternWords {
		words = words[:maxPatternWords]
	}

	pattern := strings.Join(words, " ")
	if len(pattern) < 3 {
		return ""
	}
	return pattern
}
