// Package rules implements rule matching against transaction
// descriptions and pattern extraction for correction-driven learning.
package rules

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/duesflow/duesflow/internal/model"
)

// Matcher evaluates transaction descriptions against the active rule set.
// Matching is case-insensitive; patterns are substrings unless the rule is
// flagged as a regex.
type Matcher struct {
	compiledRegex map[int]*regexp.Regexp
	rules         []model.Rule
}

// NewMatcher creates a matcher over the given rules. Rules are ordered
// deterministically: priority descending, then pattern length descending
// (more specific wins), then rule ID ascending. Invalid regex patterns are
// skipped with a warning rather than failing the whole set.
func NewMatcher(ruleSet []model.Rule) *Matcher {
	rules := make([]model.Rule, len(ruleSet))
	copy(rules, ruleSet)

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		if len(rules[i].Pattern) != len(rules[j].Pattern) {
			return len(rules[i].Pattern) > len(rules[j].Pattern)
		}
		return rules[i].ID < rules[j].ID
	})

	m := &Matcher{
		rules:         rules,
		compiledRegex: make(map[int]*regexp.Regexp),
	}

	for _, rule := range rules {
		if rule.IsRegex && rule.Pattern != "" {
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				slog.Warn("Skipping rule with invalid regex pattern",
					"rule_id", rule.ID,
					"pattern", rule.Pattern,
					"error", err)
				continue
			}
			m.compiledRegex[rule.ID] = re
		}
	}

	return m
}

// Match returns the single best-matching active rule for a description, or
// nil when no rule matches.
func (m *Matcher) Match(description string) *model.Rule {
	for i := range m.rules {
		rule := &m.rules[i]
		if !rule.IsActive {
			continue
		}
		if m.matches(description, rule) {
			return rule
		}
	}
	return nil
}

func (m *Matcher) matches(description string, rule *model.Rule) bool {
	if rule.Pattern == "" {
		return false
	}

	if rule.IsRegex {
		re, ok := m.compiledRegex[rule.ID]
		if !ok {
			return false
		}
		return re.MatchString(description)
	}

	return strings.Contains(strings.ToLower(description), strings.ToLower(rule.Pattern))
}
