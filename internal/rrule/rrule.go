// Package rrule wraps the recurrence-rule engine. The pipeline never expands
// occurrences; it only needs rule strings validated and re-serialized into a
// canonical form so that equivalent source spellings produce identical output.
package rrule

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

// Normalize parses an RFC 5545 RRULE string and returns its canonical
// serialization. The "RRULE:" prefix is accepted and stripped.
func Normalize(ruleStr string) (string, error) {
	ruleStr = strings.TrimSpace(strings.TrimPrefix(ruleStr, "RRULE:"))
	if ruleStr == "" {
		return "", fmt.Errorf("empty RRULE")
	}

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse RRULE: %w", err)
	}

	// NewRRule validates option combinations StrToROption alone does not.
	if _, err := rrule.NewRRule(*opt); err != nil {
		return "", fmt.Errorf("invalid RRULE: %w", err)
	}

	return opt.RRuleString(), nil
}
