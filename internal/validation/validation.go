// Package validation checks request payloads before any write. Validators record
// problems into a Violations map keyed by field path.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, problem string) {
	if _, exists := v[field]; !exists {
		v[field] = problem
	}
}

// Err returns nil when nothing was recorded.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &apperr.ValidationError{Message: "validation failed", Fields: map[string]string(v)}
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

// Length checks the rune count of value against [minLen, maxLen].
func Length(field, value string, minLen, maxLen int, v Violations) {
	n := utf8.RuneCountInString(value)
	switch {
	case minLen > 0 && strings.TrimSpace(value) == "":
		v.Add(field, "is required")
	case n < minLen:
		v.Add(field, fmt.Sprintf("must be at least %d characters", minLen))
	case maxLen > 0 && n > maxLen:
		v.Add(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
}

func MaxLength(field, value string, maxLen int, v Violations) {
	if utf8.RuneCountInString(value) > maxLen {
		v.Add(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
}

func NonNegative(field string, val int, v Violations) {
	if val < 0 {
		v.Add(field, "must be zero or greater")
	}
}

func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, fmt.Sprintf("must be between %d and %d", minVal, maxVal))
	}
}

func Email(field, value string, v Violations) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, "must be a valid email address")
	}
}

const MinPasswordLength = 8

func Password(field, value string, v Violations) {
	if utf8.RuneCountInString(value) < MinPasswordLength {
		v.Add(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
}
