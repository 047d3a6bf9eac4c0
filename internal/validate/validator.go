package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/aiprobe/internal/model"
)

// IsValid reports whether the trimmed text length, in characters, lies
// within [minLen, maxLen].
func IsValid(text string, minLen, maxLen int) bool {
	n := Length(text)
	return minLen <= n && n <= maxLen
}

// Length counts characters after trimming surrounding whitespace
func Length(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// Validator checks cleaned input against configured length bounds
type Validator struct {
	minLen int
	maxLen int
}

// NewValidator creates a validator for the given bounds
func NewValidator(limits model.LimitsConfig) *Validator {
	return &Validator{
		minLen: limits.MinTextLength,
		maxLen: limits.MaxTextLength,
	}
}

// Check validates cleaned text. A positive minLen overrides the configured
// minimum for this call; the configured maximum always applies.
func (v *Validator) Check(text string, minLen int) error {
	lo := v.minLen
	if minLen > 0 {
		lo = minLen
	}

	if !IsValid(text, lo, v.maxLen) {
		return &model.ValidationError{
			Length: Length(text),
			Min:    lo,
			Max:    v.maxLen,
		}
	}
	return nil
}

// MinLength returns the configured minimum
func (v *Validator) MinLength() int {
	return v.minLen
}

// MaxLength returns the configured maximum
func (v *Validator) MaxLength() int {
	return v.maxLen
}
