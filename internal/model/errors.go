package model

import "fmt"

// ValidationError reports input text whose cleaned length is out of bounds
type ValidationError struct {
	Length int // Characters after cleaning
	Min    int
	Max    int
}

func (e *ValidationError) Error() string {
	if e.Length < e.Min {
		return fmt.Sprintf("text must be at least %d characters long (got %d)", e.Min, e.Length)
	}
	if e.Length > e.Max {
		return fmt.Sprintf("text must be at most %d characters long (got %d)", e.Max, e.Length)
	}
	return fmt.Sprintf("text length %d outside [%d, %d]", e.Length, e.Min, e.Max)
}

// ConfigurationError reports an invalid configuration value.
// Fatal at startup; at score time it means a category has no weight.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// UpstreamParseError wraps a failure of the parse provider.
// Parsing is deterministic, so the pipeline never retries it.
type UpstreamParseError struct {
	Provider string
	Err      error
}

func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("parse provider %s: %v", e.Provider, e.Err)
}

func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}
