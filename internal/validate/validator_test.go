package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/aiprobe/internal/model"
)

func TestIsValid_Bounds(t *testing.T) {
	tests := []struct {
		name string
		text string
		min  int
		max  int
		want bool
	}{
		{"below minimum", "short text", 50, 100, false},
		{"at minimum", strings.Repeat("a", 50), 50, 100, true},
		{"at maximum", strings.Repeat("a", 100), 50, 100, true},
		{"above maximum", strings.Repeat("a", 101), 50, 100, false},
		{"trimmed before counting", "   " + strings.Repeat("a", 49) + "   ", 50, 100, false},
		{"counts characters not bytes", strings.Repeat("é", 50), 50, 50, true},
		{"empty", "", 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.text, tt.min, tt.max); got != tt.want {
				t.Errorf("IsValid(%q, %d, %d) = %v, want %v", tt.text, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestValidator_Check_ReturnsValidationError(t *testing.T) {
	v := NewValidator(model.LimitsConfig{MinTextLength: 50, MaxTextLength: 100})

	err := v.Check("ten chars!", 0)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Length != 10 || verr.Min != 50 || verr.Max != 100 {
		t.Errorf("unexpected error fields: %+v", verr)
	}
	if !strings.Contains(verr.Error(), "at least 50") {
		t.Errorf("unexpected message: %s", verr.Error())
	}
}

func TestValidator_Check_MinOverride(t *testing.T) {
	v := NewValidator(model.LimitsConfig{MinTextLength: 50, MaxTextLength: 100})

	if err := v.Check("ten chars!", 5); err != nil {
		t.Errorf("expected override minimum to accept text, got %v", err)
	}
	if err := v.Check(strings.Repeat("a", 60), 80); err == nil {
		t.Error("expected override minimum to reject text")
	}
}

func TestValidator_Check_EmptyText(t *testing.T) {
	v := NewValidator(model.LimitsConfig{MinTextLength: 50, MaxTextLength: 100})

	var verr *model.ValidationError
	if err := v.Check("", 0); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty text, got %v", err)
	}
	if verr.Length != 0 {
		t.Errorf("expected length 0, got %d", verr.Length)
	}
}

func TestValidator_Check_TooLong(t *testing.T) {
	v := NewValidator(model.LimitsConfig{MinTextLength: 1, MaxTextLength: 5})

	err := v.Check("too long", 0)
	if err == nil || !strings.Contains(err.Error(), "at most 5") {
		t.Errorf("expected max length error, got %v", err)
	}
}
