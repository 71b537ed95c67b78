package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urlkit/urlkit/internal/validate"
	"go.uber.org/zap"
)

func TestValidateExpiryDays_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"int", 7, 7},
		{"int64", int64(30), 30},
		{"whole float", float64(10), 10},
		{"numeric string", "10", 10},
		{"padded string", " 90 ", 90},
		{"min", 1, 1},
		{"max", 3650, 3650},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, res := validate.ValidateExpiryDays(tt.input)
			assert.True(t, res.Valid, res.Message)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestValidateExpiryDays_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		message string
	}{
		{"nil", nil, "required"},
		{"non-numeric string", "abc", "Invalid expiration days format"},
		{"decimal", 2.5, "whole number"},
		{"decimal string", "1.5", "whole number"},
		{"zero", 0, "between 1 and 3650"},
		{"negative", -1, "between 1 and 3650"},
		{"too large", 3651, "between 1 and 3650"},
		{"bool", true, "Invalid expiration days format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := validate.ValidateExpiryDays(tt.input)
			assert.False(t, res.Valid)
			assert.Contains(t, res.Message, tt.message)
		})
	}
}

// Normalization never fails the caller: anything invalid becomes the
// default period.
func TestNormalizeExpiryDays(t *testing.T) {
	logger := zap.NewNop()

	invalid := []any{nil, "abc", -1, 0, 3651, 2.5, true, ""}
	for _, input := range invalid {
		assert.Equal(t, validate.DefaultExpiryDays,
			validate.NormalizeExpiryDays(input, logger), "input: %v", input)
	}

	assert.Equal(t, 30, validate.NormalizeExpiryDays(30, logger))
	assert.Equal(t, 10, validate.NormalizeExpiryDays("10", logger))
	assert.Equal(t, 7, validate.NormalizeExpiryDays(float64(7), nil))
}
