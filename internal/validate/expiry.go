package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	MinExpiryDays     = 1
	MaxExpiryDays     = 3650 // 10 years
	DefaultExpiryDays = 365  // 1 year
)

// ValidateExpiryDays is the strict entry point: it coerces the raw
// input to a whole number of days and fails with a specific message
// when it cannot. The returned int is meaningful only when the result
// is valid.
func ValidateExpiryDays(days any) (int, Result) {
	if days == nil {
		return 0, formatFailure("Expiration days are required")
	}

	f, err := coerceFloat(days)
	if err != nil {
		return 0, formatFailure("Invalid expiration days format")
	}

	if f != math.Trunc(f) {
		return 0, formatFailure("Expiration days must be a whole number")
	}

	n := int(f)
	if n < MinExpiryDays || n > MaxExpiryDays {
		return 0, formatFailure(fmt.Sprintf(
			"Expiration must be between %d and %d days", MinExpiryDays, MaxExpiryDays))
	}

	return n, ok()
}

// NormalizeExpiryDays wraps the strict validator with the default
// substitution policy: malformed or missing input never blocks a
// create, it logs the reason and falls back to DefaultExpiryDays.
func NormalizeExpiryDays(days any, logger *zap.Logger) int {
	n, res := ValidateExpiryDays(days)
	if !res.Valid {
		if logger != nil {
			logger.Info("using default expiry days",
				zap.Int("default", DefaultExpiryDays),
				zap.String("reason", res.Message),
			)
		}
		return DefaultExpiryDays
	}
	return n
}

func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported expiry days type %T", v)
	}
}
