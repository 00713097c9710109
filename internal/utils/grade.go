package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidGrade reports whether v is within [MinGrade, MaxGrade]
func ValidGrade(v float64) bool {
	return v >= MinGrade && v <= MaxGrade
}

// FormatGrade renders a grade with a comma decimal separator, rounding half
// away from zero. decimals is clamped to [0, MaxDecimals].
func FormatGrade(v float64, decimals int) string {
	decimals = max(0, min(decimals, MaxDecimals))
	s := decimal.NewFromFloat(v).StringFixed(int32(decimals))
	return strings.Replace(s, ".", ",", 1)
}

// ParseGrade parses a grade written with either a comma or a period as the
// decimal separator.
func ParseGrade(s string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("failed to parse grade %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
