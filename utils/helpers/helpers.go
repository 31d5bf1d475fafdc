package helpers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Format tags for SafeFormat. Each tag has an explicit
// numeric-parse-or-"N/A" contract: a nil or unparsable value always
// renders as the literal "N/A", never as an error.
type Format int

const (
	FormatRatio Format = iota
	FormatPrice
	FormatPercent
	FormatCurrency
)

// SafeFormat renders an optional numeric value for prompts and reports.
func SafeFormat(value *float64, format Format) string {
	if value == nil {
		return "N/A"
	}
	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	switch format {
	case FormatPrice:
		return fmt.Sprintf("₹%.2f", v)
	case FormatPercent:
		return fmt.Sprintf("%.2f%%", v)
	case FormatCurrency:
		return FormatCurrencyValue(v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatCurrencyValue renders an INR amount with Indian scale units.
func FormatCurrencyValue(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "N/A"
	}
	if amount < 0 {
		return "-" + FormatCurrencyValue(-amount)
	}
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.2f L", amount/1e5)
	case amount >= 1e3:
		return fmt.Sprintf("₹%.2f K", amount/1e3)
	case amount >= 1:
		return fmt.Sprintf("₹%.2f", amount)
	default:
		return fmt.Sprintf("₹%.4f", amount)
	}
}

// ParseFloat converts a scraped or upstream string value to a float.
// Commas are stripped and a trailing %% is parsed as a percentage
// number (not divided down). Returns nil when the value is not numeric.
func ParseFloat(value string) *float64 {
	cleanStr := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if cleanStr == "" || cleanStr == "N/A" || cleanStr == "-" {
		return nil
	}
	cleanStr = strings.TrimSuffix(cleanStr, "%")
	f, err := strconv.ParseFloat(cleanStr, 64)
	if err != nil {
		zap.L().Debug("value is not numeric", zap.String("value", value))
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Float64Ptr returns a pointer to v. Used when building fixtures and
// estimate fallbacks.
func Float64Ptr(v float64) *float64 {
	return &v
}

// SafeDivide returns a/b, or nil when either input is missing or the
// denominator is zero. Never produces NaN or Inf.
func SafeDivide(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	r := *a / *b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

// FracToPercent converts an upstream fraction (0.18) to a percentage
// (18.0). Returns nil for missing input.
func FracToPercent(frac *float64) *float64 {
	if frac == nil {
		return nil
	}
	p := *frac * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	return &p
}

// GetMarketCapCategory buckets a market cap (in crore) the way Indian
// brokers do.
func GetMarketCapCategory(marketCapCrore float64) string {
	if marketCapCrore >= 20000 {
		return "Large Cap"
	} else if marketCapCrore >= 5000 {
		return "Mid Cap"
	} else if marketCapCrore > 0 {
		return "Small Cap"
	}
	return "Unknown Category"
}

// NormalizeString lowercases and trims for header matching.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation of values. Fewer than
// two samples yields 0.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
