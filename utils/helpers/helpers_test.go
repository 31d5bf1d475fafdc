package helpers

import (
	"math"
	"testing"
)

func TestSafeFormat_NilValue(t *testing.T) {
	for _, format := range []Format{FormatRatio, FormatPrice, FormatPercent, FormatCurrency} {
		result := SafeFormat(nil, format)
		if result != "N/A" {
			t.Errorf("Expected N/A for nil value, got %s", result)
		}
	}
}

func TestSafeFormat_Price(t *testing.T) {
	result := SafeFormat(Float64Ptr(3521.5), FormatPrice)
	if result != "₹3521.50" {
		t.Errorf("Expected ₹3521.50, got %s", result)
	}
}

func TestSafeFormat_Percent(t *testing.T) {
	result := SafeFormat(Float64Ptr(18.256), FormatPercent)
	if result != "18.26%" {
		t.Errorf("Expected 18.26%%, got %s", result)
	}
}

func TestSafeFormat_Ratio(t *testing.T) {
	result := SafeFormat(Float64Ptr(1.234), FormatRatio)
	if result != "1.23" {
		t.Errorf("Expected 1.23, got %s", result)
	}
}

func TestSafeFormat_NonFinite(t *testing.T) {
	result := SafeFormat(Float64Ptr(math.Inf(1)), FormatRatio)
	if result != "N/A" {
		t.Errorf("Expected N/A for Inf, got %s", result)
	}
}

func TestFormatCurrencyValue_Crore(t *testing.T) {
	result := FormatCurrencyValue(125000000)
	if result != "₹12.50 Cr" {
		t.Errorf("Expected ₹12.50 Cr, got %s", result)
	}
}

func TestFormatCurrencyValue_Negative(t *testing.T) {
	result := FormatCurrencyValue(-1500)
	if result != "-₹1.50 K" {
		t.Errorf("Expected -₹1.50 K, got %s", result)
	}
}

func TestParseFloat_WithCommas(t *testing.T) {
	result := ParseFloat("1,234.56")
	if result == nil || *result != 1234.56 {
		t.Errorf("Expected 1234.56, got %v", result)
	}
}

func TestParseFloat_Percentage(t *testing.T) {
	result := ParseFloat("45.2%")
	if result == nil || *result != 45.2 {
		t.Errorf("Expected 45.2, got %v", result)
	}
}

func TestParseFloat_NonNumeric(t *testing.T) {
	for _, input := range []string{"", "N/A", "-", "abc"} {
		if result := ParseFloat(input); result != nil {
			t.Errorf("Expected nil for %q, got %v", input, *result)
		}
	}
}

func TestSafeDivide_ZeroDenominator(t *testing.T) {
	if result := SafeDivide(Float64Ptr(10), Float64Ptr(0)); result != nil {
		t.Errorf("Expected nil for zero denominator, got %v", *result)
	}
}

func TestSafeDivide_NilInputs(t *testing.T) {
	if result := SafeDivide(nil, Float64Ptr(2)); result != nil {
		t.Errorf("Expected nil for nil numerator, got %v", *result)
	}
	if result := SafeDivide(Float64Ptr(2), nil); result != nil {
		t.Errorf("Expected nil for nil denominator, got %v", *result)
	}
}

func TestFracToPercent(t *testing.T) {
	result := FracToPercent(Float64Ptr(0.185))
	if result == nil || math.Abs(*result-18.5) > 1e-9 {
		t.Errorf("Expected 18.5, got %v", result)
	}
	if FracToPercent(nil) != nil {
		t.Errorf("Expected nil for nil input")
	}
}

func TestGetMarketCapCategory(t *testing.T) {
	if got := GetMarketCapCategory(25000); got != "Large Cap" {
		t.Errorf("Expected Large Cap, got %s", got)
	}
	if got := GetMarketCapCategory(10000); got != "Mid Cap" {
		t.Errorf("Expected Mid Cap, got %s", got)
	}
	if got := GetMarketCapCategory(1000); got != "Small Cap" {
		t.Errorf("Expected Small Cap, got %s", got)
	}
	if got := GetMarketCapCategory(0); got != "Unknown Category" {
		t.Errorf("Expected Unknown Category, got %s", got)
	}
}

func TestStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(values)
	if math.Abs(got-2.13809) > 0.001 {
		t.Errorf("Expected ~2.138, got %f", got)
	}
	if StdDev([]float64{1}) != 0 {
		t.Errorf("Expected 0 for single sample")
	}
}
