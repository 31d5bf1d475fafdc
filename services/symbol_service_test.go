package services

import (
	"errors"
	"testing"
)

func TestResolveSymbol_AnalyzePrefix(t *testing.T) {
	result, err := ResolveSymbol("Analyze TCS")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "TCS.NS" {
		t.Errorf("Expected TCS.NS, got %s", result)
	}
}

func TestResolveSymbol_AnalyzeStockColon(t *testing.T) {
	result, err := ResolveSymbol("analyze stock: INFY")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "INFY.NS" {
		t.Errorf("Expected INFY.NS, got %s", result)
	}
}

func TestResolveSymbol_Alias(t *testing.T) {
	result, err := ResolveSymbol("INFOSYS")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "INFY.NS" {
		t.Errorf("Expected INFY.NS for alias INFOSYS, got %s", result)
	}
}

func TestResolveSymbol_SuffixedSymbolPassesThrough(t *testing.T) {
	result, err := ResolveSymbol("tcs.ns")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "TCS.NS" {
		t.Errorf("Expected TCS.NS, got %s", result)
	}
}

func TestResolveSymbol_UnknownTokenGetsNSESuffix(t *testing.T) {
	result, err := ResolveSymbol("ZOMATO stock")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != "ZOMATO.NS" {
		t.Errorf("Expected ZOMATO.NS, got %s", result)
	}
}

func TestResolveSymbol_Empty(t *testing.T) {
	_, err := ResolveSymbol("")
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("Expected ErrInvalidSymbol, got %v", err)
	}
}

func TestResolveSymbol_Numeric(t *testing.T) {
	_, err := ResolveSymbol("12345")
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("Expected ErrInvalidSymbol for numeric input, got %v", err)
	}
}

func TestResolveSymbol_WholeInputFallback(t *testing.T) {
	result, err := ResolveSymbol("hdfc bank")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// "hdfc bank" matches the "<token> <word>" patterns only for
	// "stock"/"analysis" suffixes, so the space-stripped whole input
	// is used.
	if result != "HDFCBANK.NS" {
		t.Errorf("Expected HDFCBANK.NS, got %s", result)
	}
}

func TestAlternateExchange(t *testing.T) {
	if got := AlternateExchange("TCS.NS"); got != "TCS.BO" {
		t.Errorf("Expected TCS.BO, got %s", got)
	}
	if got := AlternateExchange("TCS.BO"); got != "TCS.NS" {
		t.Errorf("Expected TCS.NS, got %s", got)
	}
	if got := AlternateExchange("TCS"); got != "TCS" {
		t.Errorf("Expected TCS unchanged, got %s", got)
	}
}
