package services

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSymbol is returned when a query cannot be resolved to a
// plausible ticker. It is the only resolver failure mode.
var ErrInvalidSymbol = errors.New("could not resolve a stock symbol from the query")

// Ordered extraction patterns. The first match wins.
var symbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)analyze\s+stock:\s*([A-Za-z]+)`),
	regexp.MustCompile(`(?i)analyze\s+([A-Za-z]+)`),
	regexp.MustCompile(`(?i)stock:\s*([A-Za-z]+)`),
	regexp.MustCompile(`(?i)^([A-Za-z]+)$`),
	regexp.MustCompile(`(?i)([A-Za-z]+)\s+stock`),
	regexp.MustCompile(`(?i)([A-Za-z]+)\s+analysis`),
}

// Company name and common ticker aliases mapped to NSE symbols.
var symbolAliases = map[string]string{
	"TCS":        "TCS.NS",
	"INFY":       "INFY.NS",
	"INFOSYS":    "INFY.NS",
	"RELIANCE":   "RELIANCE.NS",
	"HDFCBANK":   "HDFCBANK.NS",
	"HDFC":       "HDFCBANK.NS",
	"ITC":        "ITC.NS",
	"SBIN":       "SBIN.NS",
	"SBI":        "SBIN.NS",
	"BHARTIARTL": "BHARTIARTL.NS",
	"AIRTEL":     "BHARTIARTL.NS",
	"ICICIBANK":  "ICICIBANK.NS",
	"ICICI":      "ICICIBANK.NS",
	"LT":         "LT.NS",
	"LARSEN":     "LT.NS",
	"HCLTECH":    "HCLTECH.NS",
	"HCL":        "HCLTECH.NS",
	"WIPRO":      "WIPRO.NS",
	"ONGC":       "ONGC.NS",
	"NTPC":       "NTPC.NS",
	"POWERGRID":  "POWERGRID.NS",
	"COALINDIA":  "COALINDIA.NS",
	"MARUTI":     "MARUTI.NS",
	"BAJFINANCE": "BAJFINANCE.NS",
	"BAJAJ":      "BAJFINANCE.NS",
	"SUNPHARMA":  "SUNPHARMA.NS",
	"DRREDDY":    "DRREDDY.NS",
	"NESTLEIND":  "NESTLEIND.NS",
	"NESTLE":     "NESTLEIND.NS",
	"HINDUNILVR": "HINDUNILVR.NS",
	"ULTRACEMCO": "ULTRACEMCO.NS",
	"ADANIPORTS": "ADANIPORTS.NS",
	"ADANI":      "ADANIPORTS.NS",
}

// ResolveSymbol extracts a ticker from free text and qualifies it with
// an exchange suffix. Tokens already carrying .NS or .BO pass through.
func ResolveSymbol(query string) (string, error) {
	token := extractToken(query)
	if token == "" {
		return "", ErrInvalidSymbol
	}
	return qualifySymbol(token), nil
}

func extractToken(query string) string {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return ""
	}

	upper := strings.ToUpper(cleaned)
	if strings.HasSuffix(upper, ".NS") || strings.HasSuffix(upper, ".BO") {
		base := upper[:len(upper)-3]
		if isAlphabetic(base) {
			return upper
		}
	}

	for _, pattern := range symbolPatterns {
		match := pattern.FindStringSubmatch(cleaned)
		if match == nil {
			continue
		}
		token := strings.ToUpper(strings.TrimSpace(match[1]))
		if len(token) >= 2 && isAlphabetic(token) {
			return token
		}
	}

	// Last resort: the whole input, space-stripped, might itself be a
	// symbol.
	compact := strings.ReplaceAll(cleaned, " ", "")
	if isAlphabetic(compact) && len(compact) <= 10 {
		return strings.ToUpper(compact)
	}

	return ""
}

func qualifySymbol(token string) string {
	if strings.HasSuffix(token, ".NS") || strings.HasSuffix(token, ".BO") {
		return token
	}
	if qualified, ok := symbolAliases[token]; ok {
		return qualified
	}
	// NSE first; the fetcher retries .BO on its own.
	return token + ".NS"
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// AlternateExchange flips an NSE symbol to BSE and vice versa.
func AlternateExchange(symbol string) string {
	if strings.HasSuffix(symbol, ".NS") {
		return strings.TrimSuffix(symbol, ".NS") + ".BO"
	}
	if strings.HasSuffix(symbol, ".BO") {
		return strings.TrimSuffix(symbol, ".BO") + ".NS"
	}
	return symbol
}
