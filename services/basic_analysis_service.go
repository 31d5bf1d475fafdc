package services

import (
	"fmt"
	"strings"

	"stockinsight/types"
	"stockinsight/utils/helpers"
)

// SourceBasic tags results produced by the rule-based fallback.
const SourceBasic = "basic"

const maxInsights = 6

// Canonical classification thresholds. The prompt builder and this
// analyzer both read these; no second table exists anywhere.
const (
	peUndervaluedBelow = 15.0
	pePremiumAbove     = 30.0

	roeExcellentAbove = 15.0
	roeWeakBelow      = 10.0

	deConservativeBelow = 0.3
	deHighAbove         = 1.0

	growthStrongAbove = 15.0

	nearHighWithin     = -10.0
	deepDiscountBeyond = -30.0

	yieldAttractiveAbove = 3.0
)

// BasicAnalysis produces the deterministic rule-based report. It never
// fails and never returns empty insights or an empty summary, whatever
// shape the inputs are in. Insight order is fixed by metric category
// (valuation, profitability, leverage, growth, momentum, income), not
// by magnitude.
func BasicAnalysis(raw *types.RawFinancials, derived *types.DerivedMetrics) *types.AnalysisResult {
	if raw == nil {
		raw = &types.RawFinancials{CompanyName: "the company", Sector: "N/A"}
	}
	if derived == nil {
		derived = &types.DerivedMetrics{}
	}

	classified := ClassifyMetrics(raw, derived)

	insights := make([]string, 0, len(classified))
	for _, c := range classified {
		insights = append(insights, c.Text)
	}

	if len(insights) == 0 {
		insights = placeholderInsights(raw)
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	return &types.AnalysisResult{
		Insights: insights,
		Summary:  buildSummary(raw.CompanyName, insights),
		Source:   SourceBasic,
	}
}

// ClassifyMetrics applies the three-way threshold tables to whichever
// metrics are present and returns one templated insight per metric, in
// the fixed category order.
func ClassifyMetrics(raw *types.RawFinancials, derived *types.DerivedMetrics) []types.ClassifiedInsight {
	var out []types.ClassifiedInsight

	if pe := raw.PERatio; pe != nil {
		switch {
		case *pe < peUndervaluedBelow:
			out = append(out, types.ClassifiedInsight{Metric: "P/E", Bucket: "undervalued",
				Text: fmt.Sprintf("Stock appears undervalued with P/E ratio of %.1f, below market average", *pe)})
		case *pe > pePremiumAbove:
			out = append(out, types.ClassifiedInsight{Metric: "P/E", Bucket: "premium",
				Text: fmt.Sprintf("Stock trades at premium valuation with P/E ratio of %.1f", *pe)})
		default:
			out = append(out, types.ClassifiedInsight{Metric: "P/E", Bucket: "reasonable",
				Text: fmt.Sprintf("Stock shows reasonable valuation with P/E ratio of %.1f", *pe)})
		}
	}

	if roe := derived.ROE; roe != nil {
		switch {
		case *roe > roeExcellentAbove:
			out = append(out, types.ClassifiedInsight{Metric: "ROE", Bucket: "excellent",
				Text: fmt.Sprintf("Excellent Return on Equity of %.1f%% demonstrates strong profitability", *roe)})
		case *roe < roeWeakBelow:
			out = append(out, types.ClassifiedInsight{Metric: "ROE", Bucket: "weak",
				Text: fmt.Sprintf("ROE of %.1f%% suggests room for improvement in profitability", *roe)})
		default:
			out = append(out, types.ClassifiedInsight{Metric: "ROE", Bucket: "moderate",
				Text: fmt.Sprintf("Moderate ROE of %.1f%% indicates stable returns", *roe)})
		}
	}

	if de := derived.DebtToEquity; de != nil {
		switch {
		case *de < deConservativeBelow:
			out = append(out, types.ClassifiedInsight{Metric: "D/E", Bucket: "conservative",
				Text: fmt.Sprintf("Conservative debt management with D/E ratio of %.2f", *de)})
		case *de > deHighAbove:
			out = append(out, types.ClassifiedInsight{Metric: "D/E", Bucket: "high-leverage",
				Text: fmt.Sprintf("High leverage with D/E ratio of %.2f requires monitoring", *de)})
		default:
			out = append(out, types.ClassifiedInsight{Metric: "D/E", Bucket: "balanced",
				Text: fmt.Sprintf("Balanced capital structure with D/E ratio of %.2f", *de)})
		}
	}

	if growth := derived.RevenueGrowth; growth != nil {
		switch {
		case *growth > growthStrongAbove:
			out = append(out, types.ClassifiedInsight{Metric: "RevenueGrowth", Bucket: "strong",
				Text: fmt.Sprintf("Strong revenue growth of %.1f%% indicates business expansion", *growth)})
		case *growth < 0:
			out = append(out, types.ClassifiedInsight{Metric: "RevenueGrowth", Bucket: "negative",
				Text: fmt.Sprintf("Negative revenue growth of %.1f%% shows business challenges", *growth)})
		default:
			out = append(out, types.ClassifiedInsight{Metric: "RevenueGrowth", Bucket: "moderate",
				Text: fmt.Sprintf("Moderate revenue growth of %.1f%% suggests steady business", *growth)})
		}
	}

	if perf := derived.PerfVs52WeekHigh; perf != nil {
		switch {
		case *perf > nearHighWithin:
			out = append(out, types.ClassifiedInsight{Metric: "52WHigh", Bucket: "near-high",
				Text: "Trading near 52-week high suggests strong market sentiment"})
		case *perf < deepDiscountBeyond:
			out = append(out, types.ClassifiedInsight{Metric: "52WHigh", Bucket: "deep-discount",
				Text: "Trading significantly below 52-week high may present opportunity"})
		}
	}

	if yield := derived.DividendYield; yield != nil && *yield > 0 {
		if *yield > yieldAttractiveAbove {
			out = append(out, types.ClassifiedInsight{Metric: "DividendYield", Bucket: "attractive",
				Text: fmt.Sprintf("Attractive dividend yield of %.1f%% provides steady income", *yield)})
		} else {
			out = append(out, types.ClassifiedInsight{Metric: "DividendYield", Bucket: "modest",
				Text: fmt.Sprintf("Dividend yield of %.1f%% offers modest income", *yield)})
		}
	}

	return out
}

// placeholderInsights keeps the insight list non-empty when every
// metric was missing.
func placeholderInsights(raw *types.RawFinancials) []string {
	name := raw.CompanyName
	if name == "" {
		name = "the company"
	}
	insights := []string{
		fmt.Sprintf("Currently analyzing %s financial data", name),
	}
	if raw.CurrentPrice != nil {
		insights = append(insights, fmt.Sprintf("Stock trading at %s", helpers.SafeFormat(raw.CurrentPrice, helpers.FormatPrice)))
	}
	sector := raw.Sector
	if sector == "" {
		sector = "Information not available"
	}
	insights = append(insights,
		fmt.Sprintf("Sector: %s", sector),
		"Comprehensive analysis requires additional data points",
	)
	return insights
}

func buildSummary(companyName string, insights []string) string {
	if companyName == "" {
		companyName = "the company"
	}
	if len(insights) < 3 {
		return fmt.Sprintf("Limited data available for %s. Additional research recommended for investment decisions.", companyName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on available metrics, %s shows mixed fundamentals. ", companyName)
	if containsAny(insights, "strong", "excellent", "attractive") {
		b.WriteString("Several positive indicators suggest potential investment merit. ")
	}
	if containsAny(insights, "concern", "negative", "challenges", "requires monitoring") {
		b.WriteString("Some areas require careful monitoring before investment decisions. ")
	}
	b.WriteString("Comprehensive analysis recommended with additional research.")
	return b.String()
}

func containsAny(insights []string, keywords ...string) bool {
	for _, insight := range insights {
		lower := strings.ToLower(insight)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
