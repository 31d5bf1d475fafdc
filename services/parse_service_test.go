package services

import (
	"strings"
	"testing"
)

func TestParseAnalysis_EmptyInput(t *testing.T) {
	result := ParseAnalysis("")
	if result == nil {
		t.Fatal("Expected a result for empty input")
	}
	if len(result.Insights) != 1 || result.Insights[0] != placeholderInsight {
		t.Errorf("Expected placeholder insight list, got %v", result.Insights)
	}
	if result.Summary != placeholderSummary {
		t.Errorf("Expected placeholder summary, got %q", result.Summary)
	}
}

func TestParseAnalysis_RoundTrip(t *testing.T) {
	text := `INSIGHTS:
• Strong revenue growth over five years
• Low debt relative to peers
• Premium valuation versus the sector

INVESTMENT_SUMMARY:
The company is fundamentally sound.
Valuation leaves little margin of safety.`

	result := ParseAnalysis(text)
	expected := []string{
		"Strong revenue growth over five years",
		"Low debt relative to peers",
		"Premium valuation versus the sector",
	}
	if len(result.Insights) != 3 {
		t.Fatalf("Expected 3 insights, got %d: %v", len(result.Insights), result.Insights)
	}
	for i, want := range expected {
		if result.Insights[i] != want {
			t.Errorf("Insight %d: expected %q, got %q", i, want, result.Insights[i])
		}
	}
	wantSummary := "The company is fundamentally sound. Valuation leaves little margin of safety."
	if result.Summary != wantSummary {
		t.Errorf("Expected summary %q, got %q", wantSummary, result.Summary)
	}
}

func TestParseAnalysis_MixedBulletMarkers(t *testing.T) {
	text := `KEY INSIGHTS
- Dash bullet
* Star bullet
1. Numbered bullet`

	result := ParseAnalysis(text)
	expected := []string{"Dash bullet", "Star bullet", "Numbered bullet"}
	if len(result.Insights) != 3 {
		t.Fatalf("Expected 3 insights, got %v", result.Insights)
	}
	for i, want := range expected {
		if result.Insights[i] != want {
			t.Errorf("Insight %d: expected %q, got %q", i, want, result.Insights[i])
		}
	}
}

func TestParseAnalysis_ThreeSections(t *testing.T) {
	text := `1. KEY INSIGHTS (5-6 bullet points):
• Insight one
• Insight two

2. INVESTOR IMPLICATIONS (3-4 sentences):
Investors should weigh the premium valuation.

3. DETAILED ANALYSIS (comprehensive paragraph):
The company leads its sector.
Margins have expanded steadily.`

	result := ParseAnalysis(text)
	if len(result.Insights) != 2 {
		t.Fatalf("Expected 2 insights, got %v", result.Insights)
	}
	if result.Summary != "Investors should weigh the premium valuation." {
		t.Errorf("Unexpected summary: %q", result.Summary)
	}
	wantDetailed := "The company leads its sector. Margins have expanded steadily."
	if result.DetailedAnalysis != wantDetailed {
		t.Errorf("Expected detailed %q, got %q", wantDetailed, result.DetailedAnalysis)
	}
}

func TestParseAnalysis_CapsInsights(t *testing.T) {
	var b strings.Builder
	b.WriteString("INSIGHTS:\n")
	for i := 0; i < 10; i++ {
		b.WriteString("• Repeated insight\n")
	}
	result := ParseAnalysis(b.String())
	if len(result.Insights) != maxInsights {
		t.Errorf("Expected cap of %d insights, got %d", maxInsights, len(result.Insights))
	}
}

func TestParseAnalysis_ProseOutsideSectionsIgnored(t *testing.T) {
	text := `Some preamble the model added.
• A bullet before any section header

INSIGHTS:
• Counted insight`

	result := ParseAnalysis(text)
	if len(result.Insights) != 1 || result.Insights[0] != "Counted insight" {
		t.Errorf("Expected only the in-section bullet, got %v", result.Insights)
	}
}

func TestParseAnalysis_AdversarialGarbage(t *testing.T) {
	result := ParseAnalysis("\x00\xff\n\n\n•\n---\nINSIGHTS")
	if result == nil || len(result.Insights) == 0 || result.Summary == "" {
		t.Error("Expected a usable result for garbage input")
	}
}
