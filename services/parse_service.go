package services

import (
	"strings"

	"stockinsight/types"
)

// parseSection is the state of the response parser's line scanner.
type parseSection int

const (
	sectionNone parseSection = iota
	sectionInsights
	sectionImplications
	sectionDetailed
)

// Section headers are matched as case-insensitive substrings because
// model output drifts: "KEY INSIGHTS", "INSIGHTS:", "1. KEY INSIGHTS
// (5-6 bullet points...)" all open the insights section.
var sectionHeaders = []struct {
	keywords []string
	section  parseSection
}{
	{[]string{"KEY INSIGHTS", "INSIGHTS:"}, sectionInsights},
	{[]string{"INVESTMENT_SUMMARY", "INVESTOR IMPLICATIONS", "IMPLICATIONS"}, sectionImplications},
	{[]string{"DETAILED ANALYSIS", "ANALYSIS:"}, sectionDetailed},
}

var bulletPrefixes = []string{"•", "-", "*", "1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9."}

const (
	placeholderInsight = "Analysis pending - please check back for detailed insights"
	placeholderSummary = "Investment analysis is being processed. Please try again for detailed recommendations."
)

// ParseAnalysis extracts a bulleted insight list and prose sections
// from unstructured model output. The upstream format is not
// contractual, so the parser is deliberately tolerant: it never fails
// and always returns a displayable result, even for empty input.
func ParseAnalysis(text string) *types.AnalysisResult {
	var (
		insights     []string
		implications strings.Builder
		detailed     strings.Builder
	)

	section := sectionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if next, ok := matchSectionHeader(line); ok {
			section = next
			// Some models put the first bullet on the header line
			// after the colon; anything before it is the header.
			continue
		}

		switch section {
		case sectionInsights:
			if content, ok := stripBullet(line); ok && content != "" {
				insights = append(insights, content)
			}
		case sectionImplications:
			appendProse(&implications, line)
		case sectionDetailed:
			appendProse(&detailed, line)
		}
	}

	if len(insights) == 0 {
		insights = []string{placeholderInsight}
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	summary := strings.TrimSpace(implications.String())
	if summary == "" {
		summary = placeholderSummary
	}

	return &types.AnalysisResult{
		Insights:         insights,
		Summary:          summary,
		DetailedAnalysis: strings.TrimSpace(detailed.String()),
	}
}

func matchSectionHeader(line string) (parseSection, bool) {
	upper := strings.ToUpper(line)
	for _, header := range sectionHeaders {
		for _, kw := range header.keywords {
			if strings.Contains(upper, kw) {
				return header.section, true
			}
		}
	}
	return sectionNone, false
}

// stripBullet removes a leading bullet or numbered-list marker. The
// second return is false for lines that carry no marker at all, which
// keeps header remnants and stray prose out of the insight list.
func stripBullet(line string) (string, bool) {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			content := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			// Numbered items may still carry a bullet after the number.
			content = strings.TrimSpace(strings.TrimLeft(content, "•-* "))
			return content, true
		}
	}
	return "", false
}

func appendProse(b *strings.Builder, line string) {
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(line)
}
