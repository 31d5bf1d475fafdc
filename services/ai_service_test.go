package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stockinsight/types"
	"stockinsight/utils/helpers"
)

type fakeProvider struct {
	name       string
	configured bool
	text       string
	err        error
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) Prompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return insightPrompt(raw, derived)
}

func (f *fakeProvider) Request(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

const wellFormedResponse = `INSIGHTS:
• Solid balance sheet
• Consistent dividend history

INVESTMENT_SUMMARY:
A steady compounder at a fair price.`

func testInputs() (*types.RawFinancials, *types.DerivedMetrics) {
	raw := &types.RawFinancials{
		Symbol:      "TCS.NS",
		CompanyName: "Tata Consultancy Services",
		Sector:      "Technology",
	}
	return raw, DeriveMetrics(raw)
}

func TestAnalyzeStock_PrimaryFailsSecondarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "gemini", configured: true, err: errors.New("timeout")}
	secondary := &fakeProvider{name: "together", configured: true, text: wellFormedResponse}
	service := NewAIServiceWithProviders(primary, secondary)

	raw, derived := testInputs()
	result := service.AnalyzeStock(context.Background(), raw, derived)

	if result.Source != "together" {
		t.Errorf("Expected source together, got %s", result.Source)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("Expected one call each, got %d and %d", primary.calls, secondary.calls)
	}
	if len(result.Insights) != 2 {
		t.Errorf("Expected 2 parsed insights, got %v", result.Insights)
	}
}

func TestAnalyzeStock_UnconfiguredProvidersFallToBasic(t *testing.T) {
	primary := &fakeProvider{name: "gemini", configured: false}
	secondary := &fakeProvider{name: "groq", configured: false}
	service := NewAIServiceWithProviders(primary, secondary)

	raw, derived := testInputs()
	result := service.AnalyzeStock(context.Background(), raw, derived)

	if result.Source != SourceBasic {
		t.Errorf("Expected source basic, got %s", result.Source)
	}
	if primary.calls != 0 || secondary.calls != 0 {
		t.Error("Unconfigured providers must not be called")
	}
	if len(result.Insights) == 0 || result.Summary == "" {
		t.Error("Fallback result must be non-empty")
	}
}

func TestAnalyzeStock_AllProvidersFailFallToBasic(t *testing.T) {
	providers := []Provider{
		&fakeProvider{name: "gemini", configured: true, err: errors.New("503")},
		&fakeProvider{name: "together", configured: true, err: errors.New("timeout")},
		&fakeProvider{name: "groq", configured: true, err: errors.New("401")},
	}
	service := NewAIServiceWithProviders(providers...)

	raw, derived := testInputs()
	result := service.AnalyzeStock(context.Background(), raw, derived)

	if result.Source != SourceBasic {
		t.Errorf("Expected source basic after every provider failed, got %s", result.Source)
	}
	if len(result.Insights) == 0 || result.Summary == "" {
		t.Error("Fallback result must be non-empty")
	}
}

func TestAnalyzeStock_MalformedResponseStillUsable(t *testing.T) {
	provider := &fakeProvider{name: "groq", configured: true, text: "complete nonsense with no sections"}
	service := NewAIServiceWithProviders(provider)

	raw, derived := testInputs()
	result := service.AnalyzeStock(context.Background(), raw, derived)

	if result.Source != "groq" {
		t.Errorf("Expected source groq, got %s", result.Source)
	}
	if len(result.Insights) == 0 || result.Summary == "" {
		t.Error("Malformed provider output must still yield placeholders")
	}
}

func TestAnalyzeStock_FirstSuccessShortCircuits(t *testing.T) {
	primary := &fakeProvider{name: "gemini", configured: true, text: wellFormedResponse}
	secondary := &fakeProvider{name: "together", configured: true, text: wellFormedResponse}
	service := NewAIServiceWithProviders(primary, secondary)

	raw, derived := testInputs()
	result := service.AnalyzeStock(context.Background(), raw, derived)

	if result.Source != "gemini" {
		t.Errorf("Expected source gemini, got %s", result.Source)
	}
	if secondary.calls != 0 {
		t.Errorf("Expected secondary to be skipped, it was called %d times", secondary.calls)
	}
}

func TestInsightPrompt_MissingValuesRenderNA(t *testing.T) {
	raw := &types.RawFinancials{Symbol: "XYZ.NS", CompanyName: "XYZ Ltd", Sector: "N/A", Industry: "N/A"}
	prompt := insightPrompt(raw, DeriveMetrics(raw))
	if !strings.Contains(prompt, "P/E Ratio: N/A") {
		t.Errorf("Expected missing P/E to render as N/A")
	}
	if !strings.Contains(prompt, "Current Price: N/A") {
		t.Errorf("Expected missing price to render as N/A")
	}
	if strings.Contains(prompt, "%!") {
		t.Errorf("Prompt has a formatting artifact: %s", prompt)
	}
}

func TestComprehensivePrompt_EmbedsPresentMetrics(t *testing.T) {
	raw := &types.RawFinancials{
		Symbol:             "TCS.NS",
		CompanyName:        "Tata Consultancy Services",
		Sector:             "Technology",
		Industry:           "IT Services",
		CurrentPrice:       helpers.Float64Ptr(3500),
		PERatio:            helpers.Float64Ptr(28.4),
		ReturnOnEquityFrac: helpers.Float64Ptr(0.45),
	}
	prompt := comprehensivePrompt(raw, DeriveMetrics(raw))
	if !strings.Contains(prompt, "₹3500.00") {
		t.Errorf("Expected formatted price in prompt")
	}
	if !strings.Contains(prompt, "28.40") {
		t.Errorf("Expected P/E in prompt")
	}
	if !strings.Contains(prompt, "45.00%") {
		t.Errorf("Expected ROE percent in prompt")
	}
}
