package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"stockinsight/clients/http_client"
	"stockinsight/types"
	"stockinsight/utils/helpers"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

var aiOnce sync.Once

var (
	geminiAPIURL   = ""
	geminiAPIKey   = ""
	togetherAPIKey = ""
	groqAPIKey     = ""
)

func initAIConfig() {
	aiOnce.Do(func() {
		geminiAPIURL = os.Getenv("GEMINI_API_URL")
		if geminiAPIURL == "" {
			geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"
		}
		geminiAPIKey = os.Getenv("GEMINI_API_KEY")
		togetherAPIKey = os.Getenv("TOGETHER_API_KEY")
		groqAPIKey = os.Getenv("GROQ_API_KEY")
	})
}

// Provider is one hosted model backend. Request is best-effort: any
// non-2xx response, timeout, or decode failure comes back as an
// ordinary error and moves the orchestrator to the next stage.
type Provider interface {
	Name() string
	Configured() bool
	Prompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string
	Request(ctx context.Context, prompt string) (string, error)
}

// AIService sequences the provider attempts and owns the fallback
// policy. Construct once at process start and share; it holds no
// per-request state.
type AIService struct {
	providers []Provider
}

// NewAIService builds the default provider chain from the environment:
// Gemini, then Together, then Groq. A provider with no API key stays in
// the chain but is skipped without counting as a failure.
func NewAIService() *AIService {
	initAIConfig()
	return &AIService{
		providers: []Provider{
			&geminiProvider{apiURL: geminiAPIURL, apiKey: geminiAPIKey},
			&togetherProvider{apiKey: togetherAPIKey},
			&groqProvider{apiKey: groqAPIKey},
		},
	}
}

// NewAIServiceWithProviders is the injection point for tests.
func NewAIServiceWithProviders(providers ...Provider) *AIService {
	return &AIService{providers: providers}
}

// AnalyzeStock tries each provider in priority order and falls back to
// the rule-based analyzer. It cannot fail: the returned result always
// has non-empty insights, a non-empty summary, and a source tag.
func (s *AIService) AnalyzeStock(ctx context.Context, raw *types.RawFinancials, derived *types.DerivedMetrics) *types.AnalysisResult {
	for _, provider := range s.providers {
		if !provider.Configured() {
			zap.L().Debug("Provider not configured, skipping", zap.String("provider", provider.Name()))
			continue
		}

		zap.L().Info("Trying analysis provider", zap.String("provider", provider.Name()))
		text, err := provider.Request(ctx, provider.Prompt(raw, derived))
		if err != nil {
			zap.L().Warn("Provider call failed",
				zap.String("provider", provider.Name()),
				zap.Error(err))
			sentry.CaptureException(fmt.Errorf("%s analysis failed: %w", provider.Name(), err))
			continue
		}

		result := ParseAnalysis(text)
		result.Source = provider.Name()
		return result
	}

	zap.L().Info("All providers exhausted, using rule-based analysis")
	return BasicAnalysis(raw, derived)
}

// ---- Gemini ----

type geminiProvider struct {
	apiURL string
	apiKey string
}

func (g *geminiProvider) Name() string     { return "gemini" }
func (g *geminiProvider) Configured() bool { return g.apiKey != "" }

func (g *geminiProvider) Prompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return comprehensivePrompt(raw, derived)
}

func (g *geminiProvider) Request(ctx context.Context, prompt string) (string, error) {
	requestData := types.GeminiRequest{
		Contents: []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		}{
			{
				Parts: []struct {
					Text string `json:"text"`
				}{
					{
						Text: prompt,
					},
				},
			},
		},
		GenerationConfig: map[string]interface{}{
			"temperature":     0.3,
			"maxOutputTokens": 2000,
		},
	}

	body, err := postJSON(ctx, g.apiURL+"?key="+g.apiKey, nil, requestData)
	if err != nil {
		return "", err
	}

	var response types.GeminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini response")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}

// ---- Together ----

type togetherProvider struct {
	apiKey string
}

func (t *togetherProvider) Name() string     { return "together" }
func (t *togetherProvider) Configured() bool { return t.apiKey != "" }

func (t *togetherProvider) Prompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return insightPrompt(raw, derived)
}

func (t *togetherProvider) Request(ctx context.Context, prompt string) (string, error) {
	requestData := types.TogetherRequest{
		Model:       "togethercomputer/llama-2-70b-chat",
		Prompt:      prompt,
		MaxTokens:   1000,
		Temperature: 0.7,
		TopP:        0.7,
		TopK:        50,
	}

	headers := map[string]string{"Authorization": "Bearer " + t.apiKey}
	body, err := postJSON(ctx, "https://api.together.xyz/inference", headers, requestData)
	if err != nil {
		return "", err
	}

	var response types.TogetherResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Output.Choices) == 0 || response.Output.Choices[0].Text == "" {
		return "", fmt.Errorf("empty together response")
	}
	return response.Output.Choices[0].Text, nil
}

// ---- Groq ----

type groqProvider struct {
	apiKey string
}

func (g *groqProvider) Name() string     { return "groq" }
func (g *groqProvider) Configured() bool { return g.apiKey != "" }

func (g *groqProvider) Prompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return insightPrompt(raw, derived)
}

func (g *groqProvider) Request(ctx context.Context, prompt string) (string, error) {
	requestData := types.ChatRequest{
		Model: "mixtral-8x7b-32768",
		Messages: []types.ChatMessage{
			{Role: "system", Content: "You are a professional financial analyst providing stock analysis."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	}

	headers := map[string]string{"Authorization": "Bearer " + g.apiKey}
	body, err := postJSON(ctx, "https://api.groq.com/openai/v1/chat/completions", headers, requestData)
	if err != nil {
		return "", err
	}

	var response types.ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty groq response")
	}
	return response.Choices[0].Message.Content, nil
}

func postJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http_client.LLMClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// comprehensivePrompt asks for the three-section analysis. Every metric
// goes through SafeFormat so a missing value renders as "N/A" and the
// model always receives a well-formed request.
func comprehensivePrompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return fmt.Sprintf(`As a professional financial analyst, provide a comprehensive analysis of %s stock. Here is the current financial data:

COMPANY OVERVIEW:
- Company: %s
- Current Price: %s
- Sector: %s
- Industry: %s
- Market Cap: %s

VALUATION METRICS:
- P/E Ratio: %s
- P/B Ratio: %s
- EPS: %s
- Book Value: %s
- Price/Sales: %s

FINANCIAL HEALTH:
- ROE: %s
- ROCE: %s
- Current Ratio: %s
- Debt-to-Equity: %s
- Quick Ratio: %s

GROWTH & PROFITABILITY:
- Revenue Growth: %s
- Earnings Growth: %s
- Profit Margins: %s
- Operating Margins: %s

MARKET PERFORMANCE:
- 52W High: %s
- 52W Low: %s
- Dividend Yield: %s
- Volatility: %s

SHAREHOLDING:
- Promoter: %s
- FII: %s
- DII: %s

Please provide:

1. KEY INSIGHTS (5-6 bullet points analyzing the financial health, valuation, and market position):

2. INVESTOR IMPLICATIONS (3-4 sentences on what this means for potential investors, including risk assessment and investment outlook):

3. DETAILED ANALYSIS (comprehensive paragraph covering business fundamentals, competitive position, financial strengths/weaknesses, and future prospects):

Format your response clearly with these three sections.`,
		raw.CompanyName,
		raw.CompanyName,
		helpers.SafeFormat(raw.CurrentPrice, helpers.FormatPrice),
		raw.Sector,
		raw.Industry,
		helpers.SafeFormat(raw.MarketCap, helpers.FormatCurrency),
		helpers.SafeFormat(raw.PERatio, helpers.FormatRatio),
		helpers.SafeFormat(raw.PBRatio, helpers.FormatRatio),
		helpers.SafeFormat(derived.EPS, helpers.FormatPrice),
		helpers.SafeFormat(raw.BookValue, helpers.FormatPrice),
		helpers.SafeFormat(raw.PriceToSales, helpers.FormatRatio),
		helpers.SafeFormat(derived.ROE, helpers.FormatPercent),
		helpers.SafeFormat(derived.ROCE, helpers.FormatPercent),
		helpers.SafeFormat(derived.CurrentRatio, helpers.FormatRatio),
		helpers.SafeFormat(derived.DebtToEquity, helpers.FormatRatio),
		helpers.SafeFormat(derived.QuickRatio, helpers.FormatRatio),
		helpers.SafeFormat(derived.RevenueGrowth, helpers.FormatPercent),
		helpers.SafeFormat(derived.EarningsGrowth, helpers.FormatPercent),
		helpers.SafeFormat(derived.ProfitMargin, helpers.FormatPercent),
		helpers.SafeFormat(derived.OperatingMargin, helpers.FormatPercent),
		helpers.SafeFormat(raw.FiftyTwoWeekHigh, helpers.FormatPrice),
		helpers.SafeFormat(raw.FiftyTwoWeekLow, helpers.FormatPrice),
		helpers.SafeFormat(derived.DividendYield, helpers.FormatPercent),
		helpers.SafeFormat(derived.Volatility, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.Promoter, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.FII, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.DII, helpers.FormatPercent),
	)
}

// insightPrompt is the shorter two-section request used by the chat
// completion providers.
func insightPrompt(raw *types.RawFinancials, derived *types.DerivedMetrics) string {
	return fmt.Sprintf(`Analyze the following stock data for %s (%s) and provide insights:

CURRENT METRICS:
- Current Price: %s
- Market Cap: %s
- P/E Ratio: %s
- ROE: %s
- ROCE: %s
- Debt-to-Equity: %s
- Dividend Yield: %s
- Current Ratio: %s
- Sector: %s
- Industry: %s

FINANCIAL PERFORMANCE:
- 52W High: %s
- 52W Low: %s

SHAREHOLDING PATTERN:
- Promoter Holding: %s
- FII Holding: %s
- DII Holding: %s
- Retail Holding: %s

Please provide:
1. 3-5 key insights as bullet points
2. A comprehensive investment implication summary (2-3 sentences)

Format your response as:
INSIGHTS:
• [Insight 1]
• [Insight 2]
• [Insight 3]

INVESTMENT_SUMMARY:
[Your investment analysis and recommendation]`,
		raw.CompanyName,
		raw.Symbol,
		helpers.SafeFormat(raw.CurrentPrice, helpers.FormatPrice),
		helpers.SafeFormat(raw.MarketCap, helpers.FormatCurrency),
		helpers.SafeFormat(raw.PERatio, helpers.FormatRatio),
		helpers.SafeFormat(derived.ROE, helpers.FormatPercent),
		helpers.SafeFormat(derived.ROCE, helpers.FormatPercent),
		helpers.SafeFormat(derived.DebtToEquity, helpers.FormatRatio),
		helpers.SafeFormat(derived.DividendYield, helpers.FormatPercent),
		helpers.SafeFormat(derived.CurrentRatio, helpers.FormatRatio),
		raw.Sector,
		raw.Industry,
		helpers.SafeFormat(raw.FiftyTwoWeekHigh, helpers.FormatPrice),
		helpers.SafeFormat(raw.FiftyTwoWeekLow, helpers.FormatPrice),
		helpers.SafeFormat(derived.Shareholding.Promoter, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.FII, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.DII, helpers.FormatPercent),
		helpers.SafeFormat(derived.Shareholding.Retail, helpers.FormatPercent),
	)
}
