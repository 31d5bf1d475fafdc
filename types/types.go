package types

import "time"

// OHLCV is a single daily bar from the historical price series.
type OHLCV struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// AnnualRow is one fiscal year of statement data. Any field may be nil
// when the upstream statement tables are incomplete.
type AnnualRow struct {
	Year        string   `json:"year"`
	Revenue     *float64 `json:"revenue"`
	NetIncome   *float64 `json:"netIncome"`
	EPS         *float64 `json:"eps"`
	TotalAssets *float64 `json:"totalAssets"`
	TotalDebt   *float64 `json:"totalDebt"`
}

// QuarterlyRow is one quarter of statement data.
type QuarterlyRow struct {
	Quarter   string   `json:"quarter"`
	Revenue   *float64 `json:"revenue"`
	NetIncome *float64 `json:"netIncome"`
	EPS       *float64 `json:"eps"`
	NetMargin *float64 `json:"netMargin"`
}

// RawFinancials is the upstream snapshot for one symbol. Pointer fields
// are nil when the provider did not return them; nothing here is
// guaranteed to be present except Symbol. The struct is built once per
// query and never mutated afterwards.
type RawFinancials struct {
	Symbol          string `json:"symbol"`
	CompanyName     string `json:"companyName"`
	Sector          string `json:"sector"`
	Industry        string `json:"industry"`
	BusinessSummary string `json:"businessSummary,omitempty"`

	CurrentPrice     *float64 `json:"currentPrice"`
	MarketCap        *float64 `json:"marketCap"`
	PERatio          *float64 `json:"peRatio"`
	PBRatio          *float64 `json:"pbRatio"`
	BookValue        *float64 `json:"bookValue"`
	PriceToSales     *float64 `json:"priceToSales"`
	EPS              *float64 `json:"eps"`
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow"`

	// Fractions as reported upstream (0.18 means 18%). Converted to
	// percentages exactly once, in the metric deriver.
	ReturnOnEquityFrac  *float64 `json:"returnOnEquityFrac"`
	ReturnOnAssetsFrac  *float64 `json:"returnOnAssetsFrac"`
	DividendYieldFrac   *float64 `json:"dividendYieldFrac"`
	RevenueGrowthFrac   *float64 `json:"revenueGrowthFrac"`
	EarningsGrowthFrac  *float64 `json:"earningsGrowthFrac"`
	ProfitMarginFrac    *float64 `json:"profitMarginFrac"`
	OperatingMarginFrac *float64 `json:"operatingMarginFrac"`

	DebtToEquity *float64 `json:"debtToEquity"`
	CurrentRatio *float64 `json:"currentRatio"`
	QuickRatio   *float64 `json:"quickRatio"`

	HeldByInsidersFrac     *float64 `json:"heldByInsidersFrac"`
	HeldByInstitutionsFrac *float64 `json:"heldByInstitutionsFrac"`
	FloatShares            *float64 `json:"floatShares"`
	SharesOutstanding      *float64 `json:"sharesOutstanding"`

	EnterpriseValue *float64 `json:"enterpriseValue"`
	EVToRevenue     *float64 `json:"evToRevenue"`
	EVToEBITDA      *float64 `json:"evToEbitda"`
	TotalCash       *float64 `json:"totalCash"`
	TotalDebt       *float64 `json:"totalDebt"`
	FreeCashFlow    *float64 `json:"freeCashFlow"`

	History       []OHLCV        `json:"-"`
	AnnualData    []AnnualRow    `json:"annualData,omitempty"`
	QuarterlyData []QuarterlyRow `json:"quarterlyData,omitempty"`

	// Discrete shareholding from the scrape, when available.
	ScrapedShareholding *ShareholdingPattern `json:"-"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// ShareholdingPattern is the promoter/FII/DII/retail split. Estimated is
// true when the numbers come from the proportional fallback splits
// rather than a discrete upstream breakdown.
type ShareholdingPattern struct {
	Promoter  *float64 `json:"promoter"`
	FII       *float64 `json:"fii"`
	DII       *float64 `json:"dii"`
	QIB       *float64 `json:"qib"`
	Retail    *float64 `json:"retail"`
	Estimated bool     `json:"estimated"`
}

// DerivedMetrics holds the secondary ratios computed from RawFinancials.
// Every field is independently nullable: a metric is present only when
// all of its inputs were present and its denominators non-zero.
type DerivedMetrics struct {
	ROE             *float64 `json:"roe"`
	ROCE            *float64 `json:"roce"`
	EPS             *float64 `json:"eps"`
	CurrentRatio    *float64 `json:"currentRatio"`
	QuickRatio      *float64 `json:"quickRatio"`
	DebtToEquity    *float64 `json:"debtToEquity"`
	DividendYield   *float64 `json:"dividendYield"`
	RevenueGrowth   *float64 `json:"revenueGrowth"`
	EarningsGrowth  *float64 `json:"earningsGrowth"`
	ProfitMargin    *float64 `json:"profitMargin"`
	OperatingMargin *float64 `json:"operatingMargin"`

	PerfVs52WeekHigh *float64 `json:"perfVs52WeekHigh"`
	PerfVs52WeekLow  *float64 `json:"perfVs52WeekLow"`
	YearPerformance  *float64 `json:"yearPerformance"`
	Volatility       *float64 `json:"volatility"`
	AverageVolume    *float64 `json:"averageVolume"`

	Shareholding ShareholdingPattern `json:"shareholding"`
}

// ClassifiedInsight pairs a metric with its qualitative bucket and the
// templated sentence shown to the user.
type ClassifiedInsight struct {
	Metric string `json:"metric"`
	Bucket string `json:"bucket"`
	Text   string `json:"text"`
}

// AnalysisResult is what every analysis path returns. Insights and
// Summary are never empty, whichever source produced them.
type AnalysisResult struct {
	Insights         []string `json:"insights"`
	Summary          string   `json:"summary"`
	DetailedAnalysis string   `json:"detailedAnalysis,omitempty"`
	Source           string   `json:"source"`
}

// StockAnalysis is the full payload handed to the presentation layer.
type StockAnalysis struct {
	Raw      *RawFinancials  `json:"raw"`
	Derived  *DerivedMetrics `json:"derived"`
	Analysis *AnalysisResult `json:"analysis"`
}

// GeminiRequest is the generateContent request body.
type GeminiRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

// GeminiResponse is the subset of the generateContent response we read.
type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ChatMessage is one turn of an OpenAI-style chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI-compatible chat completion body used by the
// Groq endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// ChatResponse is the subset of the chat completion response we read.
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// TogetherRequest is the Together inference request body.
type TogetherRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

// TogetherResponse is the subset of the Together response we read.
type TogetherResponse struct {
	Output struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	} `json:"output"`
}
