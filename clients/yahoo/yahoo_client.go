package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"stockinsight/clients/http_client"
	"stockinsight/types"

	"go.uber.org/zap"
)

const (
	quoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s"
	chartURL        = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=1y&interval=1d"

	summaryModules = "price,summaryDetail,financialData,defaultKeyStatistics,assetProfile,incomeStatementHistory,incomeStatementHistoryQuarterly,balanceSheetHistory"
)

// value is Yahoo's {"raw": n, "fmt": "..."} wrapper. Only the raw
// number is read; a missing field decodes to a nil Raw.
type value struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				RegularMarketPrice value  `json:"regularMarketPrice"`
				MarketCap          value  `json:"marketCap"`
				LongName           string `json:"longName"`
				ShortName          string `json:"shortName"`
			} `json:"price"`
			SummaryDetail *struct {
				PreviousClose    value `json:"previousClose"`
				TrailingPE       value `json:"trailingPE"`
				ForwardPE        value `json:"forwardPE"`
				DividendYield    value `json:"dividendYield"`
				FiftyTwoWeekHigh value `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  value `json:"fiftyTwoWeekLow"`
				PriceToSales     value `json:"priceToSalesTrailing12Months"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				CurrentPrice     value `json:"currentPrice"`
				ReturnOnEquity   value `json:"returnOnEquity"`
				ReturnOnAssets   value `json:"returnOnAssets"`
				DebtToEquity     value `json:"debtToEquity"`
				CurrentRatio     value `json:"currentRatio"`
				QuickRatio       value `json:"quickRatio"`
				RevenueGrowth    value `json:"revenueGrowth"`
				EarningsGrowth   value `json:"earningsGrowth"`
				ProfitMargins    value `json:"profitMargins"`
				OperatingMargins value `json:"operatingMargins"`
				TotalCash        value `json:"totalCash"`
				TotalDebt        value `json:"totalDebt"`
				FreeCashflow     value `json:"freeCashflow"`
			} `json:"financialData"`
			DefaultKeyStatistics *struct {
				TrailingEps         value `json:"trailingEps"`
				PriceToBook         value `json:"priceToBook"`
				BookValue           value `json:"bookValue"`
				HeldPercentInsiders value `json:"heldPercentInsiders"`
				HeldPercentInstitutions value `json:"heldPercentInstitutions"`
				FloatShares         value `json:"floatShares"`
				SharesOutstanding   value `json:"sharesOutstanding"`
				EnterpriseValue     value `json:"enterpriseValue"`
				EnterpriseToRevenue value `json:"enterpriseToRevenue"`
				EnterpriseToEbitda  value `json:"enterpriseToEbitda"`
			} `json:"defaultKeyStatistics"`
			AssetProfile *struct {
				Sector             string `json:"sector"`
				Industry           string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
			IncomeStatementHistory          *incomeStatementHistory `json:"incomeStatementHistory"`
			IncomeStatementHistoryQuarterly *incomeStatementHistory `json:"incomeStatementHistoryQuarterly"`
			BalanceSheetHistory             *balanceSheetHistory    `json:"balanceSheetHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type incomeStatementHistory struct {
	Statements []incomeStatement `json:"incomeStatementHistory"`
}

type balanceSheetHistory struct {
	Statements []balanceSheet `json:"balanceSheetStatements"`
}

type incomeStatement struct {
	EndDate struct {
		Fmt string `json:"fmt"`
	} `json:"endDate"`
	TotalRevenue value `json:"totalRevenue"`
	NetIncome    value `json:"netIncome"`
}

type balanceSheet struct {
	EndDate struct {
		Fmt string `json:"fmt"`
	} `json:"endDate"`
	TotalAssets    value `json:"totalAssets"`
	ShortLongTermDebt value `json:"shortLongTermDebt"`
	LongTermDebt   value `json:"longTermDebt"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuoteSummary pulls the fundamentals snapshot for an
// exchange-qualified symbol. Any individual field may be absent in the
// returned RawFinancials; only a completely empty result is an error.
func FetchQuoteSummary(ctx context.Context, symbol string) (*types.RawFinancials, error) {
	endpoint := fmt.Sprintf(quoteSummaryURL, url.PathEscape(symbol), summaryModules)

	var response quoteSummaryResponse
	if err := http_client.GetJSON(ctx, http_client.MarketDataClient, endpoint, &response); err != nil {
		return nil, err
	}
	if response.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error for %s: %s", symbol, response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary result for %s", symbol)
	}

	result := response.QuoteSummary.Result[0]
	raw := &types.RawFinancials{
		Symbol:      symbol,
		CompanyName: strings.TrimSuffix(symbol, ".NS"),
		Sector:      "N/A",
		Industry:    "N/A",
		LastUpdated: time.Now(),
	}

	if result.Price != nil {
		if result.Price.LongName != "" {
			raw.CompanyName = result.Price.LongName
		} else if result.Price.ShortName != "" {
			raw.CompanyName = result.Price.ShortName
		}
		raw.CurrentPrice = result.Price.RegularMarketPrice.Raw
		raw.MarketCap = result.Price.MarketCap.Raw
	}
	if result.SummaryDetail != nil {
		if raw.CurrentPrice == nil {
			raw.CurrentPrice = result.SummaryDetail.PreviousClose.Raw
		}
		raw.PERatio = result.SummaryDetail.TrailingPE.Raw
		if raw.PERatio == nil {
			raw.PERatio = result.SummaryDetail.ForwardPE.Raw
		}
		raw.DividendYieldFrac = result.SummaryDetail.DividendYield.Raw
		raw.FiftyTwoWeekHigh = result.SummaryDetail.FiftyTwoWeekHigh.Raw
		raw.FiftyTwoWeekLow = result.SummaryDetail.FiftyTwoWeekLow.Raw
		raw.PriceToSales = result.SummaryDetail.PriceToSales.Raw
	}
	if result.FinancialData != nil {
		if raw.CurrentPrice == nil {
			raw.CurrentPrice = result.FinancialData.CurrentPrice.Raw
		}
		raw.ReturnOnEquityFrac = result.FinancialData.ReturnOnEquity.Raw
		raw.ReturnOnAssetsFrac = result.FinancialData.ReturnOnAssets.Raw
		raw.DebtToEquity = result.FinancialData.DebtToEquity.Raw
		raw.CurrentRatio = result.FinancialData.CurrentRatio.Raw
		raw.QuickRatio = result.FinancialData.QuickRatio.Raw
		raw.RevenueGrowthFrac = result.FinancialData.RevenueGrowth.Raw
		raw.EarningsGrowthFrac = result.FinancialData.EarningsGrowth.Raw
		raw.ProfitMarginFrac = result.FinancialData.ProfitMargins.Raw
		raw.OperatingMarginFrac = result.FinancialData.OperatingMargins.Raw
		raw.TotalCash = result.FinancialData.TotalCash.Raw
		raw.TotalDebt = result.FinancialData.TotalDebt.Raw
		raw.FreeCashFlow = result.FinancialData.FreeCashflow.Raw
	}
	if result.DefaultKeyStatistics != nil {
		raw.EPS = result.DefaultKeyStatistics.TrailingEps.Raw
		raw.PBRatio = result.DefaultKeyStatistics.PriceToBook.Raw
		raw.BookValue = result.DefaultKeyStatistics.BookValue.Raw
		raw.HeldByInsidersFrac = result.DefaultKeyStatistics.HeldPercentInsiders.Raw
		raw.HeldByInstitutionsFrac = result.DefaultKeyStatistics.HeldPercentInstitutions.Raw
		raw.FloatShares = result.DefaultKeyStatistics.FloatShares.Raw
		raw.SharesOutstanding = result.DefaultKeyStatistics.SharesOutstanding.Raw
		raw.EnterpriseValue = result.DefaultKeyStatistics.EnterpriseValue.Raw
		raw.EVToRevenue = result.DefaultKeyStatistics.EnterpriseToRevenue.Raw
		raw.EVToEBITDA = result.DefaultKeyStatistics.EnterpriseToEbitda.Raw
	}
	if result.AssetProfile != nil {
		if result.AssetProfile.Sector != "" {
			raw.Sector = result.AssetProfile.Sector
		}
		if result.AssetProfile.Industry != "" {
			raw.Industry = result.AssetProfile.Industry
		}
		raw.BusinessSummary = result.AssetProfile.LongBusinessSummary
	}
	if result.IncomeStatementHistory != nil {
		raw.AnnualData = buildAnnualRows(result.IncomeStatementHistory.Statements, balanceSheets(result.BalanceSheetHistory), raw.SharesOutstanding)
	}
	if result.IncomeStatementHistoryQuarterly != nil {
		raw.QuarterlyData = buildQuarterlyRows(result.IncomeStatementHistoryQuarterly.Statements, raw.SharesOutstanding)
	}

	return raw, nil
}

func balanceSheets(history *balanceSheetHistory) map[string]balanceSheet {
	sheets := make(map[string]balanceSheet)
	if history == nil {
		return sheets
	}
	for _, bs := range history.Statements {
		sheets[fiscalYear(bs.EndDate.Fmt)] = bs
	}
	return sheets
}

func buildAnnualRows(statements []incomeStatement, sheets map[string]balanceSheet, sharesOutstanding *float64) []types.AnnualRow {
	var rows []types.AnnualRow
	for i, stmt := range statements {
		if i >= 5 {
			break
		}
		year := fiscalYear(stmt.EndDate.Fmt)
		row := types.AnnualRow{
			Year:      year,
			Revenue:   stmt.TotalRevenue.Raw,
			NetIncome: stmt.NetIncome.Raw,
			EPS:       perShare(stmt.NetIncome.Raw, sharesOutstanding),
		}
		if bs, ok := sheets[year]; ok {
			row.TotalAssets = bs.TotalAssets.Raw
			row.TotalDebt = bs.LongTermDebt.Raw
			if row.TotalDebt == nil {
				row.TotalDebt = bs.ShortLongTermDebt.Raw
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func buildQuarterlyRows(statements []incomeStatement, sharesOutstanding *float64) []types.QuarterlyRow {
	var rows []types.QuarterlyRow
	for i, stmt := range statements {
		if i >= 10 {
			break
		}
		row := types.QuarterlyRow{
			Quarter:   stmt.EndDate.Fmt,
			Revenue:   stmt.TotalRevenue.Raw,
			NetIncome: stmt.NetIncome.Raw,
			EPS:       perShare(stmt.NetIncome.Raw, sharesOutstanding),
		}
		if stmt.NetIncome.Raw != nil && stmt.TotalRevenue.Raw != nil && *stmt.TotalRevenue.Raw != 0 {
			margin := *stmt.NetIncome.Raw / *stmt.TotalRevenue.Raw * 100
			row.NetMargin = &margin
		}
		rows = append(rows, row)
	}
	return rows
}

func perShare(total, shares *float64) *float64 {
	if total == nil || shares == nil || *shares == 0 {
		return nil
	}
	v := *total / *shares
	return &v
}

func fiscalYear(endDate string) string {
	if len(endDate) >= 4 {
		return endDate[:4]
	}
	return endDate
}

// FetchHistory pulls one year of daily bars. Failures are logged and
// returned; the caller treats history as optional.
func FetchHistory(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	endpoint := fmt.Sprintf(chartURL, url.PathEscape(symbol))

	var response chartResponse
	if err := http_client.GetJSON(ctx, http_client.MarketDataClient, endpoint, &response); err != nil {
		return nil, err
	}
	if response.Chart.Error != nil || len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote series for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	var bars []types.OHLCV
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := types.OHLCV{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	zap.L().Info("Historical data retrieved", zap.String("symbol", symbol), zap.Int("bars", len(bars)))
	return bars, nil
}
