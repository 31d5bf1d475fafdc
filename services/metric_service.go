package services

import (
	"stockinsight/types"
	"stockinsight/utils/helpers"
)

// Estimate splits used when no discrete shareholding breakdown is
// available. These are conservative defaults for large Indian
// companies, not measured data; the result is tagged Estimated.
const (
	defaultPromoterHolding = 45.0
	defaultFIIHolding      = 15.0
	defaultDIIHolding      = 8.0
	defaultQIBHolding      = 2.0
	defaultRetailHolding   = 30.0

	fiiShareOfInstitutions = 0.65
	diiShareOfInstitutions = 0.35
	qibShareOfInstitutions = 0.10
)

// DeriveMetrics computes the secondary ratio bag from a raw snapshot.
// Every output is independently nullable; missing or zero inputs yield
// a nil metric, never a panic or a non-finite number.
func DeriveMetrics(raw *types.RawFinancials) *types.DerivedMetrics {
	derived := &types.DerivedMetrics{}
	if raw == nil {
		derived.Shareholding = estimatedShareholding(nil, nil)
		return derived
	}

	// Upstream reports these as fractions; the percent conversion
	// happens here and nowhere else.
	derived.ROE = helpers.FracToPercent(raw.ReturnOnEquityFrac)
	derived.ROCE = helpers.FracToPercent(raw.ReturnOnAssetsFrac)
	derived.DividendYield = helpers.FracToPercent(raw.DividendYieldFrac)
	derived.RevenueGrowth = helpers.FracToPercent(raw.RevenueGrowthFrac)
	derived.EarningsGrowth = helpers.FracToPercent(raw.EarningsGrowthFrac)
	derived.ProfitMargin = helpers.FracToPercent(raw.ProfitMarginFrac)
	derived.OperatingMargin = helpers.FracToPercent(raw.OperatingMarginFrac)

	derived.EPS = raw.EPS
	derived.CurrentRatio = raw.CurrentRatio
	derived.QuickRatio = raw.QuickRatio
	derived.DebtToEquity = raw.DebtToEquity

	derived.PerfVs52WeekHigh = relativePerformance(raw.CurrentPrice, raw.FiftyTwoWeekHigh)
	derived.PerfVs52WeekLow = relativePerformance(raw.CurrentPrice, raw.FiftyTwoWeekLow)

	derived.YearPerformance = yearPerformance(raw.History)
	derived.Volatility = volatility(raw.History)
	derived.AverageVolume = averageVolume(raw.History)

	if raw.ScrapedShareholding != nil {
		derived.Shareholding = completeShareholding(*raw.ScrapedShareholding)
	} else {
		derived.Shareholding = estimatedShareholding(raw.HeldByInsidersFrac, raw.HeldByInstitutionsFrac)
	}

	return derived
}

// relativePerformance is the percent distance of price from reference,
// e.g. -12.0 means trading 12% below the 52-week high.
func relativePerformance(price, reference *float64) *float64 {
	ratio := helpers.SafeDivide(price, reference)
	if ratio == nil {
		return nil
	}
	perf := (*ratio - 1) * 100
	return &perf
}

func yearPerformance(history []types.OHLCV) *float64 {
	if len(history) < 2 {
		return nil
	}
	first := history[0].Close
	last := history[len(history)-1].Close
	if first == 0 {
		return nil
	}
	perf := (last - first) / first * 100
	return &perf
}

// volatility is the sample standard deviation of day-over-day percent
// returns across the trailing window.
func volatility(history []types.OHLCV) *float64 {
	if len(history) < 3 {
		return nil
	}
	var returns []float64
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (history[i].Close-prev)/prev*100)
	}
	if len(returns) < 2 {
		return nil
	}
	v := helpers.StdDev(returns)
	return &v
}

func averageVolume(history []types.OHLCV) *float64 {
	if len(history) == 0 {
		return nil
	}
	var volumes []float64
	for _, bar := range history {
		volumes = append(volumes, float64(bar.Volume))
	}
	avg := helpers.Mean(volumes)
	return &avg
}

// completeShareholding fills the gaps of a discrete scraped breakdown
// with defaults, keeping Estimated false because the headline numbers
// are sourced.
func completeShareholding(scraped types.ShareholdingPattern) types.ShareholdingPattern {
	if scraped.QIB == nil {
		scraped.QIB = helpers.Float64Ptr(defaultQIBHolding)
	}
	if scraped.Retail == nil && scraped.Promoter != nil && scraped.FII != nil && scraped.DII != nil {
		retail := 100 - *scraped.Promoter - *scraped.FII - *scraped.DII
		scraped.Retail = helpers.Float64Ptr(clampPercent(retail))
	}
	scraped.Estimated = false
	return scraped
}

// estimatedShareholding approximates the split from aggregate insider
// and institutional holding fractions, with fixed proportional shares.
func estimatedShareholding(insidersFrac, institutionsFrac *float64) types.ShareholdingPattern {
	pattern := types.ShareholdingPattern{
		Promoter:  helpers.Float64Ptr(defaultPromoterHolding),
		FII:       helpers.Float64Ptr(defaultFIIHolding),
		DII:       helpers.Float64Ptr(defaultDIIHolding),
		QIB:       helpers.Float64Ptr(defaultQIBHolding),
		Retail:    helpers.Float64Ptr(defaultRetailHolding),
		Estimated: true,
	}

	if insidersFrac != nil && *insidersFrac > 0 {
		pattern.Promoter = helpers.Float64Ptr(clampPercent(*insidersFrac * 100))
	}
	if institutionsFrac != nil && *institutionsFrac > 0 {
		pattern.FII = helpers.Float64Ptr(clampPercent(*institutionsFrac * fiiShareOfInstitutions * 100))
		pattern.DII = helpers.Float64Ptr(clampPercent(*institutionsFrac * diiShareOfInstitutions * 100))
		pattern.QIB = helpers.Float64Ptr(clampPercent(*institutionsFrac * qibShareOfInstitutions * 100))
	}
	if insidersFrac != nil && institutionsFrac != nil {
		retail := 100 - *insidersFrac*100 - *institutionsFrac*100
		pattern.Retail = helpers.Float64Ptr(clampPercent(retail))
	}

	return pattern
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
