package services

import (
	"context"
	"errors"

	"stockinsight/clients/screener"
	"stockinsight/clients/yahoo"
	"stockinsight/types"

	"go.uber.org/zap"
)

// ErrDataUnavailable is returned when the market data provider has no
// usable price on either exchange. It is the only fetch failure mode
// surfaced to the caller.
var ErrDataUnavailable = errors.New("no usable market data for the symbol")

// StockService runs the per-query pipeline. It is constructed once at
// process start and is safe for concurrent use: every query builds its
// own RawFinancials and DerivedMetrics, nothing is shared or cached.
type StockService struct {
	ai *AIService
}

func NewStockService(ai *AIService) *StockService {
	return &StockService{ai: ai}
}

// Analyze resolves a free-text query and runs the full pipeline. The
// only errors that escape are ErrInvalidSymbol and ErrDataUnavailable;
// everything downstream fails soft into the rule-based analysis.
func (s *StockService) Analyze(ctx context.Context, query string) (*types.StockAnalysis, error) {
	symbol, err := ResolveSymbol(query)
	if err != nil {
		return nil, err
	}

	raw, err := s.FetchFinancials(ctx, symbol)
	if err != nil {
		return nil, err
	}

	derived := DeriveMetrics(raw)
	analysis := s.ai.AnalyzeStock(ctx, raw, derived)

	return &types.StockAnalysis{
		Raw:      raw,
		Derived:  derived,
		Analysis: analysis,
	}, nil
}

// FetchFinancials pulls the upstream snapshot for an exchange-qualified
// symbol, retrying the alternate exchange when the primary listing has
// no price. History and the shareholding scrape are best-effort.
func (s *StockService) FetchFinancials(ctx context.Context, symbol string) (*types.RawFinancials, error) {
	raw, err := yahoo.FetchQuoteSummary(ctx, symbol)
	if err != nil || raw == nil || raw.CurrentPrice == nil {
		alternate := AlternateExchange(symbol)
		if alternate == symbol {
			return nil, ErrDataUnavailable
		}
		zap.L().Info("Primary exchange had no price, retrying alternate",
			zap.String("symbol", symbol),
			zap.String("alternate", alternate))
		raw, err = yahoo.FetchQuoteSummary(ctx, alternate)
		if err != nil || raw == nil || raw.CurrentPrice == nil {
			return nil, ErrDataUnavailable
		}
		symbol = alternate
	}

	history, err := yahoo.FetchHistory(ctx, symbol)
	if err != nil {
		zap.L().Warn("Historical data fetch failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		raw.History = history
	}

	shareholding, err := screener.FetchShareholding(ctx, symbol)
	if err != nil {
		zap.L().Warn("Shareholding scrape failed, estimates will be used",
			zap.String("symbol", symbol), zap.Error(err))
	} else {
		raw.ScrapedShareholding = shareholding
	}

	return raw, nil
}
