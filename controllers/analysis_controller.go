package controllers

import (
	"errors"

	"stockinsight/services"
	"stockinsight/utils/helpers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnalysisControllerI interface {
	AnalyzeStock(ctx *gin.Context)
}

type analysisController struct {
	stocks *services.StockService
}

func NewAnalysisController(stocks *services.StockService) AnalysisControllerI {
	return &analysisController{stocks: stocks}
}

// AnalyzeStock runs the full pipeline for a free-text query, e.g.
// GET /api/analyzeStock?q=analyze+TCS
func (a *analysisController) AnalyzeStock(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(400, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	requestID := uuid.NewString()
	zap.L().Info("Analysis request received",
		zap.String("requestId", requestID),
		zap.String("query", query))

	result, err := a.stocks.Analyze(ctx.Request.Context(), query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSymbol) {
			ctx.JSON(400, gin.H{
				"error": "Could not identify a stock symbol in your query. Try something like 'analyze TCS' or a plain NSE ticker.",
			})
			return
		}
		if errors.Is(err, services.ErrDataUnavailable) {
			ctx.JSON(502, gin.H{
				"error": "No market data is available for that symbol right now. Please verify the symbol and try again.",
			})
			return
		}
		zap.L().Error("Unexpected analysis failure",
			zap.String("requestId", requestID),
			zap.Error(err))
		ctx.JSON(500, gin.H{"error": "Analysis failed. Please try again later."})
		return
	}

	marketCapCategory := "Unknown Category"
	if result.Raw.MarketCap != nil {
		// Yahoo reports rupees; the bucket table works in crore.
		marketCapCategory = helpers.GetMarketCapCategory(*result.Raw.MarketCap / 1e7)
	}

	zap.L().Info("Analysis request served",
		zap.String("requestId", requestID),
		zap.String("symbol", result.Raw.Symbol),
		zap.String("source", result.Analysis.Source))

	ctx.JSON(200, gin.H{
		"requestId":         requestID,
		"symbol":            result.Raw.Symbol,
		"companyName":       result.Raw.CompanyName,
		"marketCapCategory": marketCapCategory,
		"raw":               result.Raw,
		"derived":           result.Derived,
		"analysis":          result.Analysis,
	})
}
