package screener

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"stockinsight/clients/http_client"
	"stockinsight/types"
	"stockinsight/utils/helpers"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var once sync.Once

var screenerURL = ""

func initConfig() {
	once.Do(func() {
		screenerURL = os.Getenv("SCREENER_URL")
		if screenerURL == "" {
			screenerURL = "https://www.screener.in"
		}
	})
}

// FetchShareholding scrapes the discrete shareholding breakdown for an
// NSE ticker. The scrape is best-effort: any failure returns an error
// and the caller falls back to estimated splits.
func FetchShareholding(ctx context.Context, symbol string) (*types.ShareholdingPattern, error) {
	initConfig()

	// Screener pages are keyed by the bare NSE code.
	code := strings.TrimSuffix(strings.TrimSuffix(symbol, ".NS"), ".BO")
	pageURL := fmt.Sprintf("%s/company/%s/consolidated/", screenerURL, code)

	body, err := http_client.GetPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the company page: %v", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the HTML content: %v", err)
	}

	section := doc.Find("section#shareholding")
	if section.Length() == 0 {
		return nil, fmt.Errorf("no shareholding section for %s", code)
	}

	pattern := parseShareholdingTable(section.Find("div#quarterly-shp"))
	if pattern == nil {
		return nil, fmt.Errorf("shareholding table empty for %s", code)
	}

	zap.L().Info("Discrete shareholding scraped", zap.String("symbol", symbol))
	return pattern, nil
}

// parseShareholdingTable reads the latest column of the quarterly
// shareholding table. Row labels carry the holder category.
func parseShareholdingTable(table *goquery.Selection) *types.ShareholdingPattern {
	pattern := &types.ShareholdingPattern{}
	found := false

	table.Find("table.data-table tbody tr").Each(func(index int, row *goquery.Selection) {
		label := helpers.NormalizeString(row.Find("td.text").Text())
		if label == "" {
			return
		}

		// Latest quarter is the last value cell in the row.
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		latest := strings.TrimSpace(cells.Eq(cells.Length() - 1).Text())
		value := helpers.ParseFloat(latest)
		if value == nil {
			return
		}

		switch {
		case strings.Contains(label, "promoter"):
			pattern.Promoter = value
			found = true
		case strings.Contains(label, "fii"), strings.Contains(label, "foreign"):
			pattern.FII = value
			found = true
		case strings.Contains(label, "dii"), strings.Contains(label, "domestic"):
			pattern.DII = value
			found = true
		case strings.Contains(label, "public"), strings.Contains(label, "retail"):
			pattern.Retail = value
			found = true
		}
	})

	if !found {
		return nil
	}
	return pattern
}
