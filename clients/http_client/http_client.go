package http_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Browser-like UA so public market data endpoints do not reject us.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MarketDataClient is the shared client for market data calls.
var MarketDataClient = &http.Client{Timeout: 15 * time.Second}

// LLMClient is the shared client for model provider calls, which get a
// longer budget than data fetches.
var LLMClient = &http.Client{Timeout: 30 * time.Second}

// GetJSON fetches url and decodes the body into out. Non-2xx responses
// are returned as errors, not decoded.
func GetJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		zap.L().Error("Failed to decode JSON response", zap.String("url", url), zap.Error(err))
		return err
	}
	return nil
}

// GetPage fetches url and returns the response body for HTML parsing.
// The caller owns closing the reader.
func GetPage(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := MarketDataClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the URL: %v", err)
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to retrieve the content, status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
