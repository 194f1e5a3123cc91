package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"portfolio-data/internal/provider"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	quotePath      = "/v7/finance/quote"

	// Yahoo rejects requests without a browser-ish user agent.
	userAgent = "Mozilla/5.0 (compatible; portfolio-data/1.0)"
)

// Client fetches quote snapshots from the Yahoo Finance quote API.
// One outbound request per symbol; no internal retry.
type Client struct {
	http *resty.Client
}

var _ provider.QuoteProvider = (*Client)(nil)

// New constructs a Client. timeout bounds every request in addition to the
// caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/json"),
	}
}

// quoteEnvelope is the outer shape of the quote API response. Result entries
// stay loosely typed: field presence varies per symbol.
type quoteEnvelope struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
		Error  *apiError        `json:"error"`
	} `json:"quoteResponse"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchSnapshot returns the raw field bag for symbol. Missing fields are
// absence in the bag; only transport, provider and shape failures are errors.
func (c *Client) FetchSnapshot(ctx context.Context, symbol string) (provider.Snapshot, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		Get(quotePath)
	if err != nil {
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchNetwork, Err: err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchNotFound,
			Err: fmt.Errorf("http %d", code)}
	case code == http.StatusTooManyRequests:
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchRateLimited,
			Err: fmt.Errorf("http %d", code)}
	case code >= 400:
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchNetwork,
			Err: fmt.Errorf("http %d", code)}
	}

	var env quoteEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchMalformed, Err: err}
	}
	if env.QuoteResponse.Error != nil {
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchNotFound,
			Err: fmt.Errorf("%s: %s", env.QuoteResponse.Error.Code, env.QuoteResponse.Error.Description)}
	}
	if len(env.QuoteResponse.Result) == 0 {
		return nil, &provider.FetchError{Symbol: symbol, Kind: provider.FetchNotFound,
			Err: fmt.Errorf("no result for %s", symbol)}
	}

	return provider.Snapshot(env.QuoteResponse.Result[0]), nil
}

// GetName returns provider name
func (c *Client) GetName() string { return "Yahoo" }

// Close releases idle connections.
func (c *Client) Close() error {
	if c.http != nil {
		c.http.GetClient().CloseIdleConnections()
	}
	return nil
}
