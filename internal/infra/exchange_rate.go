package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"exchange_chat/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

// ExchangeRateClient fetches archive exchange rates from the PrivatBank API.
// One client (and its connection pool) is shared by every command.
type ExchangeRateClient struct {
	apiURL          string
	httpClient      *http.Client
	maxRetries      int
	initialInterval time.Duration
}

var _ domain.RateFetcher = (*ExchangeRateClient)(nil)

// NewExchangeRateClient creates a new exchange rate client
func NewExchangeRateClient() *ExchangeRateClient {
	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 20
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &ExchangeRateClient{
		apiURL: DefaultRateURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		maxRetries:      2,
		initialInterval: 500 * time.Millisecond,
	}
}

// NewExchangeRateClientWithConfig creates a client with custom configuration
func NewExchangeRateClientWithConfig(cfg ExchangeConfig) *ExchangeRateClient {
	client := NewExchangeRateClient()
	if cfg.BaseURL != "" {
		client.apiURL = cfg.BaseURL
	}
	if cfg.TimeoutSec > 0 {
		client.httpClient.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	if cfg.MaxRetries >= 0 {
		client.maxRetries = cfg.MaxRetries
	}
	return client
}

// FetchRates returns the payload for one DD.MM.YYYY date.
// 429/5xx responses and transport errors are retried with exponential backoff.
func (c *ExchangeRateClient) FetchRates(ctx context.Context, date string) (*domain.RatePayload, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	attempt := 0
	operation := func() (*domain.RatePayload, error) {
		attempt++
		payload, err := c.doFetch(ctx, date)
		if err != nil && !domain.IsRetriable(err) {
			return nil, backoff.Permanent(err)
		}
		return payload, err
	}
	notify := func(err error, delay time.Duration) {
		slog.Info("Retrying exchange rate fetch",
			slog.String("date", date),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
	}

	return backoff.RetryNotifyWithData(operation, policy, notify)
}

func (c *ExchangeRateClient) doFetch(ctx context.Context, date string) (*domain.RatePayload, error) {
	reqURL, err := c.requestURL(date)
	if err != nil {
		return nil, domain.NewFatalNetworkError("build url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewFatalNetworkError("build request", err)
	}

	// Add browser-like User-Agent to avoid bot detection
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.NewFatalNetworkError("fetch "+date, ctx.Err())
		}
		return nil, domain.NewNetworkError("fetch "+date, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, domain.NewNetworkError("fetch "+date, statusErr)
		}
		return nil, domain.NewFatalNetworkError("fetch "+date, statusErr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError("read "+date, err)
	}

	var payload domain.RatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.NewFatalNetworkError("decode "+date, err)
	}
	if payload.Date == "" || payload.ExchangeRate == nil {
		return nil, domain.NewFatalNetworkError("decode "+date, domain.ErrUnexpectedPayload)
	}

	return &payload, nil
}

// requestURL builds "<base>?json&date=<date>"; the bare "json" flag is not a key=value pair.
func (c *ExchangeRateClient) requestURL(date string) (string, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return "", err
	}
	u.RawQuery = "json&date=" + url.QueryEscape(date)
	return u.String(), nil
}
