// Package wikidata implements the optional revenue enrichment: a small
// Wikidata API client with retry/backoff, and a bounded-concurrency backfill
// pass over aggregated movies.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Revenue, Backfill).
//   - Handle transient failures with exponential backoff.
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package wikidata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultEndpoint is the public Wikidata API.
const DefaultEndpoint = "https://www.wikidata.org/w/api.php"

// revenueProperty is the box-office revenue claim on a Wikidata entity.
const revenueProperty = "P2142"

// Config configures the Wikidata client.
//
// Zero values are given sensible defaults:
//   - Endpoint:       DefaultEndpoint
//   - Timeout:        30s
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// Endpoint is the API base URL.
	Endpoint string

	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int

	// InitialBackoff is the base backoff duration for the first retry. Each
	// subsequent retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// Transport is an optional custom RoundTripper, injectable for tests.
	Transport http.RoundTripper
}

// Client looks up revenue claims on Wikidata entities.
type Client struct {
	endpoint       string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults for zero
// values.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}
}

// entityResponse is the slice of the wbgetentities payload this client
// consumes: the first revenue claim's amount, nothing else.
type entityResponse struct {
	Entities map[string]struct {
		Claims map[string][]struct {
			Mainsnak struct {
				Datavalue struct {
					Value struct {
						Amount string `json:"amount"`
					} `json:"value"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
}

// Revenue fetches the box-office revenue claim for one entity id. A nil
// result with a nil error means the entity exists but carries no revenue
// claim; that is a miss, not a failure.
func (c *Client) Revenue(ctx context.Context, entityID string) (*float64, error) {
	if entityID == "" {
		return nil, fmt.Errorf("wikidata: entity id must not be empty")
	}

	q := url.Values{
		"action":    {"wbgetentities"},
		"ids":       {entityID},
		"format":    {"json"},
		"languages": {"en"},
	}
	body, err := c.get(ctx, c.endpoint+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp entityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("wikidata: decode response for %s: %w", entityID, err)
	}

	entity, ok := resp.Entities[entityID]
	if !ok {
		return nil, nil
	}
	claims, ok := entity.Claims[revenueProperty]
	if !ok || len(claims) == 0 {
		return nil, nil
	}

	amount, err := strconv.ParseFloat(claims[0].Mainsnak.Datavalue.Value.Amount, 64)
	if err != nil {
		return nil, fmt.Errorf("wikidata: parse amount for %s: %w", entityID, err)
	}
	return &amount, nil
}

// get issues a GET with retry and backoff on transient failures and returns
// the response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("wikidata: build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else if isRetryableStatus(resp.StatusCode) {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("wikidata: retryable status %d from %s", resp.StatusCode, url)
		} else if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			return nil, fmt.Errorf("wikidata: status %d from %s", resp.StatusCode, url)
		} else {
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("wikidata: read response: %w", err)
			}
			return body, nil
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}
		if err := sleepWithContext(ctx, c.sleep, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// isRetryableStatus treats 5xx and 429 as transient; everything else is
// final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff duration for the given
// retry index, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

// sleepWithContext sleeps for d using the provided sleep function, aborting
// early if ctx is canceled.
func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
