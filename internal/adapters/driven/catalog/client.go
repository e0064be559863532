package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/logger"
)

const (
	// ProactiveRate throttles outgoing requests (req/sec). The catalog is a
	// shared community API; one sync needs only a handful of calls.
	ProactiveRate = 2

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 64 << 20
)

// Ensure Client implements the interface.
var _ driven.SourceClient = (*Client)(nil)

// Client fetches reference data from the catalog GraphQL endpoint.
type Client struct {
	endpoint   string
	httpc      *http.Client
	limiter    *rate.Limiter
	retryCount int
	retryDelay time.Duration
}

// NewClient creates a catalog client from settings.
func NewClient(settings domain.Settings) *Client {
	return &Client{
		endpoint: settings.Fetch.Endpoint,
		httpc: &http.Client{
			Timeout: settings.FetchTimeout(),
		},
		limiter:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		retryCount: settings.Fetch.RetryCount,
		retryDelay: settings.RetryDelay(),
	}
}

// NewClientWithHTTPClient creates a catalog client with a custom http.Client.
// Useful for tests.
func NewClientWithHTTPClient(endpoint string, httpc *http.Client, retryCount int, retryDelay time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpc:      httpc,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		retryCount: retryCount,
		retryDelay: retryDelay,
	}
}

// Fetch returns all records for the domain. Up to retryCount+1 attempts are
// made with a lightly jittered delay between them; each retry is signalled
// at warning level. After the final attempt the error is terminal for this
// sync cycle and is returned as a *domain.FetchError.
func (c *Client) Fetch(ctx context.Context, d domain.DataDomain) ([]domain.Record, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidInput, d)
	}

	attempts := c.retryCount + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Warn("Fetch %s failed (attempt %d/%d), retrying: %v", d, attempt-1, attempts, lastErr)
			if err := c.sleep(ctx); err != nil {
				return nil, &domain.FetchError{Domain: d, Attempts: attempt - 1, Err: err}
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.FetchError{Domain: d, Attempts: attempt, Err: err}
		}

		records, err := c.query(ctx, d)
		if err == nil {
			logger.Debug("Fetched %d %s records", len(records), d)
			return records, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &domain.FetchError{Domain: d, Attempts: attempts, Err: lastErr}
}

// sleep waits the retry delay plus up to 50% jitter, or until ctx is done.
func (c *Client) sleep(ctx context.Context) error {
	delay := c.retryDelay
	if delay > 0 {
		delay += time.Duration(rand.Int64N(int64(delay)/2 + 1))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// graphqlRequest is the POST body for a query.
type graphqlRequest struct {
	Query string `json:"query"`
}

// graphqlResponse is the envelope every catalog response must match.
type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query performs one fetch attempt and validates the response structurally:
// the domain's payload field must be present and be an array of records
// carrying ids. A response failing validation is an error, never an empty
// dataset, so it cannot overwrite a good cache generation.
func (c *Client) query(ctx context.Context, d domain.DataDomain) ([]domain.Record, error) {
	body, err := json.Marshal(graphqlRequest{Query: queryFor(d)})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, &APIError{Message: envelope.Errors[0].Message}
	}

	payload, ok := envelope.Data[d.PayloadField()]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q field", domain.ErrMalformedResponse, d.PayloadField())
	}

	var records []domain.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: %q is not a record array: %v",
			domain.ErrMalformedResponse, d.PayloadField(), err)
	}
	return records, nil
}
