package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"storesync_api/internal/supplier/business/models/dto/request"
	"storesync_api/internal/supplier/business/models/dto/response"
	"storesync_api/metrics"
	"storesync_api/pkg/logger"
)

const (
	maxRetries     = 3
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
	maxErrorBody   = 512
	requestLimit   = 5 // requests per second against the supplier API
)

const (
	searchPath = "/catalog/search"
	detailPath = "/catalog/items/detail"
	pricePath  = "/pricing/quotes"
)

// StatusError is a non-2xx supplier response, carrying a truncated body
// for diagnostics.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("supplier request failed: %s", e.Status)
	}
	return fmt.Sprintf("supplier request failed: %s: %s", e.Status, e.Body)
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	delay := retryBaseDelay << attempt
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	// jitter up to half the delay keeps herds apart
	return delay + time.Duration(rand.Int63n(int64(delay)/2+1))
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

// Client is the authenticated JSON client for the supplier API.
type Client struct {
	baseURL         string
	subscriptionKey string
	tokens          TokenSource
	httpClient      *http.Client
	limiter         *rate.Limiter
	log             logger.Logger
}

func NewClient(baseURL, subscriptionKey string, tokens TokenSource, log logger.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		subscriptionKey: subscriptionKey,
		tokens:          tokens,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		limiter:         rate.NewLimiter(rate.Limit(requestLimit), requestLimit),
		log:             log,
	}
}

// Call issues one authenticated request, retrying up to maxRetries
// times on 429/5xx with exponential backoff. An empty 2xx body leaves
// out untouched, which callers read as an empty object.
func (c *Client) Call(ctx context.Context, method, path string, body, out interface{}) error {
	for attempt := 0; ; attempt++ {
		err := c.do(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || !isRetryable(err) {
			return err
		}
		metrics.RecordSupplierRetry()
		c.log.Log("retrying %s %s after error (attempt %d/%d): %v", method, path, attempt+1, maxRetries, err)
		if sleepErr := sleepWithContext(ctx, retryDelay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("acquiring token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	endpoint := path
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	metrics.RecordSupplierRequest(endpoint, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncateBody(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func (c *Client) SearchItems(ctx context.Context, req request.SearchRequest) (*response.SearchResponse, error) {
	var resp response.SearchResponse
	if err := c.Call(ctx, http.MethodPost, searchPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemDetail fetches the raw detail document for a part number under
// the given part-number type.
func (c *Client) ItemDetail(ctx context.Context, partNumber string, partType int) (map[string]interface{}, error) {
	path := fmt.Sprintf("%s?partNumber=%s&partNumberType=%d", detailPath, url.QueryEscape(partNumber), partType)
	detail := map[string]interface{}{}
	if err := c.Call(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (c *Client) PriceLines(ctx context.Context, req request.PriceRequest) (*response.PriceResponse, error) {
	var resp response.PriceResponse
	if err := c.Call(ctx, http.MethodPost, pricePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
