package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"storesync_api/pkg/logger"
)

type staticTokens struct{}

func (staticTokens) Token(context.Context) (string, error) { return "test-token", nil }

func testLogger() logger.Logger {
	return logger.NewLogger(io.Discard, "[test]")
}

func TestCallRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "sub-key" {
			t.Errorf("missing subscription key, got %q", got)
		}
		w.Write([]byte(`{"totalCount": 1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sub-key", staticTokens{}, testLogger())

	var out struct {
		TotalCount int `json:"totalCount"`
	}
	if err := client.Call(context.Background(), http.MethodGet, "/catalog/search", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalCount != 1 {
		t.Fatalf("expected decoded body, got %+v", out)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestCallDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such item"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sub-key", staticTokens{}, testLogger())

	err := client.Call(context.Background(), http.MethodGet, "/catalog/items/detail", nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", statusErr.StatusCode)
	}
	if statusErr.Body == "" {
		t.Fatal("expected the response body carried for diagnostics")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestCallGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sub-key", staticTokens{}, testLogger())

	err := client.Call(context.Background(), http.MethodGet, "/pricing/quotes", nil, nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a StatusError, got %v", err)
	}
	if calls.Load() != maxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", maxRetries+1, calls.Load())
	}
}

func TestCallEmptyBodyLeavesOutputUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sub-key", staticTokens{}, testLogger())

	out := map[string]interface{}{}
	if err := client.Call(context.Background(), http.MethodGet, "/catalog/search", nil, &out); err != nil {
		t.Fatalf("empty body must not error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected an empty object, got %v", out)
	}
}

func TestRetryDelayCapped(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		delay := retryDelay(attempt)
		if delay < retryBaseDelay {
			t.Fatalf("attempt %d: delay %v below base", attempt, delay)
		}
		if delay > retryMaxDelay+retryMaxDelay/2 {
			t.Fatalf("attempt %d: delay %v above cap plus jitter", attempt, delay)
		}
	}
}
