// Package remote is the thin async request layer over the backend's REST and
// auth endpoints. One method per backend capability, one network round trip
// per call, no retries and no caching; retry policy belongs to the caller.
// Every failure path returns a typed application error.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"elfkoelsch/internal/codec"
	"elfkoelsch/internal/models"
	"elfkoelsch/internal/observability"
)

// DefaultTimeout bounds every request. The source app had none; a hung
// mobile network would hang the UI forever, so the rewrite adds one.
const DefaultTimeout = 10 * time.Second

// Client talks to the backend. Safe for concurrent use; the session token is
// the only mutable state.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *observability.Logger

	mu      sync.RWMutex
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a backend client for the given project URL and anon key.
func NewClient(baseURL, anonKey string, logger *observability.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one round trip and returns the raw body for 2xx responses.
// Non-2xx bodies are parsed for the backend's error message.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, models.NewNetworkError(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, models.NewNetworkError(err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, models.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, models.NewNetworkError(err)
	}
	return raw, resp.StatusCode, nil
}

// backendMessage digs the human-readable error out of a non-2xx body. The
// auth endpoints use several field names depending on the failure.
func backendMessage(raw []byte) string {
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, m := range []string{payload.ErrorDescription, payload.Msg, payload.Message, payload.Error} {
			if m != "" {
				return m
			}
		}
	}
	return "request rejected by backend"
}

func decodeRecords(raw []byte) ([]codec.Record, error) {
	var records []codec.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		// Single-object responses arrive without the array wrapper.
		var one codec.Record
		if err2 := json.Unmarshal(raw, &one); err2 != nil {
			return nil, models.NewNetworkError(err)
		}
		records = []codec.Record{one}
	}
	return records, nil
}

func restError(status int, raw []byte) error {
	return models.NewNetworkError(fmt.Errorf("backend returned %d: %s", status, backendMessage(raw)))
}
