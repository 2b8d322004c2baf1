// Package gateway is the thin REST client for the hosted backend: credential
// exchange, table select/insert/update with eq filters, and object storage.
// The client owns no state; every method is a single round trip and performs
// no retries. Retry policy, if any, belongs to callers.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TamilFM/model"
)

// Client talks to the backend REST surface. Safe for concurrent use.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewClient constructs a gateway client. A nil httpClient gets a 15s-timeout default.
func NewClient(baseURL, anonKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: httpClient,
	}
}

// newRequest builds a request with the backend's required headers. An empty
// token falls back to the anon key as the bearer, matching the backend's
// convention for unauthenticated table reads.
func (c *Client) newRequest(ctx context.Context, method, url, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes the request. Transport-level failures map to model.ErrNetwork;
// non-2xx responses surface the backend's error text.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: %w: %v", req.Method, req.URL.Path, model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read response: %w: %v", model.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, data)
	}
	return data, nil
}

// statusError turns a non-2xx response into a taxonomy error carrying the
// backend's message when one is present.
func statusError(status int, body []byte) error {
	msg := errorMessage(body)
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("gateway: %w: %s", model.ErrNotFound, msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("gateway: %w: %s", model.ErrAuth, msg)
	default:
		return fmt.Errorf("gateway: status %d: %s", status, msg)
	}
}

// errorMessage pulls the human-readable message out of a backend error body.
// The auth endpoints use error_description, the rest API uses message or msg.
func errorMessage(body []byte) string {
	var e struct {
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.ErrorDescription, e.Message, e.Msg} {
			if m != "" {
				return m
			}
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return "request failed"
}
