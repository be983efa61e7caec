package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const tokenHeader = "X-Shopify-Access-Token"

// APIError carries a non-2xx Admin API response so handlers can surface
// the platform's own error body.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: status %d: %s", e.StatusCode, e.Body)
}

// Payload returns the decoded error body when it is JSON, the raw string otherwise.
func (e *APIError) Payload() interface{} {
	var v interface{}
	if json.Unmarshal(e.Body, &v) == nil {
		return v
	}
	return string(e.Body)
}

// Client talks to the Shopify Admin REST API. The HTTP client is
// injected so tests can point it at a local server.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	nowFunc func() time.Time // drives the API version path segment
}

// NewClient returns a Client for the given store base URL
// (e.g. "https://example.myshopify.com") and Admin access token.
func NewClient(baseURL, token string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse shopify base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: u,
		token:   token,
		http:    httpClient,
		nowFunc: time.Now,
	}, nil
}

// apiVersion derives the version path segment from the current date.
func (c *Client) apiVersion() string {
	now := c.nowFunc()
	return fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
}

func (c *Client) endpoint(resource, rawQuery string) string {
	rel := &url.URL{
		Path:     fmt.Sprintf("/admin/api/%s/%s", c.apiVersion(), resource),
		RawQuery: rawQuery,
	}
	return c.baseURL.ResolveReference(rel).String()
}

func (c *Client) do(ctx context.Context, method, resource, rawQuery string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(resource, rawQuery), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify %s %s: %w", method, resource, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read shopify response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}

// VariantIDBySKU looks up catalog variants by SKU and adopts the first
// match. Returns found=false when the SKU has no catalog entry.
func (c *Client) VariantIDBySKU(ctx context.Context, sku string) (int64, bool, error) {
	query := url.Values{"sku": []string{sku}}.Encode()
	body, err := c.do(ctx, http.MethodGet, "variants.json", query, nil)
	if err != nil {
		return 0, false, err
	}

	var out struct {
		Variants []struct {
			ID int64 `json:"id"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, false, fmt.Errorf("decode variants response: %w", err)
	}
	if len(out.Variants) == 0 {
		return 0, false, nil
	}
	return out.Variants[0].ID, true, nil
}

// CreateOrder submits one order-creation request and returns the
// platform's raw response body.
func (c *Client) CreateOrder(ctx context.Context, order Order) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		Order Order `json:"order"`
	}{Order: order})
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "orders.json", "", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
