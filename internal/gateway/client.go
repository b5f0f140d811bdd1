// Package gateway is the outbound HTTP side of the system: read-through
// proxies to the sibling service and the best-effort statistics report.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Response is a remote reply that actually arrived, whatever its status.
// Transport failures are returned as errors instead and must never leak
// connection internals to clients.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Message extracts the "message" field of an error envelope, if present.
func (r *Response) Message() string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return ""
	}
	return env.Message
}

type Client struct {
	base string
	name string
	http *http.Client
}

// NewClient builds a client for one sibling service. The timeout is the only
// deadline applied; there are no retries and no per-call overrides.
func NewClient(base, name string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		name: name,
		http: &http.Client{Timeout: timeout},
	}
}

// Name is the human-readable service name used in generic failure messages.
func (c *Client) Name() string { return c.name }

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
