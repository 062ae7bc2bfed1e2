// Package httpx is the outbound JSON-over-HTTP layer shared by the upstream
// API clients: a request primitive, a 429 retry decorator and a typed
// upstream error.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx upstream response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// StatusOf returns the upstream status carried by err, or 0 when err is not
// an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// MessageOf returns the upstream message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type Options struct {
	BaseURL string
	Doer    Doer
	Headers map[string]string

	// ErrorMessage pulls the human-readable message out of an error body.
	// An empty result falls back to the status text.
	ErrorMessage func(status int, body []byte) string
}

type Client struct {
	baseURL      string
	doer         Doer
	headers      http.Header
	errorMessage func(int, []byte) string
}

func NewClient(opts Options) *Client {
	doer := opts.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	headers := make(http.Header, len(opts.Headers)+1)
	headers.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		doer:         doer,
		headers:      headers,
		errorMessage: opts.ErrorMessage,
	}
}

// Call sends in as the JSON body (nil for none) and decodes a 2xx JSON
// response into out (nil to discard).
func (c *Client) Call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if c.errorMessage != nil {
			msg = c.errorMessage(resp.StatusCode, raw)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: msg, Body: raw}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
