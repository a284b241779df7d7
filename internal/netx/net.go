// Package netx wraps the plain HTTP request/response exchanges the client
// makes against the overview endpoint and blob URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do sends one request with the given body and headers and reads the whole
// response. A nil client means http.DefaultClient. Non-2xx statuses are not
// errors here; callers inspect StatusCode.
func Do(ctx context.Context, client *http.Client, method, url string, body []byte, header http.Header) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// Fetch performs a GET and fails on any non-200 status.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	resp, err := Do(ctx, client, http.MethodGet, url, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %d %s; body: %s", resp.StatusCode, http.StatusText(resp.StatusCode), string(resp.Body))
	}
	return resp.Body, nil
}
