// Package overview talks to the HTTP endpoint hosting the shared overview
// document. The document body is an opaque encrypted envelope; the server
// tracks a version per document and rejects stale writes.
package overview

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/netx"
)

// TokenSource returns a bearer token for writes.
type TokenSource func() (string, error)

// Client reads and replaces the overview document.
type Client struct {
	url    string
	http   *http.Client
	tokens TokenSource
}

// NewClient returns a Client for the document at url. httpClient may be nil.
func NewClient(url string, httpClient *http.Client, tokens TokenSource) *Client {
	return &Client{url: url, http: httpClient, tokens: tokens}
}

// Get fetches the document. An empty document ("{}" body) is returned as
// nil data; version 0 means the document was never written.
func (c *Client) Get(ctx context.Context) ([]byte, int64, error) {
	resp, err := netx.Do(ctx, c.http, http.MethodGet, c.url, nil, nil)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("get overview: unexpected status %d", resp.StatusCode)
	}

	var version int64
	if tag := resp.Header.Get("ETag"); tag != "" {
		if version, err = netx.ParseETag(tag); err != nil {
			return nil, 0, fmt.Errorf("get overview: bad etag %q: %w", tag, err)
		}
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || string(body) == "{}" {
		return nil, version, nil
	}
	return body, version, nil
}

// Put replaces the document, conditional on the server still holding
// version. It returns the new version; a stale version yields
// common.ErrVersionConflict.
func (c *Client) Put(ctx context.Context, body []byte, version int64) (int64, error) {
	h := http.Header{}
	h.Set("Content-type", "application/json")
	h.Set("If-Match", netx.FormatETag(version))

	if c.tokens != nil {
		tok, err := c.tokens()
		if err != nil {
			return 0, fmt.Errorf("put overview: token: %w", err)
		}
		h.Set("Authorization", "Bearer "+tok)
	}

	resp, err := netx.Do(ctx, c.http, http.MethodPut, c.url, body, h)
	if err != nil {
		return 0, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
	case http.StatusPreconditionFailed:
		return 0, common.ErrVersionConflict
	case http.StatusUnauthorized:
		return 0, common.ErrorUnauthorized
	default:
		return 0, fmt.Errorf("put overview: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	next, err := netx.ParseETag(resp.Header.Get("ETag"))
	if err != nil {
		return 0, fmt.Errorf("put overview: bad etag: %w", err)
	}
	return next, nil
}

// Ping reports whether the endpoint answers at all.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := netx.Do(ctx, c.http, http.MethodGet, c.url, nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping overview: status %d", resp.StatusCode)
	}
	return nil
}
