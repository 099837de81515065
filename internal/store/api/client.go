// Package api is a store backed by the remote bills REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/store"
)

const defaultTimeout = 15 * time.Second

// Client lists bills from GET {base}/bills.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

var (
	_ store.Store      = (*Client)(nil)
	_ store.BillLister = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client. The bearer token, if any, is
// layered over its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for baseURL. A non-empty token is sent as a bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  log.Default().WithComponent(log.ComponentAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	if token != "" {
		base := c.http.Transport
		c.http = &http.Client{
			Timeout:       c.http.Timeout,
			CheckRedirect: c.http.CheckRedirect,
			Jar:           c.http.Jar,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
				Base:   base,
			},
		}
	}
	return c
}

func (c *Client) Bills() store.BillLister {
	return c
}

// List fetches the bills of the context user. A non-2xx answer becomes an
// error reading "Erreur <status>", shown to the user as is.
func (c *Client) List(ctx context.Context) ([]core.Bill, error) {
	endpoint := c.baseURL + "/bills"
	if u, ok := core.UserFromContext(ctx); ok && !u.SeesAllBills() && u.Email != "" {
		endpoint += "?" + url.Values{"email": {u.Email}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build bills request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get bills: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Bills API answered",
		log.FieldOperation, log.OpList,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("Erreur %d", resp.StatusCode)
	}

	var bills []core.Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("decode bills: %w", err)
	}
	return store.ScopeToUser(ctx, bills), nil
}
