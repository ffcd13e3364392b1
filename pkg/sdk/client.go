package sdk

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenHeader is the header wazo-auth reads the session token from.
const TokenHeader = "X-Auth-Token"

const defaultTimeout = 10 * time.Second

// Client provides a high-level interface to the wazo-auth REST API.
// It is not safe for concurrent use while the token is being changed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	tokens     oauth2.TokenSource
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	TLSConfig  *tls.Config
	UserAgent  string
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithTLSConfig sets the TLS configuration of the default transport.
// It is ignored when WithHTTPClient is also supplied.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(opts *ClientOptions) {
		opts.TLSConfig = cfg
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(opts *ClientOptions) {
		opts.UserAgent = ua
	}
}

// NewClient creates a wazo-auth client for the API rooted at baseURL
// (e.g. https://localhost:9497/0.1).
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{UserAgent: "wazo-auth-cli"}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.TLSConfig != nil {
			transport.TLSClientConfig = opts.TLSConfig
		}
		opts.HTTPClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken makes every following request carry token.
func (c *Client) SetToken(token string) {
	if token == "" {
		c.tokens = nil
		return
	}
	c.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// SetTokenSource makes every following request carry the token yielded by ts.
func (c *Client) SetTokenSource(ts oauth2.TokenSource) {
	c.tokens = ts
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// basic auth replaces the token header when set
	username string
	password string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case r.username != "":
		req.SetBasicAuth(r.username, r.password)
	case c.tokens != nil:
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("obtain token: %w", err)
		}
		req.Header.Set(TokenHeader, tok.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
