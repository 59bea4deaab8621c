// Package api provides an HTTP client for the storefront backend API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const (
	// Prefix is prepended to every resource path.
	Prefix = "/api/v1/"

	// DefaultTimeout bounds one HTTP attempt.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 10 << 20
)

// TokenStore is the credential storage the client reads and updates.
type TokenStore interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetAccessToken(access string) error
	SetRefreshToken(refresh string) error
	ClearCredentials() error
}

// Options configures a Client.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	WithCredentials bool
	UserAgent       string
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
		c.refreshClient.Transport = rt
	}
}

// WithHooks installs observability hooks.
func WithHooks(h Hooks) Option {
	return func(c *Client) {
		if h != nil {
			c.hooks = h
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAuthFailureHandler sets the callback run after a failed refresh has
// cleared the stored credentials. The hosting application uses it to send
// the user back to login.
func WithAuthFailureHandler(fn func(error)) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// Client sends requests to the storefront API. Every request goes through
// the auth pipeline: bearer decoration, then on a 401 a shared token refresh
// and exactly one retry.
type Client struct {
	baseURL       *url.URL
	timeout       time.Duration
	userAgent     string
	httpClient    *http.Client
	refreshClient *http.Client
	store         TokenStore
	hooks         Hooks
	logger        *slog.Logger
	onAuthFailure func(error)

	refreshGroup singleflight.Group
}

// NewClient creates a client for opts.BaseURL backed by store.
func NewClient(opts Options, store TokenStore, options ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var jar http.CookieJar
	if opts.WithCredentials {
		jar, err = cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
	}

	if store == nil {
		store = emptyStore{}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "globalprint"
	}

	c := &Client{
		baseURL:       base,
		timeout:       timeout,
		userAgent:     userAgent,
		httpClient:    &http.Client{Timeout: timeout, Jar: jar},
		refreshClient: &http.Client{Timeout: timeout, Jar: jar},
		store:         store,
		hooks:         NopHooks{},
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request is one logical API call.
type Request struct {
	Method string
	// Path is relative to Prefix ("products/12/"). Absolute URLs on the
	// client's origin (pagination links) are accepted as is.
	Path  string
	Query url.Values
	// Body is JSON-encoded, unless it is a *Multipart.
	Body any
	// NoRefresh sends a 401 straight back to the caller. Used for the
	// credential endpoints, where a 401 means bad credentials.
	NoRefresh bool
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends req and decodes a successful JSON response into out (which may
// be nil). Failures are always *Error.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	target, err := c.resolve(req)
	if err != nil {
		return err
	}
	p, err := encodeBody(req.Body)
	if err != nil {
		return &Error{Message: "could not encode request body", Status: http.StatusBadRequest, Code: "invalid_body", Cause: err}
	}

	call := &call{
		method:    req.Method,
		url:       target,
		payload:   p,
		requestID: uuid.NewString(),
	}

	resp, err := c.roundTrip(ctx, call, !req.NoRefresh)
	if err != nil {
		return err
	}
	if resp.status < 200 || resp.status > 299 {
		return NormalizeResponse(resp.status, resp.body)
	}
	return decode(resp, out)
}

// call is the state shared by the attempts of one request.
type call struct {
	method    string
	url       string
	payload   *payload
	requestID string
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// send performs one HTTP attempt with token as the bearer credential.
func (c *Client) send(ctx context.Context, cl *call, token string, attempt int) (*rawResponse, error) {
	var body io.Reader
	if cl.payload != nil {
		body = bytes.NewReader(cl.payload.data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, cl.method, cl.url, body)
	if err != nil {
		return nil, &Error{Message: "could not build request", Status: http.StatusBadRequest, Cause: err}
	}
	c.decorate(httpReq, cl, token)

	info := RequestInfo{Method: cl.method, URL: cl.url, Attempt: attempt, RequestID: cl.requestID}
	ctx = c.hooks.OnRequestStart(ctx, info)
	c.logger.Debug("api request", "method", cl.method, "path", httpReq.URL.Path, "attempt", attempt, "request_id", cl.requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		e := NormalizeTransport(err)
		c.hooks.OnRequestEnd(ctx, info, RequestResult{Duration: time.Since(start), Error: e})
		c.logger.Debug("api request failed", "method", cl.method, "path", httpReq.URL.Path, "error", err)
		return nil, e
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	duration := time.Since(start)
	if err != nil {
		e := NormalizeTransport(err)
		c.hooks.OnRequestEnd(ctx, info, RequestResult{StatusCode: resp.StatusCode, Duration: duration, Error: e})
		return nil, e
	}

	c.hooks.OnRequestEnd(ctx, info, RequestResult{StatusCode: resp.StatusCode, Duration: duration})
	c.logger.Debug("api response", "method", cl.method, "path", httpReq.URL.Path, "status", resp.StatusCode, "duration", duration)

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// resolve turns a request path into an absolute URL on the client's origin.
func (c *Client) resolve(req *Request) (string, error) {
	switch req.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return "", unsupportedMethod(req.Method)
	}

	var u *url.URL
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		parsed, err := url.Parse(req.Path)
		if err != nil {
			return "", &Error{Message: "invalid request URL", Status: http.StatusBadRequest, Cause: err}
		}
		// Never send credentials to another origin
		if parsed.Scheme != c.baseURL.Scheme || parsed.Host != c.baseURL.Host {
			return "", &Error{Message: fmt.Sprintf("refusing request to foreign origin %s", parsed.Host), Status: http.StatusBadRequest, Code: "foreign_origin"}
		}
		u = parsed
	} else {
		u = c.endpoint(req.Path)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// endpoint joins path under the API prefix. Paths that already start with
// the prefix are left alone.
func (c *Client) endpoint(path string) *url.URL {
	path = strings.TrimPrefix(path, "/")
	full := Prefix + path
	if strings.HasPrefix("/"+path, Prefix) {
		full = "/" + path
	}

	u := *c.baseURL
	rawQuery := ""
	if i := strings.IndexByte(full, '?'); i >= 0 {
		full, rawQuery = full[:i], full[i+1:]
	}
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + full
	u.RawQuery = rawQuery
	return &u
}

func decode(resp *rawResponse, out any) error {
	if out == nil || resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Message: "invalid response body", Status: resp.status, Code: "invalid_response", Cause: err}
	}
	return nil
}

type emptyStore struct{}

func (emptyStore) AccessToken() (string, bool)  { return "", false }
func (emptyStore) RefreshToken() (string, bool) { return "", false }
func (emptyStore) SetAccessToken(string) error  { return nil }
func (emptyStore) SetRefreshToken(string) error { return nil }
func (emptyStore) ClearCredentials() error      { return nil }
