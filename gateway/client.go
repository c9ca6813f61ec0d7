// Package gateway is the outbound HTTP layer of the admin client. Every
// request gains a bearer Authorization header when a persisted access token
// exists, and every 401 response purges the credential store and notifies
// the registered session-invalidated hooks before the call fails with
// ErrSessionExpired. The gateway never navigates or touches UI state; the
// embedding layer decides what "go back to login" means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-client/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Pagination echoes the backend's pagination block on list responses.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// envelope is the uniform wrapper around every backend response.
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

// Client is the API gateway client. Construct with New; zero value is not
// usable.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      credentials.Store
	log        zerolog.Logger
	userAgent  string

	hooksLock        sync.Mutex
	invalidatedHooks []func()
}

// Option modifies a Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped for bearer injection.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the gateway logger (disabled by default).
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a gateway client for the given API base URL. The credential
// store is read on every request for the bearer header and cleared whenever
// the backend answers 401.
func New(baseURL string, store credentials.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("[gateway.New] credential store is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "[gateway.New] invalid base URL")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("[gateway.New] base URL must be absolute")
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		log:        zerolog.Nop(),
		userAgent:  "go-admin-client",
	}

	for _, opt := range options {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	// Shallow copy so the caller's client is not mutated.
	hc := *c.httpClient
	hc.Transport = &bearerTransport{base: base, store: store}
	c.httpClient = &hc

	return c, nil
}

// OnSessionInvalidated registers a hook fired after a 401 has purged the
// credential store. Hooks run synchronously on the calling goroutine.
func (c *Client) OnSessionInvalidated(fn func()) {
	if fn == nil {
		return
	}
	c.hooksLock.Lock()
	defer c.hooksLock.Unlock()
	c.invalidatedHooks = append(c.invalidatedHooks, fn)
}

// bearerTransport attaches the persisted access token to every outgoing
// request. No-op when no token is stored or the store cannot be read.
type bearerTransport struct {
	base  http.RoundTripper
	store credentials.Store
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	pair, err := t.store.Load()
	if err != nil || pair.AccessToken == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	return t.base.RoundTrip(cloned)
}

// requestBody abstracts over the two wire encodings the backend accepts.
type requestBody interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct {
	v any
}

func (b jsonBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", errors.Wrap(err, "encode json body")
	}
	return bytes.NewReader(data), "application/json", nil
}

// do performs one round trip and decodes the response envelope into out
// (which may be nil for delete-style calls). It is the single choke point
// for the cross-cutting 401 policy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body requestBody, out any) (*Pagination, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	var contentType string
	if body != nil {
		var err error
		reader, contentType, err = body.encode()
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.do] %s %s", method, path)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(method, path)
		return nil, errors.Wrapf(ErrSessionExpired, "%s %s", method, path)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] %s %s read body", method, path)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 400 {
			return nil, errors.Wrapf(err, "[Client.do] %s %s decode envelope", method, path)
		}
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     env.Status,
			Message:    env.Message,
		}
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("backend rejected request")
		return env.Pagination, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, errors.Wrapf(err, "[Client.do] %s %s decode data", method, path)
		}
	}
	return env.Pagination, nil
}

// invalidateSession is the global 401 policy: purge both persisted tokens
// and tell subscribers the session is gone. Clear is idempotent, so a storm
// of concurrent 401s can never leave a partial pair behind.
func (c *Client) invalidateSession(method, path string) {
	if err := c.store.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("failed to purge credentials after 401")
	}
	c.log.Info().
		Str("method", method).
		Str("path", path).
		Msg("session invalidated by backend")

	c.hooksLock.Lock()
	hooks := make([]func(), len(c.invalidatedHooks))
	copy(hooks, c.invalidatedHooks)
	c.hooksLock.Unlock()

	for _, hook := range hooks {
		hook()
	}
}
