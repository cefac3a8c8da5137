// Package supabase is a small REST client for the hosted database (PostgREST
// under /rest/v1) and auth service (GoTrue under /auth/v1).
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrazmi/flowdesk/sdk/environment"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Options is the exportable configuration struct
type Options struct {
	URL       string        `toml:"url" env:"SUPABASE_URL" required:"true"`
	AnonKey   string        `toml:"anon_key" env:"SUPABASE_ANON_KEY" required:"true"`
	JWTSecret string        `toml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
	Timeout   time.Duration `toml:"timeout" env:"SUPABASE_TIMEOUT" default:"10s"`
}

type options struct {
	httpClient *http.Client
	log        *logger.Logger
}

type Option func(*options)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Client talks to one project. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	anonKey   string
	jwtSecret string
	http      *http.Client
	log       *logger.Logger
}

// NewFromEnv builds a client from PREFIX_SUPABASE_URL and friends. A missing
// URL or key is an error.
func NewFromEnv(prefix string, opts ...Option) (*Client, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing supabase config: %w", err)
	}
	return New(cfg, opts...)
}

// New builds a client from already loaded options.
func New(cfg Options, opts ...Option) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, errors.New("supabase url and anon key are required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing supabase url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("supabase url %q must be absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	internal := &options{
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(internal)
	}
	if internal.log == nil {
		internal.log = logger.NewDiscard()
	}

	return &Client{
		baseURL:   base,
		anonKey:   cfg.AnonKey,
		jwtSecret: cfg.JWTSecret,
		http:      internal.httpClient,
		log:       internal.log,
	}, nil
}

// JWTSecret returns the project's token signing secret, or "" if unset.
func (c *Client) JWTSecret() string {
	return c.jwtSecret
}

// BaseURL returns the project URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type tokenKey struct{}

// WithAccessToken returns a copy of ctx carrying the acting user's access
// token. Requests made with that context run as the user, so the service's
// row level security applies.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessToken returns the token stored by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// Request describes one call. Token overrides the context token; when both
// are empty the anon key is used as the bearer.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
	Token  string
}

// Do sends req and decodes a JSON response into out when out is non-nil.
// Non-2xx answers become a *ServiceError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	token := req.Token
	if token == "" {
		token = AccessToken(ctx)
	}
	if token == "" {
		token = c.anonKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "supabase request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServiceError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
