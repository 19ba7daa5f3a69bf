package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/careerquiz/internal/httputil"
)

// Client wraps http.Client with a client label, per-request timeouts and
// bounded retry on transient errors.
type Client struct {
	HTTPClient *http.Client
	// UserAgent identifies the caller on every outbound request.
	UserAgent string
	// Policy bounds retries. The zero value means three attempts.
	Policy httputil.Policy
	// PerRequestTimeout bounds each attempt separately.
	PerRequestTimeout time.Duration
	// Log receives a warning for every retried attempt.
	Log zerolog.Logger

	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
	// MaxConcurrent limits concurrent in-flight requests per client instance.
	// Zero means unlimited.
	MaxConcurrent int

	// internal limiter initialized on first use when MaxConcurrent > 0
	limiter     chan struct{}
	limiterOnce sync.Once
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// GetHTML fetches an HTML document. Non-HTML responses are rejected.
func (c *Client) GetHTML(ctx context.Context, rawURL string) (string, error) {
	body, ct, err := c.Get(ctx, rawURL, "text/html")
	if err != nil {
		return "", err
	}
	if !isAllowedHTMLContentType(ct) {
		return "", fmt.Errorf("unsupported content type %q from %s", ct, rawURL)
	}
	return string(body), nil
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, _, err := c.Get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// Get issues a GET with context, client label, and bounded retry for
// transient errors. It returns the body and its content type.
func (c *Client) Get(ctx context.Context, rawURL string, accept string) ([]byte, string, error) {
	type response struct {
		body []byte
		ct   string
	}
	policy := c.Policy
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, err error) {
			c.Log.Warn().Err(err).Str("url", rawURL).Int("attempt", attempt).Msg("transient fetch failure; retrying")
		}
	}
	resp, err := httputil.Do(ctx, policy, func(ctx context.Context) (response, error) {
		body, ct, err := c.tryOnce(ctx, rawURL, accept)
		return response{body: body, ct: ct}, err
	})
	if err != nil {
		return nil, "", err
	}
	return resp.body, resp.ct, nil
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, accept string) ([]byte, string, error) {
	// Concurrency gate per client instance
	c.acquire()
	defer c.release()

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, "", fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("%s: %w", rawURL, httputil.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &httputil.StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// allow text/html variants and application/xhtml+xml
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
		// should not happen, but avoid blocking
	}
}
