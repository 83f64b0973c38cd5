package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/guttosm/marketpulse/internal/logger"
)

const (
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 12 * time.Second

	defaultInitialBackoff = 500 * time.Millisecond
	maxBackoffInterval    = 10 * time.Second
	backoffMultiplier     = 2
	maxBodyBytes          = 8 << 20
	userAgent             = "marketpulse/1.0"
)

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport performs GET requests against one provider's REST surface and
// classifies every failure into the provider error taxonomy.
type Transport struct {
	providerID     string
	baseURL        string
	client         HTTPClient
	header         http.Header
	query          url.Values
	timeout        time.Duration
	maxRetries     int
	initialBackoff time.Duration
	now            func() time.Time
}

// Option configures a Transport.
type Option func(*Transport)

// WithBaseURL overrides the provider's default base URL.
func WithBaseURL(baseURL string) Option {
	return func(t *Transport) {
		if baseURL != "" {
			t.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c HTTPClient) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithRetries enables bounded exponential backoff for rate limited and
// transient upstream failures. max of 0 disables retries.
func WithRetries(max int, initial time.Duration) Option {
	return func(t *Transport) {
		t.maxRetries = max
		if initial > 0 {
			t.initialBackoff = initial
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(t *Transport) {
		t.header.Set(key, value)
	}
}

// WithQueryParam adds a query parameter sent with every request.
func WithQueryParam(key, value string) Option {
	return func(t *Transport) {
		t.query.Set(key, value)
	}
}

// WithClock replaces time.Now, used when adapters compute default date ranges.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTransport creates a transport for providerID rooted at baseURL.
func NewTransport(providerID, baseURL string, opts ...Option) *Transport {
	t := &Transport{
		providerID:     providerID,
		baseURL:        baseURL,
		header:         http.Header{},
		query:          url.Values{},
		timeout:        DefaultTimeout,
		initialBackoff: defaultInitialBackoff,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = NewHTTPClient(t.timeout)
	}
	t.baseURL = strings.TrimRight(t.baseURL, "/")
	return t
}

// RetryBudget returns the longest a GetJSON call can take when configured with
// WithTimeout(timeout) and WithRetries(maxRetries, initial): every attempt
// running to its timeout plus every backoff wait. Zero values fall back to the
// transport defaults.
func RetryBudget(timeout time.Duration, maxRetries int, initial time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	budget := timeout
	wait := initial
	for i := 0; i < maxRetries; i++ {
		if wait > maxBackoffInterval {
			wait = maxBackoffInterval
		}
		budget += wait + timeout
		wait *= backoffMultiplier
	}
	return budget
}

// NewHTTPClient returns an http.Client with pooled keep-alive connections and
// tight dial/handshake timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// ProviderID returns the provider this transport talks to.
func (t *Transport) ProviderID() string { return t.providerID }

// Now returns the transport clock's current time.
func (t *Transport) Now() time.Time { return t.now() }

// GetJSON issues GET baseURL+path and decodes the JSON body into out.
// Failures come back as *Error. When retries are enabled, rate limited and
// transient upstream failures are retried with exponential backoff until the
// retry budget or ctx runs out.
func (t *Transport) GetJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	if t.maxRetries <= 0 {
		if perr := t.getOnce(ctx, op, path, query, out); perr != nil {
			return perr
		}
		return nil
	}

	operation := func() error {
		perr := t.getOnce(ctx, op, path, query, out)
		if perr == nil {
			return nil
		}
		if !perr.Transient() || ctx.Err() != nil {
			return backoff.Permanent(perr)
		}
		return perr
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = t.initialBackoff
	eb.Multiplier = backoffMultiplier
	// waits must stay deterministic so RetryBudget is an upper bound
	eb.RandomizationFactor = 0
	eb.MaxInterval = maxBackoffInterval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(t.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		logger.FromContext(ctx).Warn().
			Str("provider", t.providerID).
			Str("operation", op).
			Dur("backoff", wait).
			Err(err).
			Msg("retrying provider request")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return Classify(t.providerID, op, err)
	}
	return nil
}

func (t *Transport) getOnce(ctx context.Context, op, path string, query url.Values, out any) *Error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	q := url.Values{}
	for k, v := range t.query {
		q[k] = v
	}
	for k, v := range query {
		q[k] = v
	}
	fullURL := t.baseURL + path
	if len(q) > 0 {
		fullURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &Error{Provider: t.providerID, Operation: op, Kind: KindUpstream, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, credentials included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		perr := &Error{Provider: t.providerID, Operation: op, Kind: KindUpstream, Message: "GET " + path, Err: err}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || perr.Timeout() {
			perr.Message = "timeout after " + t.timeout.String()
			if !errors.Is(err, context.DeadlineExceeded) {
				perr.Err = errors.Join(context.DeadlineExceeded, err)
			}
		}
		logger.FromContext(ctx).Debug().
			Str("provider", t.providerID).
			Str("operation", op).
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("provider request failed")
		return perr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	logger.FromContext(ctx).Debug().
		Str("provider", t.providerID).
		Str("operation", op).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("provider request")
	if err != nil {
		return &Error{Provider: t.providerID, Operation: op, Kind: KindUpstream, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Provider: t.providerID, Operation: op, Kind: KindRateLimited, StatusCode: resp.StatusCode, Message: snippet(body)}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Provider: t.providerID, Operation: op, Kind: KindSymbolNotFound, StatusCode: resp.StatusCode, Message: snippet(body)}
	case resp.StatusCode >= 400:
		return &Error{Provider: t.providerID, Operation: op, Kind: KindUpstream, StatusCode: resp.StatusCode, Message: snippet(body)}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &Error{Provider: t.providerID, Operation: op, Kind: KindMalformedResponse, StatusCode: resp.StatusCode, Message: "empty body"}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Provider: t.providerID, Operation: op, Kind: KindMalformedResponse, StatusCode: resp.StatusCode, Message: "decode json", Err: err}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
