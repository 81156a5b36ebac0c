// Package client sends console operations to the warehouse backend. HTTP
// rejections come back as a Response; only failures to reach the backend are
// returned as errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"ops-console/internal/session"
)

const maxBodyBytes = 10 << 20

var ErrUnknownOperation = errors.New("unknown operation")

type Request struct {
	// ID fills the path placeholder of operations like /orders/{id}/status.
	ID    string
	Query url.Values
	Body  any
}

type Options struct {
	// Refresh asks the backend to skip its cached snapshot. Only read
	// operations carry it.
	Refresh bool
}

type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Observer receives one call per completed backend round trip.
type Observer interface {
	ObserveBackend(op string, code string, elapsed time.Duration)
}

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	sess     *session.Session
	breaker  *gobreaker.CircuitBreaker
	log      *slog.Logger
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	const op = "client.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 10 * time.Second},
		sess:    sess,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithSession returns a copy of c that authorizes requests as s. Transport,
// breaker and observer are shared.
func (c *Client) WithSession(s *session.Session) *Client {
	cp := *c
	cp.sess = s
	return &cp
}

func (c *Client) Send(ctx context.Context, op Operation, req Request, opts Options) (*Response, error) {
	const fn = "client.Send"

	httpReq, requestID, err := c.build(ctx, op, req, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	start := time.Now()
	resp, err := c.execute(httpReq)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(op, "transport_error", elapsed)
		c.log.Warn("backend unreachable",
			slog.String("op", fn),
			slog.String("operation", string(op)),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return nil, &TransportError{Op: op, Err: err}
	}

	resp.RequestID = requestID
	c.observe(op, strconv.Itoa(resp.StatusCode), elapsed)
	c.log.Debug("backend responded",
		slog.String("op", fn),
		slog.String("operation", string(op)),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", elapsed),
	)

	return resp, nil
}

func (c *Client) build(ctx context.Context, op Operation, req Request, opts Options) (*http.Request, string, error) {
	rt, ok := routes[op]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	escaped := rt.path
	if strings.Contains(escaped, "%s") {
		if req.ID == "" {
			return nil, "", fmt.Errorf("%s needs an identifier", op)
		}
		escaped = fmt.Sprintf(escaped, url.PathEscape(req.ID))
	}
	escaped = c.baseURL.EscapedPath() + escaped

	u := *c.baseURL
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, "", err
	}
	u.Path, u.RawPath = unescaped, escaped

	query := url.Values{}
	for k, v := range req.Query {
		query[k] = append([]string(nil), v...)
	}
	if opts.Refresh && rt.read {
		query.Set("refresh", "true")
	}
	u.RawQuery = query.Encode()

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, rt.method, u.String(), body)
	if err != nil {
		return nil, "", err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if opts.Refresh && rt.read {
		httpReq.Header.Set("Cache-Control", "no-cache")
	}
	if c.sess.Authenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}

	return httpReq, requestID, nil
}

// execute performs the round trip. Any status code counts as a success for
// the breaker; only transport errors trip it, and not when the caller gave up.
func (c *Client) execute(req *http.Request) (*Response, error) {
	do := func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, callerAborted(req, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, callerAborted(req, fmt.Errorf("read body: %w", err))
		}

		return &Response{StatusCode: resp.StatusCode, Body: body}, nil
	}

	if c.breaker == nil {
		out, err := do()
		if err != nil {
			return nil, err
		}
		return out.(*Response), nil
	}

	out, err := c.breaker.Execute(do)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	if err != nil {
		return nil, err
	}

	return out.(*Response), nil
}

func callerAborted(req *http.Request, err error) error {
	if req.Context().Err() != nil {
		return &abortedError{err: err}
	}
	return err
}

func (c *Client) observe(op Operation, code string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackend(string(op), code, elapsed)
	}
}
