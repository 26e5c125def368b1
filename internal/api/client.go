// Package api is the REST client for the course backend.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/abhisek/coursekit/internal/store"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds each request.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenProvider
	// Events is optional; when set, every request is recorded in the
	// local activity log.
	Events store.EventRepo
	// SessionID is stamped on every recorded request.
	SessionID string
	Logger    *slog.Logger
	UserAgent string
}

// Client talks to the course backend. It never retries.
type Client struct {
	http    *resty.Client
	baseURL string
	tokens  TokenProvider
	events  store.EventRepo
	session string
	log     *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = NoToken
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	hc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		hc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:    hc,
		baseURL: base,
		tokens:  tokens,
		events:  opts.Events,
		session: opts.SessionID,
		log:     log,
	}
}

// BaseURL returns the backend base URL, also used to resolve content paths.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the client's token provider.
func (c *Client) Tokens() TokenProvider { return c.tokens }

// call describes one request. route is the path template with {param}
// placeholders; it is what gets logged and recorded.
type call struct {
	method string
	route  string
	params map[string]string
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	reqID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID)

	if cl.auth {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("get token: %w", err)
		}
		if tok == "" {
			return nil, ErrNoToken
		}
		req.SetAuthToken(tok)
	}
	if len(cl.params) > 0 {
		req.SetPathParams(cl.params)
	}
	if cl.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.route)
	latency := time.Since(start)

	data := store.RequestEventData{
		SessionID: c.session,
		Method:    cl.method,
		Route:     cl.route,
		LatencyMs: latency.Milliseconds(),
		RequestID: reqID,
	}
	log := c.log.With("method", cl.method, "route", cl.route, "request_id", reqID)

	if err != nil {
		err = &TransportError{Method: cl.method, Path: cl.route, Err: err}
		data.ErrorMessage = err.Error()
		c.record(ctx, data)
		log.Warn("request failed", "err", err, "latency_ms", data.LatencyMs)
		return nil, err
	}

	data.Status = resp.StatusCode()
	if data.Status < 200 || data.Status > 299 {
		serr := &StatusError{Method: cl.method, Path: cl.route, Code: data.Status, Body: string(resp.Body())}
		data.ErrorMessage = serr.Error()
		c.record(ctx, data)
		log.Warn("request rejected", "status", data.Status, "latency_ms", data.LatencyMs)
		return nil, serr
	}

	data.Success = true
	c.record(ctx, data)
	log.Debug("request ok", "status", data.Status, "latency_ms", data.LatencyMs)
	return resp.Body(), nil
}

// record appends the request to the activity log. Recording failures never
// fail the request.
func (c *Client) record(ctx context.Context, data store.RequestEventData) {
	if c.events == nil {
		return
	}
	// A cancelled request context must not prevent the record.
	if err := c.events.AppendRequest(context.WithoutCancel(ctx), data); err != nil {
		c.log.Warn("failed to log request event", "err", err)
	}
}

// isEmpty reports whether a body carries no payload.
func isEmpty(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
