// Package xopclient decorates outgoing requests with the session's trace
// context and adopts the context that servers send back.
package xopclient

import (
	"context"

	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace/xopmetrics"
	"github.com/xoplog/sessiontrace/xopsession"
	"github.com/xoplog/sessiontrace/xoptrace"
)

type HeaderSetter interface {
	SetHeader(name string, value string)
}

// Request is an outgoing request that has not been sent yet.
type Request interface {
	HeaderSetter
	Send(ctx context.Context) (Response, error)
}

type Response interface {
	Header(name string) string
	OK() bool
	StatusCode() int
}

type Client struct {
	session *xopsession.Session
	config  Config
	log     *zap.Logger
	metrics *xopmetrics.Metrics
}

type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithMetrics(m *xopmetrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func New(session *xopsession.Session, opts ...Option) *Client {
	c := &Client{
		session: session,
		config:  DefaultConfig.Copy(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *xopsession.Session { return c.session }

// WithTrace puts a child of the current context on r and returns that
// child. The child is not persisted: each request gets its own span even
// when several share the same persisted parent.
func (c *Client) WithTrace(ctx context.Context, r HeaderSetter) xoptrace.Context {
	child := c.session.GetOrCreateContext(ctx).Child()
	r.SetHeader(xoptrace.HeaderTraceParent, child.String())
	if c.config.UseB3 {
		r.SetHeader(xoptrace.HeaderB3, child.B3())
	}
	c.metrics.IncDecorated()
	return child
}

func (c *Client) WithSessionID(ctx context.Context, r HeaderSetter) {
	r.SetHeader(HeaderSessionID, c.session.SessionID(ctx))
}

func (c *Client) WithUserID(r HeaderSetter) {
	if c.config.UserID != "" {
		r.SetHeader(HeaderUserID, c.config.UserID)
	}
}

// Decorate applies every outgoing header through set. It is the form used
// by transports that don't fit HeaderSetter.
func (c *Client) Decorate(ctx context.Context, set func(name string, value string)) xoptrace.Context {
	r := HeaderFunc(set)
	child := c.WithTrace(ctx, r)
	c.WithSessionID(ctx, r)
	c.WithUserID(r)
	return child
}

// Absorb looks for a returned trace context using get and adopts the
// first well-formed one. Malformed values are ignored so that a broken
// server cannot reset the session's chain.
func (c *Client) Absorb(ctx context.Context, get func(name string) string) (xoptrace.Context, bool) {
	names := c.config.AdoptHeaders
	if len(names) == 0 {
		names = DefaultConfig.AdoptHeaders
	}
	for _, name := range names {
		h := get(name)
		if h == "" {
			continue
		}
		tc, ok := xoptrace.TryDecode(h)
		if !ok {
			c.log.Debug("ignoring malformed trace header on response",
				zap.String("header", name),
				zap.String("value", h))
			continue
		}
		c.session.Adopt(ctx, tc)
		c.metrics.IncAdopted()
		return tc, true
	}
	return xoptrace.Context{}, false
}

// Send decorates r, sends it, and adopts any trace context on the
// response. Transport errors are returned exactly as r.Send produced them.
func (c *Client) Send(ctx context.Context, r Request) (Response, error) {
	child := c.Decorate(ctx, r.SetHeader)
	resp, err := r.Send(ctx)
	if err != nil {
		return nil, err
	}
	if adopted, ok := c.Absorb(ctx, resp.Header); ok {
		c.log.Debug("adopted trace context",
			zap.String("sent_span_id", child.SpanID().String()),
			zap.String("trace_id", adopted.TraceID().String()),
			zap.String("span_id", adopted.SpanID().String()))
	}
	return resp, nil
}

type HeaderFunc func(name string, value string)

func (f HeaderFunc) SetHeader(name string, value string) { f(name, value) }
