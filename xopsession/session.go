// Package xopsession persists the trace state of one session: the durable
// trace id, the current traceparent, and a session id used to group
// requests.
//
// Nothing here locks across a read followed by a write. Concurrent
// requests may each read the same current context and the last adoption
// to be written is the one that remains.
package xopsession

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace/xopmetrics"
	"github.com/xoplog/sessiontrace/xopstore"
	"github.com/xoplog/sessiontrace/xoptrace"
)

const DefaultKeyPrefix = "xop."

type Keys struct {
	TraceID     string
	TraceParent string
	SessionID   string
}

func DefaultKeys(prefix string) Keys {
	return Keys{
		TraceID:     prefix + "trace_id",
		TraceParent: prefix + "traceparent",
		SessionID:   prefix + "session_trace_id",
	}
}

type Session struct {
	store   xopstore.Store
	keys    Keys
	log     *zap.Logger
	metrics *xopmetrics.Metrics
}

type Option func(*Session)

func WithKeys(keys Keys) Option {
	return func(s *Session) {
		s.keys = keys
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

func WithMetrics(m *xopmetrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func New(store xopstore.Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		keys:  DefaultKeys(DefaultKeyPrefix),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Keys() Keys { return s.keys }

// GetOrCreateContext returns the persisted current context. When there is
// none, a new root is created and persisted as both the durable trace id
// and the current traceparent. Reading never derives a child, so repeated
// calls return the same span id until something is adopted.
func (s *Session) GetOrCreateContext(ctx context.Context) xoptrace.Context {
	if h, ok := s.get(ctx, s.keys.TraceParent); ok {
		c := xoptrace.Decode(h)
		if c.String() != h {
			s.log.Debug("stored traceparent was not canonical",
				zap.String("key", s.keys.TraceParent),
				zap.String("stored", h),
				zap.String("decoded", c.String()))
		}
		return c
	}
	c := xoptrace.Root()
	s.metrics.IncRoots()
	s.log.Debug("starting trace for session",
		zap.String("trace_id", c.TraceID().String()),
		zap.String("span_id", c.SpanID().String()))
	s.set(ctx, s.keys.TraceID, c.TraceID().String())
	s.set(ctx, s.keys.TraceParent, c.String())
	return c
}

// Adopt makes c the current context for the requests that follow.
func (s *Session) Adopt(ctx context.Context, c xoptrace.Context) {
	s.set(ctx, s.keys.TraceParent, c.String())
}

// TraceID returns the durable trace id created with the session's first
// root context.
func (s *Session) TraceID(ctx context.Context) (string, bool) {
	return s.get(ctx, s.keys.TraceID)
}

// SessionID returns the session's correlation id, creating it on first use.
// It is unrelated to trace lineage.
func (s *Session) SessionID(ctx context.Context) string {
	if id, ok := s.get(ctx, s.keys.SessionID); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	s.set(ctx, s.keys.SessionID, id)
	return id
}

// Reset forgets everything stored for the session.
func (s *Session) Reset(ctx context.Context) error {
	for _, key := range []string{s.keys.TraceID, s.keys.TraceParent, s.keys.SessionID} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.metrics.IncStoreError("delete")
			return err
		}
	}
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, bool) {
	v, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.metrics.IncStoreError("get")
		s.log.Warn("session store read failed, treating value as missing",
			zap.String("key", key),
			zap.Error(err))
		return "", false
	}
	return v, found
}

// set failures only cost correlation for later requests, so they are
// logged and not returned.
func (s *Session) set(ctx context.Context, key string, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.metrics.IncStoreError("set")
		s.log.Warn("session store write failed",
			zap.String("key", key),
			zap.Error(err))
	}
}
