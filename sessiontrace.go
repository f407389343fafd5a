/*
Package sessiontrace assembles a session store, the persistence adapter
and the request decorator from one Config.

	cfg, err := sessiontrace.ConfigFromEnv()
	...
	tracer, err := sessiontrace.Open(cfg, sessiontrace.WithLogger(log))
	...
	defer tracer.Close()
	resp, err := tracer.Client.Send(ctx, xopclient.NewHTTPRequest(nil, req))

Every outgoing request carries a child of the session's current trace
context in "traceparent". A trace context sent back by the server
becomes the current context for the requests that follow.
*/
package sessiontrace

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace/xopclient"
	"github.com/xoplog/sessiontrace/xopmetrics"
	"github.com/xoplog/sessiontrace/xopsession"
	"github.com/xoplog/sessiontrace/xopstore"
	"github.com/xoplog/sessiontrace/xopstore/sqlitestore"
)

type Tracer struct {
	Config  Config
	Store   xopstore.Store
	Session *xopsession.Session
	Client  *xopclient.Client
	closer  io.Closer
}

type options struct {
	log      *zap.Logger
	registry prometheus.Registerer
	store    xopstore.Store
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithRegistry turns on metrics.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithStore uses store instead of opening the one named by Config.
func WithStore(store xopstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

func Open(cfg Config, opts ...Option) (*Tracer, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tracer{Config: cfg, Store: o.store}
	if t.Store == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		store, closer, err := OpenStore(cfg)
		if err != nil {
			return nil, err
		}
		t.Store = store
		t.closer = closer
	}

	var metrics *xopmetrics.Metrics
	if o.registry != nil {
		metrics = xopmetrics.New(o.registry, "sessiontrace")
	}
	t.Session = xopsession.New(t.Store,
		xopsession.WithKeys(xopsession.DefaultKeys(cfg.KeyPrefix)),
		xopsession.WithLogger(o.log.Named("session")),
		xopsession.WithMetrics(metrics))
	t.Client = xopclient.New(t.Session,
		xopclient.WithConfig(cfg.ClientConfig()),
		xopclient.WithLogger(o.log.Named("client")),
		xopclient.WithMetrics(metrics))
	return t, nil
}

// Close releases the store if Open opened it.
func (t *Tracer) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// OpenStore returns a nil closer for stores that hold no resources.
func OpenStore(cfg Config) (xopstore.Store, io.Closer, error) {
	switch cfg.Store {
	case StoreFile:
		store, err := xopstore.NewFile(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case StoreSqlite:
		store, err := sqlitestore.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return xopstore.NewMemory(), nil, nil
	}
}
