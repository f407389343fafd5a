package xopotel

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/xoplog/sessiontrace/xopclient"
	"github.com/xoplog/sessiontrace/xoptrace"
)

var _ propagation.TextMapPropagator = Propagator{}

// Propagator ignores any span already in the context. Inject always
// writes a child of the session's current context and Extract adopts
// what it finds.
type Propagator struct {
	Client *xopclient.Client
}

func (p Propagator) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	p.Client.Decorate(ctx, carrier.Set)
}

// Extract adopts a well-formed header from carrier and returns ctx with the
// adopted context as its remote span context. Without one, ctx is returned
// unchanged.
func (p Propagator) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	tc, ok := p.Client.Absorb(ctx, carrier.Get)
	if !ok {
		return ctx
	}
	return oteltrace.ContextWithRemoteSpanContext(ctx, SpanContext(tc))
}

func (p Propagator) Fields() []string {
	fields := []string{xoptrace.HeaderTraceParent, xopclient.HeaderSessionID}
	config := p.Client.Config()
	if config.UseB3 {
		fields = append(fields, xoptrace.HeaderB3)
	}
	if config.UserID != "" {
		fields = append(fields, xopclient.HeaderUserID)
	}
	return fields
}
