package xopotel_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/xoplog/sessiontrace/xopclient"
	"github.com/xoplog/sessiontrace/xopotel"
	"github.com/xoplog/sessiontrace/xopsession"
	"github.com/xoplog/sessiontrace/xopstore"
	"github.com/xoplog/sessiontrace/xoptrace"
)

func TestSpanContextConversion(t *testing.T) {
	c := xoptrace.Root().Child()
	sc := xopotel.SpanContext(c)
	require.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())
	assert.True(t, sc.IsSampled())
	assert.Equal(t, c.TraceID().String(), sc.TraceID().String())
	assert.Equal(t, c.SpanID().String(), sc.SpanID().String())

	back := xopotel.FromSpanContext(sc)
	assert.Equal(t, c.TraceID(), back.TraceID())
	assert.Equal(t, c.SpanID(), back.SpanID())
	assert.True(t, back.IsRoot())

	unsampled := xoptrace.New(c.TraceID(), xoptrace.HexBytes8{}, c.SpanID(), false)
	assert.False(t, xopotel.SpanContext(unsampled).IsSampled())
}

// Headers written from the session must be readable by OTEL's own W3C
// propagator.
func TestInjectReadableByOtel(t *testing.T) {
	ctx := context.Background()
	session := xopsession.New(xopstore.NewMemory())
	p := xopotel.Propagator{Client: xopclient.New(session)}

	h := http.Header{}
	p.Inject(ctx, propagation.HeaderCarrier(h))
	assert.NotEmpty(t, h.Get("X-Session-ID"))

	extracted := oteltrace.SpanContextFromContext(
		propagation.TraceContext{}.Extract(ctx, propagation.HeaderCarrier(h)))
	require.True(t, extracted.IsValid(), "otel parses %q", h.Get("traceparent"))
	current := session.GetOrCreateContext(ctx)
	assert.Equal(t, current.TraceID().String(), extracted.TraceID().String())
	assert.NotEqual(t, current.SpanID().String(), extracted.SpanID().String(), "child span")
	assert.True(t, extracted.IsSampled())
}

func TestExtractAdopts(t *testing.T) {
	ctx := context.Background()
	session := xopsession.New(xopstore.NewMemory())
	p := xopotel.Propagator{Client: xopclient.New(session)}

	server := xopotel.SpanContext(xoptrace.Root())
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(oteltrace.ContextWithSpanContext(ctx, server), carrier)

	out := p.Extract(ctx, carrier)
	sc := oteltrace.SpanContextFromContext(out)
	assert.Equal(t, server.TraceID(), sc.TraceID())
	assert.Equal(t, server.SpanID(), sc.SpanID())

	current := session.GetOrCreateContext(ctx)
	assert.Equal(t, server.TraceID().String(), current.TraceID().String(), "adopted")

	untouched := p.Extract(ctx, propagation.MapCarrier{"traceparent": "garbage"})
	assert.False(t, oteltrace.SpanContextFromContext(untouched).IsValid())
}

func TestFields(t *testing.T) {
	session := xopsession.New(xopstore.NewMemory())
	p := xopotel.Propagator{Client: xopclient.New(session, xopclient.WithConfig(xopclient.Config{
		UseB3:  true,
		UserID: "someone",
	}))}
	assert.ElementsMatch(t, []string{"traceparent", "X-Session-ID", "b3", "X-User-ID"}, p.Fields())
}
