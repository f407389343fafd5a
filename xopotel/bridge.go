/*
Package xopotel connects session trace contexts with OpenTelemetry.

SpanContext and FromSpanContext convert between the two representations.
Propagator lets code that already injects and extracts through an OTEL
TextMapPropagator use the session's persisted chain instead of the
active span.
*/
package xopotel

import (
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/xoplog/sessiontrace/xoptrace"
)

// SpanContext converts c into a remote OTEL span context. The parent id
// has no place in a span context and is dropped.
func SpanContext(c xoptrace.Context) oteltrace.SpanContext {
	var flags oteltrace.TraceFlags
	if c.Sampled() {
		flags = oteltrace.FlagsSampled
	}
	return oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    oteltrace.TraceID(c.TraceID().Array()),
		SpanID:     oteltrace.SpanID(c.SpanID().Array()),
		TraceFlags: flags,
		Remote:     true,
	})
}

// FromSpanContext converts an OTEL span context. The result is a context
// with no parent.
func FromSpanContext(sc oteltrace.SpanContext) xoptrace.Context {
	return xoptrace.New(
		xoptrace.NewHexBytes16FromArray(sc.TraceID()),
		xoptrace.HexBytes8{},
		xoptrace.NewHexBytes8FromArray(sc.SpanID()),
		sc.IsSampled())
}
