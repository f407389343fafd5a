package xopmiddle

import (
	"net/http"

	"github.com/xoplog/sessiontrace/xoptrace"
)

// ContextFromHeaders returns the receiving side's context for an inbound
// request. A "b3" header wins, then "traceparent", then the multi-header
// X-B3-* form. Without any of them a new root is started.
//
// For traceparent the sender's span becomes the parent and a new span id is
// made. B3 shares the span between client and server so its span id is
// kept.
func ContextFromHeaders(h http.Header) xoptrace.Context {
	if b3 := h.Get(xoptrace.HeaderB3); b3 != "" {
		if c, ok := xoptrace.DecodeB3(b3); ok {
			return c
		}
	}
	if tp := h.Get(xoptrace.HeaderTraceParent); tp != "" {
		return xoptrace.DecodeChild(tp)
	}
	if b3TraceID := h.Get(xoptrace.HeaderB3TraceID); b3TraceID != "" {
		traceID := xoptrace.NewHexBytes16FromString(b3TraceID)
		if traceID.IsZero() {
			traceID = xoptrace.NewTraceID()
		}
		// Uh oh, no parent span id means zero
		parentID := xoptrace.NewHexBytes8FromString(h.Get(xoptrace.HeaderB3Parent))
		spanID := xoptrace.NewHexBytes8FromString(h.Get(xoptrace.HeaderB3SpanID))
		if spanID.IsZero() {
			spanID = xoptrace.NewSpanID()
		}
		return xoptrace.New(traceID, parentID, spanID, xoptrace.B3Sampled(h.Get(xoptrace.HeaderB3Sampled), true))
	}
	return xoptrace.Root()
}
