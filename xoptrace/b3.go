package xoptrace

import (
	"regexp"
)

const (
	HeaderB3        = "b3"
	HeaderB3TraceID = "X-B3-TraceId"
	HeaderB3SpanID  = "X-B3-SpanId"
	HeaderB3Parent  = "X-B3-ParentSpanId"
	HeaderB3Sampled = "X-B3-Sampled"
)

var b3RE = regexp.MustCompile(`^([a-fA-F0-9]{32})-([a-fA-F0-9]{16})-(0|1|true|false|d)(?:-([a-fA-F0-9]{16}))?$`)

// B3 encodes c as a Zipkin single "b3" header.
// https://github.com/openzipkin/b3-propagation
// b3: traceid-spanid-sampled-parentspanid
func (c Context) B3() string {
	s := c.traceID.String() + "-" + c.spanID.String() + "-" + c.Flags()[1:2]
	if !c.parentID.IsZero() {
		s += "-" + c.parentID.String()
	}
	return s
}

// DecodeB3 parses a single "b3" header. Unlike traceparent, b3 carries the
// parent span id so it is preserved. A bare sampling value ("0", "1", "d",
// ...) starts a new chain with that sampling decision.
func DecodeB3(h string) (Context, bool) {
	switch h {
	case "0", "1", "true", "false", "d":
		c := Root()
		c.sampled = B3Sampled(h, true)
		return c, true
	}
	m := b3RE.FindStringSubmatch(h)
	if m == nil {
		return Context{}, false
	}
	c := Context{
		traceID: NewHexBytes16FromString(m[1]),
		spanID:  NewHexBytes8FromString(m[2]),
		sampled: B3Sampled(m[3], true),
	}
	if m[4] != "" {
		c.parentID = NewHexBytes8FromString(m[4])
	}
	if c.traceID.IsZero() || c.spanID.IsZero() {
		return Context{}, false
	}
	return c, true
}

// B3Sampled processes the "X-B3-Sampled" header or the sampled portion
// of a combined "b3" header. Unknown values leave def in place.
// Potentially the "d" value could be used to decrease the minimum
// logging level.
func B3Sampled(h string, def bool) bool {
	switch h {
	case "1", "true", "d":
		return true
	case "0", "false":
		return false
	}
	return def
}
