// Package xoptrace holds the W3C trace context value used to thread a
// causal chain of requests through one session.
//
// Only the "traceparent" header form is produced:
//
//	00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01
//
// The third field is the span id of the sender. Whoever receives it treats
// it as their parent id. The parent id of the sender itself is never put on
// the wire.
package xoptrace

import (
	"strings"
)

const (
	HeaderTraceParent   = "traceparent"
	HeaderTraceResponse = "traceresponse"

	version      = "00"
	sampledFlag  = "01"
	unsampledFlg = "00"
)

// Context is immutable. Derive new values with Child or the Decode
// functions rather than modifying an existing one.
type Context struct {
	traceID  HexBytes16
	parentID HexBytes8
	spanID   HexBytes8
	sampled  bool
}

// Root starts a new chain: fresh trace id, zero parent, fresh span id,
// sampled.
func Root() Context {
	return Context{
		traceID: NewTraceID(),
		spanID:  NewSpanID(),
		sampled: true,
	}
}

// New assembles a Context from explicit parts.
func New(traceID HexBytes16, parentID HexBytes8, spanID HexBytes8, sampled bool) Context {
	return Context{
		traceID:  traceID,
		parentID: parentID,
		spanID:   spanID,
		sampled:  sampled,
	}
}

func (c Context) TraceID() HexBytes16 { return c.traceID }
func (c Context) ParentID() HexBytes8 { return c.parentID }
func (c Context) SpanID() HexBytes8   { return c.spanID }
func (c Context) Sampled() bool       { return c.sampled }
func (c Context) IsRoot() bool        { return c.parentID.IsZero() }
func (c Context) IsZero() bool        { return c == Context{} }

// Flags is the two character flags field of the header.
func (c Context) Flags() string {
	if c.sampled {
		return sampledFlag
	}
	return unsampledFlg
}

// Child returns the context for an operation caused by c. Trace id and
// sampling carry over, c's span becomes the parent, and the span id is new.
func (c Context) Child() Context {
	return Context{
		traceID:  c.traceID,
		parentID: c.spanID,
		spanID:   NewSpanID(),
		sampled:  c.sampled,
	}
}

// String encodes c as a traceparent header value.
func (c Context) String() string {
	// 0         3         36       53
	// version + traceID + spanID + flags
	b := make([]byte, 0, 55)
	b = append(b, version...)
	b = append(b, '-')
	b = append(b, c.traceID.String()...)
	b = append(b, '-')
	b = append(b, c.spanID.String()...)
	b = append(b, '-')
	b = append(b, c.Flags()...)
	return string(b)
}

// Decode parses a traceparent header value. It never fails: with fewer
// than four fields a new Root is returned. Fields that are not valid hex
// are treated as zero and zero ids are replaced with random ones. The
// version field is ignored.
func Decode(h string) Context {
	splits := strings.Split(h, "-")
	if len(splits) < 4 {
		return Root()
	}
	c := Context{
		traceID: NewHexBytes16FromString(splits[1]),
		spanID:  NewHexBytes8FromString(splits[2]),
		sampled: splits[3] == sampledFlag,
	}
	if c.traceID.IsZero() {
		c.traceID = NewTraceID()
	}
	if c.spanID.IsZero() {
		c.spanID = NewSpanID()
	}
	return c
}

// DecodeChild interprets h as the sender's context and returns the
// receiver's own context: same trace, parent set to the sender's span,
// and a new span id. Input with fewer than four fields yields a new Root.
func DecodeChild(h string) Context {
	if strings.Count(h, "-") < 3 {
		return Root()
	}
	return Decode(h).Child()
}

// TryDecode is the strict form of Decode. It reports false unless h has
// at least four fields with full width, non-zero, hex ids.
func TryDecode(h string) (Context, bool) {
	splits := strings.Split(h, "-")
	if len(splits) < 4 {
		return Context{}, false
	}
	traceID, ok := ParseHexBytes16(splits[1])
	if !ok || traceID.IsZero() {
		return Context{}, false
	}
	spanID, ok := ParseHexBytes8(splits[2])
	if !ok || spanID.IsZero() {
		return Context{}, false
	}
	return Context{
		traceID: traceID,
		spanID:  spanID,
		sampled: splits[3] == sampledFlag,
	}, true
}
