package xopmiddle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xoplog/sessiontrace/xopmiddle"
	"github.com/xoplog/sessiontrace/xoptrace"
)

var headerCases = []struct {
	name          string
	headers       []string
	expectTrace   string // "random" when new
	expectParent  string
	expectSpan    string // defaults to random
	expectSampled bool
}{
	{
		name:          "traceparent set",
		headers:       []string{"traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01"},
		expectTrace:   "0af7651916cd43dd8448eb211c80319c",
		expectParent:  "b7ad6b7169203331",
		expectSampled: true,
	},
	{
		name:         "traceparent not sampled",
		headers:      []string{"traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-00"},
		expectTrace:  "0af7651916cd43dd8448eb211c80319c",
		expectParent: "b7ad6b7169203331",
	},
	{
		name:          "traceparent garbage",
		headers:       []string{"traceparent", "garbage"},
		expectTrace:   "random",
		expectParent:  "0000000000000000",
		expectSampled: true,
	},
	{
		name:          "no header",
		headers:       nil,
		expectTrace:   "random",
		expectParent:  "0000000000000000",
		expectSampled: true,
	},
	{
		name: "b3 with everything",
		headers: []string{
			"X-B3-TraceId", "0af7651916cd43dd8448eb211c80319c",
			"X-B3-ParentSpanId", "b7ad6b7169203331",
			"X-B3-SpanId", "91e961630d5d22de",
			"X-B3-Sampled", "1",
		},
		expectTrace:   "0af7651916cd43dd8448eb211c80319c",
		expectParent:  "b7ad6b7169203331",
		expectSpan:    "91e961630d5d22de",
		expectSampled: true,
	},
	{
		name: "b3 without span",
		headers: []string{
			"X-B3-TraceId", "0af7651916cd43dd8448eb211c80319c",
			"X-B3-ParentSpanId", "b7ad6b7169203331",
		},
		expectTrace:   "0af7651916cd43dd8448eb211c80319c",
		expectParent:  "b7ad6b7169203331",
		expectSampled: true,
	},
	{
		name: "b3 single line",
		headers: []string{
			"b3", "80f198ee56343ba864fe8b2a57d3eff7-e457b5a2e4d86bd1-1",
		},
		expectTrace:   "80f198ee56343ba864fe8b2a57d3eff7",
		expectParent:  "0000000000000000",
		expectSpan:    "e457b5a2e4d86bd1",
		expectSampled: true,
	},
	{
		name: "b3 single line with parent",
		headers: []string{
			"b3", "80f198ee56343ba864fe8b2a57d3eff7-e457b5a2e4d86bd1-1-05e3ac9a4f6e3b90",
		},
		expectTrace:   "80f198ee56343ba864fe8b2a57d3eff7",
		expectParent:  "05e3ac9a4f6e3b90",
		expectSpan:    "e457b5a2e4d86bd1",
		expectSampled: true,
	},
	{
		name: "b3 sampled",
		headers: []string{
			"X-B3-TraceId", "0af7651916cd43dd8448eb211c80319c",
			"X-B3-ParentSpanId", "b7ad6b7169203331",
			"X-B3-Sampled", "0",
		},
		expectTrace:  "0af7651916cd43dd8448eb211c80319c",
		expectParent: "b7ad6b7169203331",
	},
}

var injectMethods = []struct {
	name string
	f    func(t *testing.T, inbound xopmiddle.Inbound, w http.ResponseWriter, r *http.Request) xoptrace.Context
}{
	{
		name: "handlerFunc",
		f: func(t *testing.T, inbound xopmiddle.Inbound, w http.ResponseWriter, r *http.Request) xoptrace.Context {
			var got xoptrace.Context
			var called bool
			handler := func(w http.ResponseWriter, r *http.Request) {
				var ok bool
				got, ok = xoptrace.FromContext(r.Context())
				assert.True(t, ok, "context set")
				called = true
			}
			inbound.HandlerFuncMiddleware()(handler)(w, r)
			assert.True(t, called, "called")
			return got
		},
	},
	{
		name: "handler",
		f: func(t *testing.T, inbound xopmiddle.Inbound, w http.ResponseWriter, r *http.Request) xoptrace.Context {
			var got xoptrace.Context
			var called bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var ok bool
				got, ok = xoptrace.FromContext(r.Context())
				assert.True(t, ok, "context set")
				called = true
			})
			inbound.HandlerMiddleware()(handler).ServeHTTP(w, r)
			assert.True(t, called, "called")
			return got
		},
	},
}

func TestHandlerMiddleware(t *testing.T) {
	for _, hc := range headerCases {
		hc := hc
		t.Run(hc.name, func(t *testing.T) {
			for _, im := range injectMethods {
				im := im
				t.Run(im.name, func(t *testing.T) {
					inbound := xopmiddle.New(zaptest.NewLogger(t), func(r *http.Request) string {
						return r.URL.Path
					})
					r, err := http.NewRequest("GET", "/foo", nil)
					require.NoError(t, err, "new request")
					w := httptest.NewRecorder()
					for i := 0; i < len(hc.headers); i += 2 {
						r.Header.Set(hc.headers[i], hc.headers[i+1])
					}

					tc := im.f(t, inbound, w, r)

					if hc.expectTrace == "random" {
						assert.False(t, tc.TraceID().IsZero(), "traceID zero")
					} else {
						assert.Equal(t, hc.expectTrace, tc.TraceID().String(), "traceID")
					}
					assert.Equal(t, hc.expectParent, tc.ParentID().String(), "parentID")
					if hc.expectSpan != "" {
						assert.Equal(t, hc.expectSpan, tc.SpanID().String(), "spanID")
					} else {
						assert.False(t, tc.SpanID().IsZero(), "spanID is zero")
						assert.NotEqual(t, hc.expectParent, tc.SpanID().String(), "spanID")
					}
					assert.Equal(t, hc.expectSampled, tc.Sampled(), "sampled")
					assert.Equal(t, tc.String(), w.Header().Get("traceresponse"), "trace response header")
				})
			}
		})
	}
}
