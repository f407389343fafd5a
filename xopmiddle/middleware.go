// Package xopmiddle is the server side counterpart of xopclient. It works
// out the context for each inbound request, makes it available through the
// request context, and returns it in the "traceresponse" header so that
// clients can adopt it.
package xopmiddle

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace/xoptrace"
)

type Inbound struct {
	requestToName func(*http.Request) string
	log           *zap.Logger
}

// New uses the request URL as the name when requestToName is nil or
// returns "".
func New(log *zap.Logger, requestToName func(*http.Request) string) Inbound {
	if log == nil {
		log = zap.NewNop()
	}
	return Inbound{
		requestToName: requestToName,
		log:           log,
	}
}

func (i Inbound) HandlerFuncMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, i.begin(w, r))
		}
	}
}

func (i Inbound) HandlerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, i.begin(w, r))
		})
	}
}

func (i Inbound) begin(w http.ResponseWriter, r *http.Request) *http.Request {
	var name string
	if i.requestToName != nil {
		name = i.requestToName(r)
	}
	if name == "" {
		name = r.URL.String()
	}

	tc := ContextFromHeaders(r.Header)
	w.Header().Set(xoptrace.HeaderTraceResponse, tc.String())

	fields := []zap.Field{
		zap.String("request", r.Method+" "+name),
		zap.String("trace_id", tc.TraceID().String()),
		zap.String("span_id", tc.SpanID().String()),
		zap.Bool("sampled", tc.Sampled()),
	}
	if !tc.IsRoot() {
		fields = append(fields, zap.String("parent_id", tc.ParentID().String()))
	}
	if sid := r.Header.Get("X-Session-ID"); sid != "" {
		fields = append(fields, zap.String("session_id", sid))
	}
	i.log.Debug("inbound request", fields...)

	return r.WithContext(xoptrace.IntoContext(r.Context(), tc))
}
