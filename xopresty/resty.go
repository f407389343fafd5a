/*
Package xopresty adds session trace propagation to the resty package.

Wrap installs hooks on a *resty.Client so that every request carries a
child of the session's current context and every response can move the
session forward to the context the server returns.
*/
package xopresty

import (
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xoplog/sessiontrace/xopclient"
)

var _ resty.Logger = restyLogger{}

type restyLogger struct {
	log *zap.SugaredLogger
}

func (rl restyLogger) Errorf(format string, v ...interface{}) { rl.log.Errorf(format, v...) }
func (rl restyLogger) Warnf(format string, v ...interface{})  { rl.log.Warnf(format, v...) }
func (rl restyLogger) Debugf(format string, v ...interface{}) { rl.log.Debugf(format, v...) }

// Wrap modifies and returns client. Response hooks only run when a
// response arrived, so transport errors reach the caller untouched.
func Wrap(client *resty.Client, c *xopclient.Client, log *zap.Logger) *resty.Client {
	if log == nil {
		log = zap.NewNop()
	}
	return client.
		SetLogger(restyLogger{log: log.Sugar()}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			child := c.Decorate(r.Context(), func(name string, value string) {
				r.SetHeader(name, value)
			})
			log.Debug("outgoing request",
				zap.String("method", r.Method),
				zap.String("url", r.URL),
				zap.String("trace_id", child.TraceID().String()),
				zap.String("span_id", child.SpanID().String()))
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.Absorb(resp.Request.Context(), resp.Header().Get)
			return nil
		})
}
