package xoptrace

import "context"

type contextKeyType struct{}

var contextKey = contextKeyType{}

func IntoContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, contextKey, c)
}

func FromContext(ctx context.Context) (Context, bool) {
	c, ok := ctx.Value(contextKey).(Context)
	return c, ok
}
