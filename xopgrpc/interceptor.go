// Package xopgrpc carries session trace context on gRPC calls through
// metadata.
package xopgrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/xoplog/sessiontrace/xopclient"
)

// UnaryClientInterceptor decorates outgoing metadata and adopts a trace
// context from the response header metadata of successful calls.
func UnaryClientInterceptor(c *xopclient.Client) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx = outgoing(ctx, c)

		var header metadata.MD
		opts = append(opts, grpc.Header(&header))
		if err := invoker(ctx, method, req, reply, cc, opts...); err != nil {
			return err
		}
		c.Absorb(ctx, mdGetter(header))
		return nil
	}
}

// StreamClientInterceptor decorates the stream's outgoing metadata and
// adopts from the header metadata once the server sends it.
func StreamClientInterceptor(c *xopclient.Client) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		ctx = outgoing(ctx, c)
		stream, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			return nil, err
		}
		return &tracedClientStream{ClientStream: stream, client: c, ctx: ctx}, nil
	}
}

type tracedClientStream struct {
	grpc.ClientStream
	client   *xopclient.Client
	ctx      context.Context
	absorbed bool
}

func (s *tracedClientStream) RecvMsg(m interface{}) error {
	err := s.ClientStream.RecvMsg(m)
	if !s.absorbed {
		s.absorbed = true
		if header, herr := s.ClientStream.Header(); herr == nil {
			s.client.Absorb(s.ctx, mdGetter(header))
		}
	}
	return err
}

func outgoing(ctx context.Context, c *xopclient.Client) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	c.Decorate(ctx, func(name string, value string) {
		md.Set(name, value)
	})
	return metadata.NewOutgoingContext(ctx, md)
}

func mdGetter(md metadata.MD) func(string) string {
	return func(name string) string {
		if v := md.Get(name); len(v) > 0 {
			return v[0]
		}
		return ""
	}
}
