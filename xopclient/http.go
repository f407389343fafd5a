package xopclient

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

var (
	_ Request           = &HTTPRequest{}
	_ Response          = &HTTPResponse{}
	_ http.RoundTripper = roundTripper{}
)

// HTTPRequest adapts a *http.Request to Request.
type HTTPRequest struct {
	client  *http.Client
	request *http.Request
}

// NewHTTPRequest uses http.DefaultClient when client is nil.
func NewHTTPRequest(client *http.Client, r *http.Request) *HTTPRequest {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRequest{
		client:  client,
		request: r,
	}
}

func (h *HTTPRequest) Request() *http.Request { return h.request }

func (h *HTTPRequest) SetHeader(name string, value string) {
	h.request.Header.Set(name, value)
}

func (h *HTTPRequest) Send(ctx context.Context) (Response, error) {
	resp, err := h.client.Do(h.request.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &HTTPResponse{Response: resp}, nil
}

type HTTPResponse struct {
	Response *http.Response
	body     []byte
	bodyErr  error
	read     bool
}

func (h *HTTPResponse) Header(name string) string { return h.Response.Header.Get(name) }
func (h *HTTPResponse) OK() bool                  { return h.Response.StatusCode/100 == 2 }
func (h *HTTPResponse) StatusCode() int           { return h.Response.StatusCode }

// ReadBody reads and closes the body the first time it is called and
// returns the same result after that.
func (h *HTTPResponse) ReadBody() ([]byte, error) {
	if !h.read {
		h.read = true
		defer h.Response.Body.Close()
		h.body, h.bodyErr = io.ReadAll(h.Response.Body)
		if h.bodyErr != nil {
			h.bodyErr = errors.Wrap(h.bodyErr, "read response body")
		}
	}
	return h.body, h.bodyErr
}

// Transport returns a RoundTripper that decorates and absorbs like Send.
// base defaults to http.DefaultTransport.
func (c *Client) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return roundTripper{
		client: c,
		base:   base,
	}
}

type roundTripper struct {
	client *Client
	base   http.RoundTripper
}

func (rt roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	// RoundTrippers must not modify the caller's request
	r = r.Clone(ctx)
	rt.client.Decorate(ctx, r.Header.Set)
	resp, err := rt.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}
	rt.client.Absorb(ctx, resp.Header.Get)
	return resp, nil
}
