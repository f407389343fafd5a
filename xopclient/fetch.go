package xopclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// BodyResponse is a Response whose body can be read.
type BodyResponse interface {
	Response
	ReadBody() ([]byte, error)
}

// StatusError is returned by FetchJSON for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %d", e.StatusCode)
}

// DecodeError is returned by FetchJSON when the payload could not be
// decoded. It is distinct from transport errors, which are returned as is.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %s", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FetchJSON sends r through c and decodes a JSON body into target. Trace
// adoption has already happened by the time a StatusError or DecodeError
// is returned.
func FetchJSON(ctx context.Context, c *Client, r Request, target interface{}) (Response, error) {
	resp, err := c.Send(ctx, r)
	if err != nil {
		return nil, err
	}
	br, ok := resp.(BodyResponse)
	if !ok {
		return resp, &DecodeError{
			StatusCode: resp.StatusCode(),
			Err:        errors.Errorf("response type %T has no readable body", resp),
		}
	}
	body, err := br.ReadBody()
	if err != nil {
		return resp, &DecodeError{StatusCode: resp.StatusCode(), Err: err}
	}
	if !resp.OK() {
		return resp, &StatusError{StatusCode: resp.StatusCode(), Body: body}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return resp, &DecodeError{StatusCode: resp.StatusCode(), Err: err}
	}
	return resp, nil
}
