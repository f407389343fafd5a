package xopclient

import (
	"github.com/xoplog/sessiontrace/xoptrace"
)

const (
	HeaderSessionID = "X-Session-ID"
	HeaderUserID    = "X-User-ID"
)

type Config struct {
	UseB3 bool // Zipkin
	// UserID is passed through on X-User-ID when not empty.
	UserID string
	// AdoptHeaders are checked in order on each response. The first one
	// holding a well-formed traceparent becomes the session's current
	// context.
	AdoptHeaders []string
}

var DefaultConfig = Config{
	AdoptHeaders: []string{xoptrace.HeaderTraceParent, xoptrace.HeaderTraceResponse},
}

type ConfigModifier func(*Config)

// Copy returns c with its own AdoptHeaders so that changes to one
// do not show up in the other.
func (c Config) Copy() Config {
	if c.AdoptHeaders != nil {
		c.AdoptHeaders = append([]string(nil), c.AdoptHeaders...)
	}
	return c
}

func WithConfig(config Config) Option {
	return func(c *Client) {
		c.config = config.Copy()
	}
}

func WithConfigChanges(mods ...ConfigModifier) Option {
	return func(c *Client) {
		for _, mod := range mods {
			mod(&c.config)
		}
	}
}

func (c *Client) Config() Config {
	return c.config.Copy()
}

func WithB3(b bool) Option {
	return func(c *Client) {
		c.config.UseB3 = b
	}
}
