package xopclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xoplog/sessiontrace/xopsession"
	"github.com/xoplog/sessiontrace/xopstore"
)

func TestConfig(t *testing.T) {
	session := xopsession.New(xopstore.NewMemory())
	c := New(session)
	assert.Equal(t, DefaultConfig.UseB3, c.config.UseB3)
	assert.Equal(t, DefaultConfig.AdoptHeaders, c.config.AdoptHeaders)

	c = New(session, WithConfig(DefaultConfig), WithB3(true))
	assert.Equal(t, true, c.config.UseB3)
	assert.Equal(t, DefaultConfig.AdoptHeaders, c.config.AdoptHeaders)
}

func TestConfigModifier(t *testing.T) {
	configModifier := func(cfg *Config) {
		cfg.UserID = "u"
	}
	c := New(xopsession.New(xopstore.NewMemory()), WithConfigChanges(configModifier))
	assert.Equal(t, "u", c.Config().UserID)
	assert.False(t, c.Config().UseB3)
}

func TestConfigModifierLeavesDefaultAlone(t *testing.T) {
	want := []string{"traceparent", "traceresponse"}
	c := New(xopsession.New(xopstore.NewMemory()), WithConfigChanges(func(cfg *Config) {
		cfg.AdoptHeaders[0] = "x-other"
	}))
	assert.Equal(t, []string{"x-other", "traceresponse"}, c.config.AdoptHeaders)
	assert.Equal(t, want, DefaultConfig.AdoptHeaders)

	c = New(xopsession.New(xopstore.NewMemory()), WithConfig(DefaultConfig))
	c.Config().AdoptHeaders[1] = "x-other"
	assert.Equal(t, want, c.config.AdoptHeaders)
	assert.Equal(t, want, DefaultConfig.AdoptHeaders)
}
