package sessiontrace

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/xoplog/sessiontrace/xopclient"
	"github.com/xoplog/sessiontrace/xopsession"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSqlite = "sqlite"
)

type Config struct {
	Store     string `env:"SESSIONTRACE_STORE" envDefault:"memory"`
	StorePath string `env:"SESSIONTRACE_STORE_PATH"`
	KeyPrefix string `env:"SESSIONTRACE_KEY_PREFIX" envDefault:"xop."`
	UseB3     bool   `env:"SESSIONTRACE_B3"` // Zipkin
	UserID    string `env:"SESSIONTRACE_USER_ID"`
}

var DefaultConfig = Config{
	Store:     StoreMemory,
	KeyPrefix: xopsession.DefaultKeyPrefix,
}

type ConfigModifier func(*Config)

// ConfigFromEnv starts from DefaultConfig, applies the SESSIONTRACE_*
// environment variables, then mods.
func ConfigFromEnv(mods ...ConfigModifier) (Config, error) {
	return configFromEnv(env.Options{}, mods...)
}

func configFromEnv(opts env.Options, mods ...ConfigModifier) (Config, error) {
	cfg := DefaultConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	for _, mod := range mods {
		mod(&cfg)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreFile, StoreSqlite:
		if c.StorePath == "" {
			return errors.Errorf("store %q needs a path", c.Store)
		}
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// ClientConfig is the part of c that the request decorator uses.
func (c Config) ClientConfig() xopclient.Config {
	cc := xopclient.DefaultConfig.Copy()
	cc.UseB3 = c.UseB3
	cc.UserID = c.UserID
	return cc
}

// DefaultStorePath is used by the command line tool when no path is set.
func DefaultStorePath(dir string, store string) string {
	switch store {
	case StoreSqlite:
		return filepath.Join(dir, "session.db")
	default:
		return filepath.Join(dir, "session.json")
	}
}
