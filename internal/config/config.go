package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// ProviderConfig holds the client registration for one identity provider.
type ProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether the provider has enough configuration to be registered.
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type OIDCConfig struct {
	ProviderConfig
	Name   string `env:"NAME" envDefault:"oidc"`
	Issuer string `env:"ISSUER"`
}

func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ProviderConfig.Enabled()
}

type Config struct {
	AppPort       string `env:"APP_PORT" envDefault:"1337"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:1337"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"passport-example"`
	DatabaseDSN   string `env:"DATABASE_DSN"`

	SessionStore  string        `env:"SESSION_STORE" envDefault:"redis"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`

	Google    ProviderConfig `envPrefix:"GOOGLE_"`
	Facebook  ProviderConfig `envPrefix:"FACEBOOK_"`
	GitHub    ProviderConfig `envPrefix:"GITHUB_"`
	Twitter   ProviderConfig `envPrefix:"TWITTER_"`
	Instagram ProviderConfig `envPrefix:"INSTAGRAM_"`
	OIDC      OIDCConfig     `envPrefix:"OIDC_"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required for the mongo store")
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("config: DATABASE_DSN is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionStore {
	case SessionRedis, SessionMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}

	return nil
}

// CallbackURL returns the configured redirect URL for a provider, or the
// default /auth/<name>/callback under PublicBaseURL.
func (c Config) CallbackURL(name string, p ProviderConfig) string {
	if p.RedirectURL != "" {
		return p.RedirectURL
	}
	return strings.TrimRight(c.PublicBaseURL, "/") + "/auth/" + name + "/callback"
}
