package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Storefront   StorefrontConfig
	Redis        RedisConfig
	DB           DBConfig
	SessionStore SessionStoreConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storefront.validate(); err != nil {
		return nil, err
	}
	if err := cfg.SessionStore.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient parses config for client-side tools that talk to the gateway
// instead of the storefront, so storefront credentials are not required.
func LoadClient() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.SessionStore.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JAYLIFE_APP_ENV" required:"true"`
	Port         string `envconfig:"JAYLIFE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"JAYLIFE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JAYLIFE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorefrontConfig points at the external commerce backend's Storefront API.
type StorefrontConfig struct {
	StoreDomain string        `envconfig:"JAYLIFE_STOREFRONT_DOMAIN"`
	APIVersion  string        `envconfig:"JAYLIFE_STOREFRONT_API_VERSION" default:"2024-10"`
	AccessToken string        `envconfig:"JAYLIFE_STOREFRONT_TOKEN"`
	Timeout     time.Duration `envconfig:"JAYLIFE_STOREFRONT_TIMEOUT" default:"10s"`
}

func (s StorefrontConfig) validate() error {
	if strings.TrimSpace(s.StoreDomain) == "" {
		return fmt.Errorf("storefront domain is required")
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return fmt.Errorf("storefront access token is required")
	}
	return nil
}

// Endpoint returns the fully qualified GraphQL endpoint for the store.
func (s StorefrontConfig) Endpoint() string {
	domain := strings.TrimSuffix(strings.TrimSpace(s.StoreDomain), "/")
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", domain, s.APIVersion)
}

type RedisConfig struct {
	URL          string        `envconfig:"JAYLIFE_REDIS_URL"`
	Address      string        `envconfig:"JAYLIFE_REDIS_ADDR"`
	Password     string        `envconfig:"JAYLIFE_REDIS_PASSWORD"`
	DB           int           `envconfig:"JAYLIFE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JAYLIFE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JAYLIFE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JAYLIFE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JAYLIFE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JAYLIFE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis target was supplied at all.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type DBConfig struct {
	DSN    string `envconfig:"JAYLIFE_DB_DSN"`
	Driver string `envconfig:"JAYLIFE_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"JAYLIFE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"JAYLIFE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"JAYLIFE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JAYLIFE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Configured reports whether a database DSN was supplied.
func (d DBConfig) Configured() bool {
	return strings.TrimSpace(d.DSN) != ""
}

// SessionStoreConfig selects where the per-client cart session id lives.
type SessionStoreConfig struct {
	Backend string        `envconfig:"JAYLIFE_SESSION_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"JAYLIFE_SESSION_TTL" default:"720h"`
}

func (s SessionStoreConfig) validate() error {
	switch s.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendDB:
		return nil
	}
	return fmt.Errorf("unknown session backend %q", s.Backend)
}

type PubSubConfig struct {
	ProjectID       string `envconfig:"JAYLIFE_GCP_PROJECT_ID"`
	CartEventsTopic string `envconfig:"JAYLIFE_PUBSUB_CART_EVENTS_TOPIC"`
}

// Configured reports whether cart event publishing is enabled.
func (p PubSubConfig) Configured() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.CartEventsTopic) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JAYLIFE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JAYLIFE_AUTO_MIGRATE" default:"false"`
}
