package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "mokja"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "MOKJA_APP_ENV"
	EnvPort     = "MOKJA_APP_PORT"
	EnvDBDSN    = "MOKJA_DB_DSN"
	EnvDBHost   = "MOKJA_DB_HOST"
	EnvDBUser   = "MOKJA_DB_USER"
	EnvDBName   = "MOKJA_DB_NAME"
	EnvRedisURL = "MOKJA_REDIS_URL"

	EnvJWTSecret = "MOKJA_JWT_SECRET"
	EnvJWTIssuer = "MOKJA_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Shipping      ShippingConfig
	Maps          MapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MOKJA_APP_ENV" required:"true"`
	Port         string `envconfig:"MOKJA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOKJA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOKJA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MOKJA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MOKJA_DB_DSN"`
	Driver string `envconfig:"MOKJA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOKJA_DB_HOST"`
	LegacyPort     int    `envconfig:"MOKJA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOKJA_DB_USER"`
	LegacyPassword string `envconfig:"MOKJA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOKJA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOKJA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOKJA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOKJA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOKJA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOKJA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOKJA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOKJA_REDIS_ADDR"`
	Password     string        `envconfig:"MOKJA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOKJA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOKJA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOKJA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOKJA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOKJA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOKJA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MOKJA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MOKJA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MOKJA_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenDays  int    `envconfig:"MOKJA_JWT_REFRESH_TOKEN_DAYS" default:"14"`
}

// RefreshTokenTTL converts the configured refresh window into a duration.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOKJA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOKJA_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"MOKJA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOKJA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOKJA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MOKJA_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"MOKJA_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"MOKJA_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow     time.Duration `envconfig:"MOKJA_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"MOKJA_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"MOKJA_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"5"`
}

// MapsConfig holds the Google Places credentials for address guidance.
type MapsConfig struct {
	APIKey  string `envconfig:"MOKJA_MAPS_API_KEY"`
	BaseURL string `envconfig:"MOKJA_MAPS_BASE_URL"`
}

// ShippingConfig tunes the quote orchestration engine.
type ShippingConfig struct {
	// Deadline the orchestrator applies to each provider's GetQuotes call.
	ProviderCallTimeout time.Duration `envconfig:"MOKJA_SHIPPING_PROVIDER_CALL_TIMEOUT" default:"2s"`

	// Per-HTTP-request timeout inside external adapters. Transport failures
	// are retried up to ExternalMaxRetries times; HTTP status responses are not.
	ExternalHTTPTimeout time.Duration `envconfig:"MOKJA_SHIPPING_EXTERNAL_HTTP_TIMEOUT" default:"5s"`
	ExternalMaxRetries  int           `envconfig:"MOKJA_SHIPPING_EXTERNAL_MAX_RETRIES" default:"1"`

	DistanceQuoteTTL time.Duration `envconfig:"MOKJA_SHIPPING_DISTANCE_QUOTE_TTL" default:"15m"`
	ExternalQuoteTTL time.Duration `envconfig:"MOKJA_SHIPPING_EXTERNAL_QUOTE_TTL" default:"10m"`
	ManualQuoteTTL   time.Duration `envconfig:"MOKJA_SHIPPING_MANUAL_QUOTE_TTL" default:"24h"`

	// Upper bound on manual quotes flagged per sweep cycle.
	SweepBatchSize int           `envconfig:"MOKJA_SHIPPING_SWEEP_BATCH_SIZE" default:"1000"`
	SweepInterval  time.Duration `envconfig:"MOKJA_SHIPPING_SWEEP_INTERVAL" default:"1h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MOKJA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MOKJA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MOKJA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ShippingTopic        string `envconfig:"MOKJA_PUBSUB_SHIPPING_TOPIC" default:"mokja-shipping-events"`
	ShippingSubscription string `envconfig:"MOKJA_PUBSUB_SHIPPING_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"MOKJA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"MOKJA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"MOKJA_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"MOKJA_OUTBOX_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOKJA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
