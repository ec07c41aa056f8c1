package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CHACKCHACK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "CHACKCHACK_APP_ENV"
	EnvPort     = "CHACKCHACK_APP_PORT"
	EnvDBDSN    = "CHACKCHACK_DB_DSN"
	EnvDBHost   = "CHACKCHACK_DB_HOST"
	EnvDBUser   = "CHACKCHACK_DB_USER"
	EnvDBName   = "CHACKCHACK_DB_NAME"
	EnvRedisURL = "CHACKCHACK_REDIS_URL"

	EnvJWTSecret  = "CHACKCHACK_JWT_SECRET"
	EnvJWTIssuer  = "CHACKCHACK_JWT_ISSUER"
	EnvJWTExpMins = "CHACKCHACK_JWT_EXPIRATION_MINUTES"

	EnvPaymentBaseURL = "CHACKCHACK_PAYMENT_BASE_URL"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Payment       PaymentConfig
	AuthRateLimit AuthRateLimitConfig
	Cron          CronConfig
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
	Env          string `envconfig:"CHACKCHACK_APP_ENV" required:"true"`
	Port         string `envconfig:"CHACKCHACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHACKCHACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHACKCHACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CHACKCHACK_DB_DSN"`
	Driver string `envconfig:"CHACKCHACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHACKCHACK_DB_HOST"`
	LegacyPort     int    `envconfig:"CHACKCHACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHACKCHACK_DB_USER"`
	LegacyPassword string `envconfig:"CHACKCHACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHACKCHACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHACKCHACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHACKCHACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHACKCHACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHACKCHACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHACKCHACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CHACKCHACK_REDIS_URL"`
	Address      string        `envconfig:"CHACKCHACK_REDIS_ADDR"`
	Password     string        `envconfig:"CHACKCHACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHACKCHACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHACKCHACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHACKCHACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHACKCHACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHACKCHACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHACKCHACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. Rate
// limiting degrades to a no-op when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CHACKCHACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHACKCHACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CHACKCHACK_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// PaymentConfig controls payment-link construction and QR image rendering.
type PaymentConfig struct {
	BaseURL      string `envconfig:"CHACKCHACK_PAYMENT_BASE_URL" default:"http://localhost:3000"`
	QRPixelSize  int    `envconfig:"CHACKCHACK_QR_PIXEL_SIZE" default:"400"`
	QRBorderSize int    `envconfig:"CHACKCHACK_QR_BORDER_SIZE" default:"2"`
}

// Validate rejects base URLs the payment-link codec cannot serialize.
func (p PaymentConfig) Validate() error {
	if _, err := url.Parse(p.BaseURL); err != nil {
		return fmt.Errorf("invalid payment base url %q: %w", p.BaseURL, err)
	}
	return nil
}

type AuthRateLimitConfig struct {
	GuestWindow  time.Duration `envconfig:"CHACKCHACK_AUTH_RATE_LIMIT_GUEST_WINDOW" default:"5m"`
	GuestIPLimit int           `envconfig:"CHACKCHACK_AUTH_RATE_LIMIT_GUEST_IP_LIMIT" default:"10"`

	LoginWindow     time.Duration `envconfig:"CHACKCHACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"CHACKCHACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"CHACKCHACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`

	NotifyWindow  time.Duration `envconfig:"CHACKCHACK_NOTIFY_RATE_LIMIT_WINDOW" default:"1m"`
	NotifyIPLimit int           `envconfig:"CHACKCHACK_NOTIFY_RATE_LIMIT_IP_LIMIT" default:"30"`
}

// CronConfig controls the maintenance worker cadence and retention windows.
type CronConfig struct {
	Interval                  time.Duration `envconfig:"CHACKCHACK_CRON_INTERVAL" default:"24h"`
	LockTTL                   time.Duration `envconfig:"CHACKCHACK_CRON_LOCK_TTL" default:"2h"`
	NotificationRetentionDays int           `envconfig:"CHACKCHACK_NOTIFICATION_RETENTION_DAYS" default:"90"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CHACKCHACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CHACKCHACK_AUTO_MIGRATE" default:"false"`
}

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

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
		return fmt.Errorf("database configuration incomplete: set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.LegacyUser),
		url.QueryEscape(db.LegacyPassword),
		db.LegacyHost,
		db.LegacyPort,
		db.LegacyName,
		db.LegacySSLMode,
	)
	return nil
}
