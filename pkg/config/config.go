package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Seed          SeedConfig
	Anthropic     AnthropicConfig
	PartLink      PartLinkConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"GEARBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"GEARBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GEARBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GEARBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GEARBOX_DB_DSN"`
	Driver string `envconfig:"GEARBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GEARBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"GEARBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GEARBOX_DB_USER"`
	LegacyPassword string `envconfig:"GEARBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"GEARBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"GEARBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GEARBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEARBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEARBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEARBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GEARBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GEARBOX_REDIS_ADDR"`
	Password     string        `envconfig:"GEARBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEARBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEARBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEARBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEARBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEARBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GEARBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the identity provider adapter: token/cookie signing key
// material plus lifetimes.
type SessionConfig struct {
	KeyFile        string        `envconfig:"GEARBOX_SESSION_KEY_FILE" required:"true"`
	Issuer         string        `envconfig:"GEARBOX_SESSION_ISSUER" required:"true"`
	CookieTTL      time.Duration `envconfig:"GEARBOX_SESSION_COOKIE_TTL" default:"120h"`
	BearerTokenTTL time.Duration `envconfig:"GEARBOX_SESSION_BEARER_TTL" default:"1h"`
	CookieName     string        `envconfig:"GEARBOX_SESSION_COOKIE_NAME" default:"session"`
}

type SeedConfig struct {
	VehiclesCSV     string `envconfig:"GEARBOX_SEED_VEHICLES_CSV" required:"true"`
	BrandsFile      string `envconfig:"GEARBOX_SEED_BRANDS_FILE" required:"true"`
	PartTypesFile   string `envconfig:"GEARBOX_SEED_PART_TYPES_FILE" required:"true"`
	AdminEmailsFile string `envconfig:"GEARBOX_ADMIN_EMAILS_FILE" required:"true"`
}

type AnthropicConfig struct {
	APIKey string `envconfig:"GEARBOX_ANTHROPIC_API_KEY" required:"true"`
	Model  string `envconfig:"GEARBOX_ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
}

type PartLinkConfig struct {
	FetchTimeout time.Duration `envconfig:"GEARBOX_PARTLINK_FETCH_TIMEOUT" default:"20s"`
	MaxHTMLBytes int           `envconfig:"GEARBOX_PARTLINK_MAX_HTML_BYTES" default:"262144"`
}

type AuthRateLimitConfig struct {
	LoginWindow   time.Duration `envconfig:"GEARBOX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit  int           `envconfig:"GEARBOX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow  time.Duration `envconfig:"GEARBOX_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupIPLimit int           `envconfig:"GEARBOX_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GEARBOX_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"GEARBOX_SEED_ON_BOOT" default:"true"`
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
