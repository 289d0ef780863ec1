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
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Identity      IdentityConfig
	Provisioning  ProvisioningConfig
	Retry         RetryConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = defaultSQLiteDSN
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port           string   `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	LogFormat      string   `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	AllowedOrigins []string `envconfig:"STOREFRONT_ALLOWED_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the database is the local SQLite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"STOREFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"STOREFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"STOREFRONT_PASSWORD_MIN_LENGTH" default:"8"`
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	ResetWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_RESET_WINDOW" default:"5m"`
	ResetIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type IdentityConfig struct {
	ResetCooldown        time.Duration `envconfig:"STOREFRONT_IDENTITY_RESET_COOLDOWN" default:"60s"`
	ResetTokenTTL        time.Duration `envconfig:"STOREFRONT_IDENTITY_RESET_TOKEN_TTL" default:"1h"`
	ResetRedirectURL     string        `envconfig:"STOREFRONT_IDENTITY_RESET_REDIRECT_URL" default:"http://localhost:5173/update-password"`
	CallTimeout          time.Duration `envconfig:"STOREFRONT_IDENTITY_CALL_TIMEOUT" default:"5s"`
	AutoConfirmProvision bool          `envconfig:"STOREFRONT_IDENTITY_AUTO_CONFIRM" default:"true"`
}

type ProvisioningConfig struct {
	StepTimeout time.Duration `envconfig:"STOREFRONT_PROVISIONING_STEP_TIMEOUT" default:"10s"`
}

type RetryConfig struct {
	MaxAttempts uint64        `envconfig:"STOREFRONT_RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"STOREFRONT_RETRY_BASE_DELAY" default:"100ms"`
}

type MailConfig struct {
	Host     string `envconfig:"STOREFRONT_SMTP_HOST"`
	Port     int    `envconfig:"STOREFRONT_SMTP_PORT" default:"587"`
	Username string `envconfig:"STOREFRONT_SMTP_USERNAME"`
	Password string `envconfig:"STOREFRONT_SMTP_PASSWORD"`
	From     string `envconfig:"STOREFRONT_SMTP_FROM" default:"no-reply@storefront.local"`
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.Host) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREFRONT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
