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
	FeatureFlags  FeatureFlagsConfig
	Geocode       GeocodeConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Attendance    AttendanceConfig
	Cron          CronConfig
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
	Env          string `envconfig:"TEAMOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"TEAMOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TEAMOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEAMOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEAMOPS_DB_DSN"`
	Driver string `envconfig:"TEAMOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEAMOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"TEAMOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEAMOPS_DB_USER"`
	LegacyPassword string `envconfig:"TEAMOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEAMOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEAMOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEAMOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEAMOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEAMOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEAMOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEAMOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TEAMOPS_REDIS_ADDR"`
	Password     string        `envconfig:"TEAMOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEAMOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEAMOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEAMOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEAMOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEAMOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEAMOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TEAMOPS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TEAMOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TEAMOPS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TEAMOPS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TEAMOPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TEAMOPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TEAMOPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TEAMOPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TEAMOPS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TEAMOPS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TEAMOPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TEAMOPS_AUTO_MIGRATE" default:"false"`
}

type GeocodeConfig struct {
	BaseURL string        `envconfig:"TEAMOPS_GEOCODE_BASE_URL"`
	Timeout time.Duration `envconfig:"TEAMOPS_GEOCODE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TEAMOPS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TEAMOPS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TEAMOPS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName  string `envconfig:"TEAMOPS_GCS_BUCKET_NAME" required:"true"`
	MaxUploadMB int    `envconfig:"TEAMOPS_MAX_UPLOAD_MB" default:"10"`
}

type AttendanceConfig struct {
	// SuccessCloseDelay is how long clients keep the success view open
	// before the check-in dialog dismisses itself.
	SuccessCloseDelay time.Duration `envconfig:"TEAMOPS_ATTENDANCE_CLOSE_DELAY" default:"2s"`
	// ResolveHeadStart bounds how long a check-in request waits for the
	// location resolver before reading whatever value it has.
	ResolveHeadStart time.Duration `envconfig:"TEAMOPS_ATTENDANCE_RESOLVE_HEAD_START" default:"2s"`
}

type CronConfig struct {
	FollowUpSweepInterval time.Duration `envconfig:"TEAMOPS_CRON_FOLLOWUP_INTERVAL" default:"1h"`
	DigestInterval        time.Duration `envconfig:"TEAMOPS_CRON_DIGEST_INTERVAL" default:"24h"`
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
