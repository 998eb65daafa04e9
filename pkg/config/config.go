package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "WMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Attachments  AttachmentsConfig
	Activity     ActivityConfig
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
	Env          string `envconfig:"WMS_APP_ENV" required:"true"`
	Port         string `envconfig:"WMS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WMS_DB_DSN"`

	LegacyHost     string `envconfig:"WMS_DB_HOST"`
	LegacyPort     int    `envconfig:"WMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WMS_DB_USER"`
	LegacyPassword string `envconfig:"WMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"WMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"WMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WMS_REDIS_URL"`
	Address      string        `envconfig:"WMS_REDIS_ADDR"`
	Password     string        `envconfig:"WMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"WMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WMS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WMS_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WMS_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WMS_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WMS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WMS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"WMS_GCS_BUCKET_NAME" required:"true"`
}

type AttachmentsConfig struct {
	MaxUploadMB int `envconfig:"WMS_ATTACHMENT_MAX_UPLOAD_MB" default:"25"`
}

type ActivityConfig struct {
	QueueSize    int `envconfig:"WMS_ACTIVITY_QUEUE_SIZE" default:"256"`
	DefaultLimit int `envconfig:"WMS_ACTIVITY_DEFAULT_LIMIT" default:"100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"WMS_DB_HOST": db.LegacyHost,
		"WMS_DB_USER": db.LegacyUser,
		"WMS_DB_NAME": db.LegacyName,
	}
	for _, envVar := range []string{"WMS_DB_HOST", "WMS_DB_USER", "WMS_DB_NAME"} {
		if legacyValues[envVar] == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either WMS_DB_DSN or %s are required", strings.Join(missing, ", "))
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
