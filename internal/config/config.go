// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBReadHost     string `mapstructure:"DB_READ_HOST"`
	DBReadPort     string `mapstructure:"DB_READ_PORT"`
	DBReadUser     string `mapstructure:"DB_READ_USER"`
	DBReadPassword string `mapstructure:"DB_READ_PASSWORD"`
	DBSchemaMode   string `mapstructure:"DB_SCHEMA_MODE"`

	DBMaxOpenConns           int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	Env            string `mapstructure:"APP_ENV"`

	// Object storage (S3 compatible).
	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3UseSSL        bool   `mapstructure:"S3_USE_SSL"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`

	MediaMaxUploadSizeMB int `mapstructure:"MEDIA_MAX_UPLOAD_SIZE_MB"`
	FeedConcurrency      int `mapstructure:"FEED_CONCURRENCY"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	DevBootstrapAdmin bool   `mapstructure:"DEV_BOOTSTRAP_ADMIN"`
	DevAdminUsername  string `mapstructure:"DEV_ADMIN_USERNAME"`
	DevAdminEmail     string `mapstructure:"DEV_ADMIN_EMAIL"`
	DevAdminPassword  string `mapstructure:"DEV_ADMIN_PASSWORD"`
}

// defaults apply when neither a config file nor the environment sets a key.
// Every key the Config struct reads must appear here for AutomaticEnv to see it.
var defaults = map[string]any{
	"APP_ENV":                      "development",
	"PORT":                         "8375",
	"JWT_SECRET":                   defaultJWTSecret,
	"ALLOWED_ORIGINS":              "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173",
	"FEATURE_FLAGS":                "",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "user",
	"DB_PASSWORD":                  "password",
	"DB_NAME":                      "vzsocial",
	"DB_SSLMODE":                   "disable",
	"DB_READ_HOST":                 "",
	"DB_READ_PORT":                 "5432",
	"DB_READ_USER":                 "user",
	"DB_READ_PASSWORD":             "password",
	"DB_SCHEMA_MODE":               "hybrid",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            5,
	"DB_CONN_MAX_LIFETIME_MINUTES": 5,
	"REDIS_URL":                    "localhost:6379",
	"S3_ENDPOINT":                  "localhost:9000",
	"S3_ACCESS_KEY":                "minioadmin",
	"S3_SECRET_KEY":                "minioadmin",
	"S3_BUCKET":                    "vz-media",
	"S3_USE_SSL":                   false,
	"S3_PUBLIC_BASE_URL":           "",
	"MEDIA_MAX_UPLOAD_SIZE_MB":     50,
	"FEED_CONCURRENCY":             8,
	"TRACING_ENABLED":              false,
	"TRACING_EXPORTER":             "stdout",
	"OTEL_EXPORTER_OTLP_ENDPOINT":  "localhost:4318",
	"TRACING_SAMPLE_RATIO":         1.0,
	"DEV_BOOTSTRAP_ADMIN":          false,
	"DEV_ADMIN_USERNAME":           "vz_root",
	"DEV_ADMIN_EMAIL":              "root@vzsocial.local",
	"DEV_ADMIN_PASSWORD":           "",
}

// LoadConfig reads config.yml from the working directory or up to two parents,
// overlays config.<APP_ENV>.yml outside development and test, then the
// environment.
func LoadConfig() (*Config, error) {
	return Load(".", "..", "../..")
}

// Load is LoadConfig with explicit search directories.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// The base file is optional; env vars and defaults are enough to boot.
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("read config.yml: %w", err)
	}

	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("profile config config.%s.yml: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Env = env
	cfg.DBSSLMode = strings.ToLower(strings.TrimSpace(cfg.DBSSLMode))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, w := range cfg.Warnings() {
		fmt.Fprintln(os.Stderr, "config warning:", w)
	}
	return &cfg, nil
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate reports every hard configuration error at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(bad bool, msg string) {
		if bad {
			errs = append(errs, errors.New(msg))
		}
	}

	check(c.Port == "", "PORT is required")
	check(c.JWTSecret == "", "JWT_SECRET is required")
	check(c.MediaMaxUploadSizeMB < 0, "MEDIA_MAX_UPLOAD_SIZE_MB must not be negative")
	check(c.FeedConcurrency < 0, "FEED_CONCURRENCY must not be negative")
	check(c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1, "TRACING_SAMPLE_RATIO must be between 0 and 1")

	if c.IsProduction() {
		check(c.JWTSecret == defaultJWTSecret, "JWT_SECRET must be changed from the default value in production")
		check(len(c.JWTSecret) < 32, "JWT_SECRET must be at least 32 characters in production")
		check(c.DBPassword == "password" || c.DBPassword == "", "a strong DB_PASSWORD is required in production")
		check(c.DBSSLMode == "disable" || c.DBSSLMode == "", "DB_SSLMODE must enable TLS in production")
		check(c.S3AccessKey == "minioadmin" || c.S3SecretKey == "minioadmin", "default object storage credentials are not allowed in production")
		check(c.DevBootstrapAdmin, "DEV_BOOTSTRAP_ADMIN must be off in production")
	}

	return errors.Join(errs...)
}

// Warnings lists settings that are legal but unwise.
func (c *Config) Warnings() []string {
	var out []string
	if c.IsProduction() && strings.TrimSpace(c.AllowedOrigins) == "*" {
		out = append(out, "ALLOWED_ORIGINS is '*' in production")
	}
	if !c.IsProduction() && len(c.JWTSecret) < 32 {
		out = append(out, "JWT_SECRET is shorter than 32 characters")
	}
	return out
}
