package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	STORAGE_DRIVER=postgres
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=postgres
//	POSTGRES_PASSWORD=postgres
//	POSTGRES_DB=salespulse
//	POSTGRES_SSLMODE=disable
//	FEED_URL=https://s3.amazonaws.com/roxiler.com/product_transaction.json
//	CORS_ALLOWED_ORIGINS=http://localhost:3000
type Config struct {
	Server        ServerConfig
	StorageDriver string `env:"STORAGE_DRIVER" validate:"oneof=postgres memory"`
	Postgres      PostgresConfig
	Feed          FeedConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" validate:"required,numeric"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMin int           `env:"RATE_LIMIT_PER_MIN" validate:"gte=0"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	MigrateOnStart  bool          `env:"MIGRATE_ON_START"`
}

// PostgresConfig defines connection details for PostgreSQL. It is only
// validated when STORAGE_DRIVER is postgres.
//
// URL is the computed DSN used by database/sql. The session time zone is
// pinned to UTC so month extraction does not depend on server settings.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" validate:"required"`
	Port     int    `env:"POSTGRES_PORT" validate:"required,gt=0,lt=65536"`
	User     string `env:"POSTGRES_USER" validate:"required"`
	Password string `env:"POSTGRES_PASSWORD" validate:"required"`
	DBName   string `env:"POSTGRES_DB" validate:"required"`
	SSLMode  string `env:"POSTGRES_SSLMODE" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	URL      string
}

// FeedConfig configures the upstream product-transaction feed.
type FeedConfig struct {
	URL        string        `env:"FEED_URL" validate:"required,url"`
	Timeout    time.Duration `env:"FEED_TIMEOUT" validate:"gt=0"`
	MaxRetries int           `env:"FEED_MAX_RETRIES" validate:"gte=0,lte=10"`
	RatePerSec float64       `env:"FEED_RATE_PER_SEC" validate:"gt=0"`
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// FEED_URL may also be given as API_URL.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app listing the offending environment variables.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORAGE_DRIVER", DriverPostgres)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_PER_MIN", 120)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("MIGRATE_ON_START", true)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "salespulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("FEED_URL", "https://s3.amazonaws.com/roxiler.com/product_transaction.json")
	viper.SetDefault("FEED_TIMEOUT", "15s")
	viper.SetDefault("FEED_MAX_RETRIES", 3)
	viper.SetDefault("FEED_RATE_PER_SEC", 2.0)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()
	_ = viper.BindEnv("FEED_URL", "FEED_URL", "API_URL")

	AppConfig = Config{
		Server: ServerConfig{
			Port:            viper.GetString("SERVER_PORT"),
			AllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitPerMin: viper.GetInt("RATE_LIMIT_PER_MIN"),
			RequestTimeout:  viper.GetDuration("REQUEST_TIMEOUT"),
			MigrateOnStart:  viper.GetBool("MIGRATE_ON_START"),
		},
		StorageDriver: strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Feed: FeedConfig{
			URL:        viper.GetString("FEED_URL"),
			Timeout:    viper.GetDuration("FEED_TIMEOUT"),
			MaxRetries: viper.GetInt("FEED_MAX_RETRIES"),
			RatePerSec: viper.GetFloat64("FEED_RATE_PER_SEC"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// DSN renders the PostgreSQL connection URL.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&timezone=UTC",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// Validate checks cfg against its validate tags and reports failures by
// environment variable name. Postgres settings are skipped for the memory driver.
func Validate(cfg Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})

	var err error
	if cfg.StorageDriver == DriverPostgres {
		err = v.Struct(cfg)
	} else {
		err = v.StructExcept(cfg, "Postgres")
	}
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
}

// validateConfig terminates the application with log.Fatalf when AppConfig
// is incomplete or invalid.
func validateConfig() {
	if err := Validate(AppConfig); err != nil {
		log.Fatalf("❌ %v\n", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
