package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel  string
	LogFormat string

	AuthCookieSecure bool

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string

	Bootstrap BootstrapConfig
}

// BootstrapConfig seeds the initial unaffiliated administrator.
type BootstrapConfig struct {
	EnsureAdmin   bool
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "storekeep")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "storekeep")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_EXPORTER_PROTOCOL", "grpc")
	v.SetDefault("BOOTSTRAP_ENSURE_ADMIN", true)
	v.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "admin@storekeep.local")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "admin")

	environment := v.GetString("ENVIRONMENT")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = v.GetBool("AUTH_COOKIE_SECURE")
	}

	return Config{
		AppName:              v.GetString("APP_SERVICE"),
		AppVersion:           v.GetString("APP_VERSION"),
		Environment:          environment,
		HTTPAddr:             v.GetString("HTTP_ADDR"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:            strings.ToLower(v.GetString("LOG_FORMAT")),
		AuthCookieSecure:     authCookieSecure,
		DBType:               v.GetString("DATABASE_TYPE"),
		DBHost:               v.GetString("DATABASE_HOST"),
		DBPort:               v.GetString("DATABASE_PORT"),
		DBName:               v.GetString("DATABASE_NAME"),
		DBUser:               v.GetString("DATABASE_USER"),
		DBPassword:           v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:            v.GetString("DATABASE_SSLMODE"),
		OtelEnabled:          v.GetBool("OTEL_ENABLED"),
		OtelExporterEndpoint: v.GetString("OTEL_EXPORTER_ENDPOINT"),
		OtelExporterProtocol: strings.ToLower(v.GetString("OTEL_EXPORTER_PROTOCOL")),
		Bootstrap: BootstrapConfig{
			EnsureAdmin:   v.GetBool("BOOTSTRAP_ENSURE_ADMIN"),
			AdminEmail:    strings.TrimSpace(v.GetString("BOOTSTRAP_ADMIN_EMAIL")),
			AdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
