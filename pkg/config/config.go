package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration for one adapter run.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "zpa-adapter"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.

	// ZPA API configuration.
	// BaseURL is the cloud endpoint, e.g. "https://config.zpabeta.net".
	BaseURL    string
	CustomerID string
	CloudID    string

	// CredentialSource selects where API credentials come from:
	// "env" (process environment), "inline" (ZPA_* config values below),
	// or "aws" (AWS Secrets Manager).
	CredentialSource string
	// AuthVariant selects the sign-in exchange: "signin" (OAuth-style
	// client_id/client_secret) or "session" (username/password/api key).
	AuthVariant string

	// Inline credential values, used when CredentialSource is "inline".
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	APIKey       string

	// Resource is the endpoint fetched in the default (fetch) mode.
	Resource string

	HTTPTimeout time.Duration
	// InsecureSkipTLSVerify disables TLS certificate validation.
	// Exploratory/test use only; never enable in production.
	InsecureSkipTLSVerify bool

	// Serve mode.
	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Response cache (serve mode). Empty RedisAddr disables caching.
	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	// AWS Secrets Manager (CredentialSource "aws").
	AWSRegion  string
	SecretName string
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: GetEnv("SERVICE_NAME", "zpa-adapter"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),

		BaseURL:    GetEnv("ZPA_CLOUD_URL", "https://config.zpabeta.net"),
		CustomerID: GetEnv("ZPA_CUSTOMER_ID", ""),
		CloudID:    GetEnv("ZPA_CLOUD_ID", ""),

		CredentialSource: GetEnv("ZPA_CREDENTIAL_SOURCE", "env"),
		AuthVariant:      GetEnv("ZPA_AUTH_VARIANT", "signin"),

		ClientID:     GetEnv("ZPA_CLIENT_ID", ""),
		ClientSecret: GetEnv("ZPA_CLIENT_SECRET", ""),
		Username:     GetEnv("ZPA_USERNAME", ""),
		Password:     GetEnv("ZPA_PASSWORD", ""),
		APIKey:       GetEnv("ZPA_API_KEY", ""),

		Resource: GetEnv("ZPA_RESOURCE", "/api/v1/users"),

		HTTPTimeout:           GetEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		InsecureSkipTLSVerify: GetEnvBool("ZPA_INSECURE_SKIP_TLS_VERIFY", false),

		Port:             GetEnvInt("ZPA_PORT", 9020),
		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),

		RedisAddr: GetEnv("REDIS_ADDR", ""),
		RedisDB:   GetEnvInt("REDIS_DB", 0),
		RedisPass: GetEnv("REDIS_PASS", ""),
		CacheTTL:  GetEnvDuration("CACHE_TTL", 60*time.Second),

		AWSRegion:  GetEnv("AWS_REGION", "us-east-2"),
		SecretName: GetEnv("ZPA_SECRET_NAME", ""),
	}

	return cfg
}
