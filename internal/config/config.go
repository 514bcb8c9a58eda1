package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App           AppConfig
	Provider      ProviderConfig
	Tracing       TracingConfig
	BusinessHours BusinessHoursConfig
	Prompts       PromptConfig
	Logger        LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// ProviderConfig holds model provider settings. APIKey is required for
// any model call; the server still boots without it and surfaces
// CONFIGURATION_MISSING on first use.
type ProviderConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// TracingConfig holds optional trace collector credentials. When any of
// the three values is absent, tracing degrades to a no-op.
type TracingConfig struct {
	PublicKey string
	SecretKey string
	Host      string
}

// Enabled reports whether all tracing credentials are present.
func (t TracingConfig) Enabled() bool {
	return t.PublicKey != "" && t.SecretKey != "" && t.Host != ""
}

// BusinessHoursConfig defines the weekday response window.
type BusinessHoursConfig struct {
	StartHour int
	EndHour   int
}

// PromptConfig points at an optional on-disk template directory. Empty
// means the embedded defaults are used.
type PromptConfig struct {
	Dir string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	startHour := getEnvAsInt("BUSINESS_HOURS_START", 9)
	endHour := getEnvAsInt("BUSINESS_HOURS_END", 17)
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil, fmt.Errorf("invalid business hours window %d-%d", startHour, endHour)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-triage"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Provider: ProviderConfig{
			APIKey:         os.Getenv("GOOGLE_API_KEY"),
			Model:          getEnv("MODEL_NAME", "gemini-2.5-flash-lite"),
			BaseURL:        getEnv("MODEL_BASE_URL", ""),
			TimeoutSeconds: getEnvAsInt("MODEL_TIMEOUT_SECONDS", 60),
		},
		Tracing: TracingConfig{
			PublicKey: os.Getenv("LANGFUSE_PUBLIC_KEY"),
			SecretKey: os.Getenv("LANGFUSE_SECRET_KEY"),
			Host:      os.Getenv("LANGFUSE_HOST"),
		},
		BusinessHours: BusinessHoursConfig{
			StartHour: startHour,
			EndHour:   endHour,
		},
		Prompts: PromptConfig{
			Dir: os.Getenv("PROMPT_DIR"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the provider round-trip timeout.
func (p ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
