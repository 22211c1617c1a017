package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cv-analyzer-backend/internal/contentunderstanding"
)

// ConfigurationError reports a missing or contradictory required setting.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// Config holds application configuration resolved from the environment.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	Endpoint   string
	APIVersion string
	AnalyzerID string
	Credential contentunderstanding.Credential

	PollTimeout  time.Duration
	PollInterval time.Duration
}

const defaultAPIVersion = "2024-12-01-preview"

// Load reads configuration from environment variables. It returns a
// ConfigurationError before any network activity if a required setting is
// absent, or if zero or both of the credential variables are set.
func Load() (Config, error) {
	// Best-effort load of a local env file for dev convenience.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Endpoint:        strings.TrimRight(strings.TrimSpace(os.Getenv("ENDPOINT")), "/"),
		APIVersion:      getEnv("API_VERSION", defaultAPIVersion),
		AnalyzerID:      strings.TrimSpace(os.Getenv("ANALYZER_ID")),
	}

	if cfg.Endpoint == "" {
		return Config{}, &ConfigurationError{Reason: "ENDPOINT is not set"}
	}
	if cfg.AnalyzerID == "" {
		return Config{}, &ConfigurationError{Reason: "ANALYZER_ID is not set"}
	}

	key := strings.TrimSpace(os.Getenv("SUBSCRIPTION_KEY"))
	token := strings.TrimSpace(os.Getenv("AAD_TOKEN"))
	switch {
	case key != "" && token != "":
		return Config{}, &ConfigurationError{Reason: "SUBSCRIPTION_KEY and AAD_TOKEN are both set; provide exactly one"}
	case key != "":
		cfg.Credential = contentunderstanding.SubscriptionKey(key)
	case token != "":
		cfg.Credential = contentunderstanding.AADToken(token)
	default:
		return Config{}, &ConfigurationError{Reason: "either SUBSCRIPTION_KEY or AAD_TOKEN must be set"}
	}

	timeout, err := envSeconds("POLL_TIMEOUT_SECONDS", 3600)
	if err != nil {
		return Config{}, err
	}
	interval, err := envSeconds("POLL_INTERVAL_SECONDS", 2)
	if err != nil {
		return Config{}, err
	}
	cfg.PollTimeout = timeout
	cfg.PollInterval = interval

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func envSeconds(key string, def int) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(def) * time.Second, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("%s must be a positive integer, got %q", key, raw)}
	}
	return time.Duration(parsed) * time.Second, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
