package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the data layer. Retry and staleness windows
// are load-bearing, so they are always set explicitly here.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	APIBaseURL        string        `envconfig:"API_BASE_URL"`
	DefaultLLMModel   string        `envconfig:"DEFAULT_LLM_MODEL"`
	APITimeout        time.Duration `envconfig:"API_TIMEOUT" default:"120s"`
	TripsDefaultLimit int           `envconfig:"TRIPS_DEFAULT_LIMIT" default:"50"`
	DepotLocation     string        `envconfig:"DEFAULT_DEPOT_LOCATION" default:"Toronto"`
	TokenFile         string        `envconfig:"TOKEN_FILE"`

	Cache struct {
		StaleTime     time.Duration `envconfig:"CACHE_STALE_TIME" default:"30s"`
		GCTime        time.Duration `envconfig:"CACHE_GC_TIME" default:"5m"`
		Retry         int           `envconfig:"QUERY_RETRY" default:"3"`
		RetryDelay    time.Duration `envconfig:"QUERY_RETRY_DELAY" default:"1s"`
		MaxRetryDelay time.Duration `envconfig:"QUERY_MAX_RETRY_DELAY" default:"30s"`
	}

	Suggest struct {
		Delay        time.Duration `envconfig:"SUGGEST_DELAY" default:"200ms"`
		MinLength    int           `envconfig:"SUGGEST_MIN_LENGTH" default:"3"`
		ReadyTimeout time.Duration `envconfig:"SUGGEST_READY_TIMEOUT" default:"10s"`
		PollInterval time.Duration `envconfig:"SUGGEST_POLL_INTERVAL" default:"50ms"`
		APIKey       string        `envconfig:"GOOGLE_MAPS_API_KEY"`
		Region       string        `envconfig:"PLACES_REGION" default:"ca"`
	}
}

// required lists variables that have no sensible default, with an example value.
var required = []struct {
	name    string
	example string
	value   func(*Config) string
}{
	{"API_BASE_URL", "https://your-backend-url", func(c *Config) string { return c.APIBaseURL }},
	{"DEFAULT_LLM_MODEL", "gemini-2.5-flash", func(c *Config) string { return c.DefaultLLMModel }},
}

var ErrMissingEnv = errors.New("missing required environment variable")

const defaultEnvFile = ".env"

// Load reads the env file named by ENV_FILE (default .env) and then the
// process environment. Variables already set in the process win. A missing
// default file is fine; a missing ENV_FILE is an error.
func Load() (*Config, error) {
	path := Get("ENV_FILE", defaultEnvFile)
	if err := godotenv.Load(path); err != nil {
		if path != defaultEnvFile || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config: env file %q: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv populates a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	for _, r := range required {
		if strings.TrimSpace(r.value(&cfg)) == "" {
			return nil, fmt.Errorf(
				"load config: %w: %s (example: %s=%s)",
				ErrMissingEnv, r.name, r.name, r.example,
			)
		}
	}

	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("load config: API_TIMEOUT must be positive, got %s", cfg.APITimeout)
	}
	if cfg.Cache.Retry < 0 {
		return nil, fmt.Errorf("load config: QUERY_RETRY must not be negative, got %d", cfg.Cache.Retry)
	}

	return &cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
