package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/accounts-bot/internal/kvcache"
	"github.com/Black-And-White-Club/accounts-bot/internal/mikiapi"
	"github.com/Black-And-White-Club/accounts-bot/internal/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Discord       DiscordConfig       `yaml:"discord"`
	MikiAPI       MikiAPIConfig       `yaml:"miki_api"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL         string        `yaml:"url"`
	QueueGroup  string        `yaml:"queue_group"`
	CacheBucket string        `yaml:"cache_bucket"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token string `yaml:"token"`
}

// MikiAPIConfig holds the ranking and image API endpoints.
type MikiAPIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	WebURL            string        `yaml:"web_url"`
	ImageURL          string        `yaml:"image_url"`
	Token             string        `yaml:"token"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// HTTPConfig holds the health/metrics/profile HTTP listener.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment     string  `yaml:"environment"`
	LogLevel        string  `yaml:"log_level"`
	LogFormat       string  `yaml:"log_format"` // json|text
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	OTLPInsecure    bool    `yaml:"otlp_insecure"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("MIKI_API_URL"); v != "" {
		cfg.MikiAPI.BaseURL = v
	}
	if v := os.Getenv("MIKI_WEB_URL"); v != "" {
		cfg.MikiAPI.WebURL = v
	}
	if v := os.Getenv("IMAGE_API_URL"); v != "" {
		cfg.MikiAPI.ImageURL = v
	}
	if v := os.Getenv("MIKI_API_KEY"); v != "" {
		cfg.MikiAPI.Token = v
	}
	if v := os.Getenv("MIKI_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MikiAPI.Timeout = d
		}
	}
	if v := os.Getenv("MIKI_API_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MikiAPI.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Observability.OTLPInsecure = b
		}
	}
	if v := os.Getenv("TRACE_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Observability.TraceSampleRate = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.NATS.QueueGroup == "" {
		cfg.NATS.QueueGroup = "accounts"
	}
	if cfg.NATS.CacheBucket == "" {
		cfg.NATS.CacheBucket = "accounts-cache"
	}
	if cfg.NATS.CacheMaxAge <= 0 {
		cfg.NATS.CacheMaxAge = 72 * time.Hour
	}
	if cfg.MikiAPI.Timeout <= 0 {
		cfg.MikiAPI.Timeout = 10 * time.Second
	}
	if cfg.MikiAPI.RequestsPerSecond <= 0 {
		cfg.MikiAPI.RequestsPerSecond = 5
	}
	if cfg.MikiAPI.Burst <= 0 {
		cfg.MikiAPI.Burst = 5
	}
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	applyEnvOverrides(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable not set")
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// ToObsConfig maps the config onto the observability setup.
func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "accounts-bot",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
		LogFormat:   appCfg.Observability.LogFormat,

		OTLPEndpoint:    appCfg.Observability.OTLPEndpoint,
		OTLPInsecure:    appCfg.Observability.OTLPInsecure,
		TraceSampleRate: appCfg.Observability.TraceSampleRate,
	}
}

// ToMikiAPIConfig maps the config onto the API client.
func ToMikiAPIConfig(appCfg *Config) mikiapi.Config {
	return mikiapi.Config{
		BaseURL:           appCfg.MikiAPI.BaseURL,
		WebURL:            appCfg.MikiAPI.WebURL,
		ImageURL:          appCfg.MikiAPI.ImageURL,
		Token:             appCfg.MikiAPI.Token,
		Timeout:           appCfg.MikiAPI.Timeout,
		RequestsPerSecond: appCfg.MikiAPI.RequestsPerSecond,
		Burst:             appCfg.MikiAPI.Burst,
	}
}

// ToBucketConfig maps the config onto the cache bucket.
func ToBucketConfig(appCfg *Config) kvcache.BucketConfig {
	return kvcache.BucketConfig{
		Name:   appCfg.NATS.CacheBucket,
		MaxAge: appCfg.NATS.CacheMaxAge,
	}
}
