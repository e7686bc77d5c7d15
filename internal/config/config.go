// Package config loads pipeline configuration from the service database
// when seeded there, falling back to environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// TranslationConfig configures the translation provider.
type TranslationConfig struct {
	APIKey            string        `json:"api_key"`
	BaseURL           string        `json:"base_url"`
	Model             string        `json:"model"`
	MinConfidence     float64       `json:"min_confidence"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	CacheTTL          time.Duration `json:"-"`
}

// Config is the full pipeline configuration.
type Config struct {
	// Server
	Port string `json:"port"`

	// Database
	DatabasePath string `json:"database_path"`

	// Run parameters
	SourceName        string `json:"source_name"`
	ProcessAllSources bool   `json:"process_all_sources"`
	BatchSize         int    `json:"batch_size"`
	Workers           int    `json:"workers"`

	// Extraction policy overrides (yaml file), empty for built-in defaults.
	PolicyPath string `json:"policy_path"`

	// Translation provider
	Translation TranslationConfig `json:"translation"`

	// Logging
	LogLevel string `json:"log_level"`
}

// ConfigStore is the read path to the persisted app config.
type ConfigStore interface {
	AppConfig() (string, error)
}

// configJSON mirrors Config with string durations for the stored form.
type configJSON struct {
	Config
	TranslationCacheTTL string `json:"translation_cache_ttl"`
}

// Load reads config from the store when available, otherwise from the
// environment. An invalid stored config falls back to the environment
// rather than failing start-up.
func Load(store ConfigStore) (*Config, error) {
	if store != nil {
		doc, err := store.AppConfig()
		if err == nil && doc != "" {
			var stored configJSON
			if err := json.Unmarshal([]byte(doc), &stored); err == nil {
				cfg := stored.Config
				cfg.Translation.CacheTTL = parseDurationOr(stored.TranslationCacheTTL, time.Hour)
				applyDefaults(&cfg)
				if err := cfg.Validate(); err != nil {
					log.Printf("Invalid config from DB, falling back to env: %v", err)
				} else {
					log.Printf("Config loaded from service database")
					return &cfg, nil
				}
			} else {
				log.Printf("Failed to parse config from DB, falling back to env: %v", err)
			}
		}
	}

	cfg := &Config{
		Port:              getEnv("SERVER_PORT", "9999"),
		DatabasePath:      getEnv("DATABASE_PATH", "tendertrail.db"),
		SourceName:        getEnv("SOURCE_NAME", ""),
		ProcessAllSources: getEnvBool("PROCESS_ALL_SOURCES", false),
		BatchSize:         getEnvInt("BATCH_SIZE", 100),
		Workers:           getEnvInt("WORKERS", 1),
		PolicyPath:        getEnv("POLICY_PATH", ""),
		Translation: TranslationConfig{
			APIKey:            getEnv("TRANSLATION_API_KEY", ""),
			BaseURL:           getEnv("TRANSLATION_BASE_URL", "https://api.openai.com/v1"),
			Model:             getEnv("TRANSLATION_MODEL", "gpt-4o-mini"),
			MinConfidence:     getEnvFloat("TRANSLATION_MIN_CONFIDENCE", 0.60),
			RequestsPerSecond: getEnvFloat("TRANSLATION_RPS", 5),
			CacheTTL:          parseDurationOr(getEnv("TRANSLATION_CACHE_TTL", ""), time.Hour),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "9999"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "tendertrail.db"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Translation.MinConfidence == 0 {
		cfg.Translation.MinConfidence = 0.60
	}
	if cfg.Translation.CacheTTL == 0 {
		cfg.Translation.CacheTTL = time.Hour
	}
}

// Validate enforces the documented parameter ranges.
func (c *Config) Validate() error {
	if c.BatchSize < 1 || c.BatchSize > 1000 {
		return fmt.Errorf("batch_size must be between 1 and 1000, got %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Translation.MinConfidence < 0 || c.Translation.MinConfidence > 1 {
		return fmt.Errorf("translation min_confidence must be within [0, 1], got %v", c.Translation.MinConfidence)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid number for %s, using default %v", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Invalid boolean for %s, using default %t", key, fallback)
	}
	return fallback
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
