// Package config handles configuration loading for Generated Assets.
// It supports YAML config files, a local .env file and environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "GENASSETS"

// Config represents the complete application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	LLM       LLMConfig       `mapstructure:"llm"       yaml:"llm"`
	StockData StockDataConfig `mapstructure:"stockdata" yaml:"stockdata"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LLMConfig holds language-model provider configuration.
type LLMConfig struct {
	OpenAIKey     string        `mapstructure:"openai_key"     yaml:"openai_key"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url" yaml:"openai_base_url"`
	OpenAIModel   string        `mapstructure:"openai_model"   yaml:"openai_model"`
	GroqKey       string        `mapstructure:"groq_key"       yaml:"groq_key"`
	GroqBaseURL   string        `mapstructure:"groq_base_url"  yaml:"groq_base_url"`
	GroqModels    []string      `mapstructure:"groq_models"    yaml:"groq_models"`
	Temperature   float64       `mapstructure:"temperature"    yaml:"temperature"`
	MaxTokens     int           `mapstructure:"max_tokens"     yaml:"max_tokens"`
	Timeout       time.Duration `mapstructure:"timeout"        yaml:"timeout"`
}

// StockDataConfig holds market data provider settings.
type StockDataConfig struct {
	PolygonKey      string        `mapstructure:"polygon_key"      yaml:"polygon_key"`
	FinnhubKey      string        `mapstructure:"finnhub_key"      yaml:"finnhub_key"`
	AlphaVantageKey string        `mapstructure:"alphavantage_key" yaml:"alphavantage_key"`
	Timeout         time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"  yaml:"max_concurrency"`
}

// GeneratorConfig holds company generator settings.
type GeneratorConfig struct {
	TierTimeout time.Duration `mapstructure:"tier_timeout" yaml:"tier_timeout"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // "memory" or "badger"
	Path   string `mapstructure:"path"   yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Addr returns the host:port the API server listens on.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from file and environment variables.
// A .env file in the working directory is loaded first when present.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.genassets/config.yaml (home directory)
//  3. /etc/genassets/config.yaml (system)
//
// Environment variables override config file values.
// Format: GENASSETS_<SECTION>_<KEY>, e.g., GENASSETS_API_PORT
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".genassets"))
	v.AddConfigPath("/etc/genassets")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.cors_origins", []string{"*"})

	// LLM defaults
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai_model", "gpt-4o")
	v.SetDefault("llm.groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.groq_models", DefaultGroqModels)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", 60*time.Second)

	// Stock data defaults
	v.SetDefault("stockdata.timeout", 10*time.Second)
	v.SetDefault("stockdata.max_concurrency", 8)

	// Generator defaults
	v.SetDefault("generator.tier_timeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.path", filepath.Join(homeDir(), ".genassets", "data"))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// DefaultGroqModels is the ordered model list tried on the Groq tier.
var DefaultGroqModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"gemma2-9b-it",
	"mixtral-8x7b-32768",
}

// Conventional provider key variables, honored alongside the prefixed form.
const (
	EnvOpenAIKey       = "OPENAI_API_KEY"
	EnvGroqKey         = "GROQ_API_KEY"
	EnvPolygonKey      = "POLYGON_API_KEY"
	EnvFinnhubKey      = "FINNHUB_API_KEY"
	EnvAlphaVantageKey = "ALPHA_VANTAGE_API_KEY"
)

// overrideFromEnv explicitly reads provider keys from their conventional
// environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(EnvOpenAIKey); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv(EnvGroqKey); key != "" {
		cfg.LLM.GroqKey = key
	}
	if key := os.Getenv(EnvPolygonKey); key != "" {
		cfg.StockData.PolygonKey = key
	}
	if key := os.Getenv(EnvFinnhubKey); key != "" {
		cfg.StockData.FinnhubKey = key
	}
	if key := os.Getenv(EnvAlphaVantageKey); key != "" {
		cfg.StockData.AlphaVantageKey = key
	}
}

// loadDotEnv loads ./.env into the process environment. Existing
// variables win; a missing file is not an error.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
