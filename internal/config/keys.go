package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "sk-...abc"
}

// CheckAPIKeys returns the status of every provider key. A missing key
// only disables its tier.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("OpenAI API Key", cfg.LLM.OpenAIKey, EnvOpenAIKey, EnvPrefix+"_LLM_OPENAI_KEY"),
		checkKey("Groq API Key", cfg.LLM.GroqKey, EnvGroqKey, EnvPrefix+"_LLM_GROQ_KEY"),
		checkKey("Polygon API Key", cfg.StockData.PolygonKey, EnvPolygonKey, EnvPrefix+"_STOCKDATA_POLYGON_KEY"),
		checkKey("Finnhub API Key", cfg.StockData.FinnhubKey, EnvFinnhubKey, EnvPrefix+"_STOCKDATA_FINNHUB_KEY"),
		checkKey("Alpha Vantage API Key", cfg.StockData.AlphaVantageKey, EnvAlphaVantageKey, EnvPrefix+"_STOCKDATA_ALPHAVANTAGE_KEY"),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:   name,
		IsSet:  value != "",
		Source: KeySourceNone,
	}
	if value == "" {
		return status
	}

	status.Source = KeySourceConfig
	for _, env := range envVars {
		if os.Getenv(env) != "" {
			status.Source = KeySourceEnv
			break
		}
	}
	status.Masked = maskKey(value)
	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
