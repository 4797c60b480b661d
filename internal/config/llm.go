package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/duesflow/duesflow/internal/llm"
)

// LoadLLMConfig loads external classifier configuration from Viper and
// environment variables. Precedence:
// 1. Viper configuration (from config file or DUESFLOW_ env vars)
// 2. Direct provider environment variables (OPENAI_API_KEY, ANTHROPIC_API_KEY)
// 3. Default values
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:   viper.GetString("llm.provider"),
		APIKey:     viper.GetString("llm.api_key"),
		Model:      viper.GetString("llm.model"),
		MaxRetries: viper.GetInt("llm.max_retries"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if v := viper.GetDuration("llm.timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetDuration("llm.cache_ttl"); v > 0 {
		cfg.CacheTTL = v
	} else {
		cfg.CacheTTL = 24 * time.Hour
	}

	return cfg
}
