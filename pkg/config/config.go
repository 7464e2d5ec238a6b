// Package config loads engine configuration from config files,
// environment variables, and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full engine configuration.
type Config struct {
	// StorePath is the SQLite corpus path; empty selects the built-in
	// in-memory corpus.
	StorePath string `mapstructure:"store_path"`

	// CacheSize bounds the document/section snapshot cache.
	CacheSize int `mapstructure:"cache_size"`

	// ReasoningModel names the Gemini model used for judgements.
	ReasoningModel string `mapstructure:"reasoning_model"`

	// PerCallTimeout bounds one reasoning call; BatchTimeout bounds a
	// whole batch.
	PerCallTimeout time.Duration `mapstructure:"per_call_timeout"`
	BatchTimeout   time.Duration `mapstructure:"batch_timeout"`

	// MaxConcurrent bounds in-flight reasoning calls per batch.
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// UnvalidatedCap and HighThreshold configure the confidence trust
	// ceiling.
	UnvalidatedCap int `mapstructure:"unvalidated_cap"`
	HighThreshold  int `mapstructure:"high_threshold"`

	// FootnoteStyle is "full" or "short".
	FootnoteStyle string `mapstructure:"footnote_style"`

	// LogLevel and LogPretty configure structured logging.
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// Load reads configuration with the precedence env > config file >
// defaults. A .env file in the working directory is applied first when
// present; a missing one is not an error.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("store_path", "")
	v.SetDefault("cache_size", 128)
	v.SetDefault("reasoning_model", "gemini-2.0-flash")
	v.SetDefault("per_call_timeout", 5*time.Second)
	v.SetDefault("batch_timeout", 10*time.Second)
	v.SetDefault("max_concurrent", 5)
	v.SetDefault("unvalidated_cap", 69)
	v.SetDefault("high_threshold", 70)
	v.SetDefault("footnote_style", "full")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetEnvPrefix("RESTOREASSIST")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.FootnoteStyle != "full" && c.FootnoteStyle != "short" {
		return fmt.Errorf("footnote_style must be \"full\" or \"short\", got %q", c.FootnoteStyle)
	}
	if c.PerCallTimeout <= 0 || c.BatchTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive")
	}
	if c.UnvalidatedCap >= c.HighThreshold {
		return fmt.Errorf("unvalidated_cap (%d) must stay below high_threshold (%d)",
			c.UnvalidatedCap, c.HighThreshold)
	}
	return nil
}
