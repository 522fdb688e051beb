// Package config provides configuration loading for the scraper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the scraper. Values come
// from (in increasing precedence) built-in defaults, an optional
// config.yaml and environment variables.
type Config struct {
	// Extractor (yt-dlp) settings.
	YtDlpPath      string        `mapstructure:"ytdlp_path"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	// InnerTube search client settings.
	InnerTubeClientType    string        `mapstructure:"innertube_client_type"`
	InnerTubeClientVersion string        `mapstructure:"innertube_client_version"`
	HTTPTimeout            time.Duration `mapstructure:"http_timeout"`

	// Optional YouTube Data API access. When empty the Data API client
	// is not constructed and resolution relies on the keyless providers.
	YouTubeAPIKey string `mapstructure:"youtube_api_key"`

	// Headless browser settings.
	BrowserViewportWidth  int           `mapstructure:"browser_viewport_width"`
	BrowserViewportHeight int           `mapstructure:"browser_viewport_height"`
	BrowserNavTimeout     time.Duration `mapstructure:"browser_nav_timeout"`

	// Delay inserted between heavy provider calls in bulk flows.
	FetchDelay time.Duration `mapstructure:"fetch_delay"`

	// Persistence backend: "local" or "dapr".
	StateBackend   string `mapstructure:"state_backend"`
	StoragePath    string `mapstructure:"storage_path"`
	DaprStateStore string `mapstructure:"dapr_state_store"`

	// AI report settings.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	// Cron expression for scheduled trending scrapes.
	Schedule string `mapstructure:"schedule"`

	// Per-channel video fetch cap for bulk flows.
	MaxVideosPerChannel int `mapstructure:"max_videos_per_channel"`
}

// Load reads configuration from config.yaml (if present) and the
// environment, applying defaults for everything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("scraper")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("ytdlp_path", "yt-dlp")
	v.SetDefault("command_timeout", 30*time.Second)
	v.SetDefault("innertube_client_type", "WEB")
	v.SetDefault("innertube_client_version", "2.20230728.00.00")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("browser_viewport_width", 1280)
	v.SetDefault("browser_viewport_height", 800)
	v.SetDefault("browser_nav_timeout", 30*time.Second)
	v.SetDefault("fetch_delay", time.Second)
	v.SetDefault("state_backend", "local")
	v.SetDefault("storage_path", "./data")
	v.SetDefault("dapr_state_store", "statestore")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("schedule", "0 */6 * * *")
	v.SetDefault("max_videos_per_channel", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validBackends := map[string]bool{
		"local": true,
		"dapr":  true,
	}
	if !validBackends[c.StateBackend] {
		return fmt.Errorf("invalid state_backend '%s', must be one of: local, dapr", c.StateBackend)
	}

	if c.StateBackend == "local" && c.StoragePath == "" {
		return fmt.Errorf("storage_path cannot be empty for the local backend")
	}

	if c.StateBackend == "dapr" && c.DaprStateStore == "" {
		return fmt.Errorf("dapr_state_store cannot be empty for the dapr backend")
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}

	if c.BrowserNavTimeout <= 0 {
		return fmt.Errorf("browser_nav_timeout must be positive")
	}

	if c.BrowserViewportWidth < 1 || c.BrowserViewportHeight < 1 {
		return fmt.Errorf("browser viewport dimensions must be at least 1x1")
	}

	if c.FetchDelay < 0 {
		return fmt.Errorf("fetch_delay cannot be negative")
	}

	if c.MaxVideosPerChannel < 1 {
		return fmt.Errorf("max_videos_per_channel must be at least 1")
	}

	return nil
}
