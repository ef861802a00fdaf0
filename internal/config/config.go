// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Model     ModelConfig     `mapstructure:"model"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Sessions  struct {
		// CleanupInterval is in minutes; 0 disables the scheduled cleanup.
		CleanupInterval int `mapstructure:"cleanup_interval"`
	} `mapstructure:"sessions"`
}

// CatalogConfig configures the anime catalog (Jikan) client.
type CatalogConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	PageLimit      int    `mapstructure:"page_limit"`
	MinIntervalMS  int    `mapstructure:"min_interval_ms"`
	BulkIntervalMS int    `mapstructure:"bulk_interval_ms"`
	CacheSize      int    `mapstructure:"cache_size"`
	// Offline swaps the HTTP client for the built-in demo catalog.
	Offline bool `mapstructure:"offline"`
}

// MinInterval is the minimum spacing between two catalog requests.
func (c CatalogConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMS) * time.Millisecond
}

// BulkInterval is the extra pause between hydration lookups.
func (c CatalogConfig) BulkInterval() time.Duration {
	return time.Duration(c.BulkIntervalMS) * time.Millisecond
}

// ModelConfig configures the generative model. An empty APIKey selects demo mode.
type ModelConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Name           string `mapstructure:"name"`
	CandidateCount int    `mapstructure:"candidate_count"`
}

type RecommendConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// ANIMELIST_MODEL_API_KEY overrides `model.api_key`, and so on.
	v.SetEnvPrefix("ANIMELIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database.path", "./animelist.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("catalog.base_url", "https://api.jikan.moe/v4")
	v.SetDefault("catalog.page_limit", 12)
	v.SetDefault("catalog.min_interval_ms", 300)
	v.SetDefault("catalog.bulk_interval_ms", 500)
	v.SetDefault("catalog.cache_size", 256)
	v.SetDefault("catalog.offline", false)
	// Bound explicitly so AutomaticEnv picks it up during Unmarshal.
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.name", "gemini-2.5-flash")
	v.SetDefault("model.candidate_count", 4)
	v.SetDefault("recommend.history_limit", 10)
	v.SetDefault("sessions.cleanup_interval", 60)
}
