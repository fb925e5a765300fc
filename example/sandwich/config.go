package main

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// HistorySize is how many conversation messages the transcript keeps.
	HistorySize int `json:"history_size"`
	// SessionCacheSize bounds the number of orders held at once.
	SessionCacheSize int `json:"session_cache_size"`
}

func defaultConfig() Config {
	return Config{
		APIKey:           os.Getenv("OPENAI_API_KEY"),
		BaseURL:          os.Getenv("OPENAI_BASE_URL"),
		Model:            "gpt-4o-mini",
		HistorySize:      50,
		SessionCacheSize: 128,
	}
}

// loadConfig overlays the file at path on the defaults. An empty path keeps
// the defaults, which run offline unless OPENAI_API_KEY is set.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := sonic.Unmarshal(raw, &conf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if conf.HistorySize <= 0 || conf.SessionCacheSize <= 0 {
		return nil, fmt.Errorf("history_size and session_cache_size must be positive")
	}
	return &conf, nil
}
