// Package config provides configuration loading for the bot process.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/AlvesGus/finbot/internal/common"
)

// Config holds everything the process needs to run. Values come from the
// environment (FINBOT_ prefix).
type Config struct {
	TelegramToken string
	BackendURL    string
	GeminiKeys    []string
	GroqKey       string

	GeminiModel    string
	GroqModel      string
	RetryBackoff   time.Duration
	BackendTimeout time.Duration
}

// Load reads configuration from viper. Callers are expected to have bound
// the environment (see cmd) before calling Load.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("groq_model", "llama-3.1-70b-versatile")
	v.SetDefault("retry_backoff", 2*time.Second)
	v.SetDefault("backend_timeout", 5*time.Second)

	cfg := Config{
		TelegramToken:  v.GetString("telegram_token"),
		BackendURL:     v.GetString("backend_url"),
		GroqKey:        v.GetString("groq_api_key"),
		GeminiModel:    v.GetString("gemini_model"),
		GroqModel:      v.GetString("groq_model"),
		RetryBackoff:   v.GetDuration("retry_backoff"),
		BackendTimeout: v.GetDuration("backend_timeout"),
	}

	// Up to three equivalent Gemini keys; order matters for rotation and
	// duplicates are collapsed.
	seen := make(map[string]bool)
	for i := 1; i <= 3; i++ {
		key := v.GetString(fmt.Sprintf("gemini_api_key_%d", i))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		cfg.GeminiKeys = append(cfg.GeminiKeys, key)
	}

	return cfg, cfg.Validate()
}

// Validate checks the startup-fatal invariants. Running without a single
// Gemini key is a configuration error, not something to retry per message.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("%w: telegram_token is required", common.ErrMissingConfig)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("%w: backend_url is required", common.ErrMissingConfig)
	}
	if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend_url %q is not an absolute URL", common.ErrInvalidConfig, c.BackendURL)
	}
	if len(c.GeminiKeys) == 0 {
		return fmt.Errorf("%w: at least one gemini_api_key_N is required", common.ErrNoCredentials)
	}
	return nil
}
