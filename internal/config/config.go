package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the FloatChat service.
type Config struct {
	DataPath        string
	DatabaseURL     string
	RegionsPath     string
	Port            int
	BearerToken     string
	NarratorURL     string
	NarratorKey     string
	NarratorModel   string
	NarrationWait   time.Duration
	RetryBackoff    time.Duration
	RejectThreshold float64
	PreviewLimit    int
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:            8080,
		NarratorURL:     "https://openrouter.ai/api/v1/chat/completions",
		NarratorModel:   "deepseek/deepseek-r1:free",
		NarrationWait:   30 * time.Second,
		RetryBackoff:    2 * time.Second,
		RejectThreshold: 0.05,
		PreviewLimit:    100,
	}

	cfg.DataPath = os.Getenv("ARGO_DATA_PATH")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RegionsPath = os.Getenv("REGIONS_PATH")

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	if url := os.Getenv("NARRATOR_API_URL"); url != "" {
		cfg.NarratorURL = url
	}
	cfg.NarratorKey = os.Getenv("NARRATOR_API_KEY")
	if model := os.Getenv("NARRATOR_MODEL"); model != "" {
		cfg.NarratorModel = model
	}

	if waitStr := os.Getenv("NARRATION_TIMEOUT"); waitStr != "" {
		wait, err := time.ParseDuration(waitStr)
		if err != nil || wait <= 0 {
			return cfg, fmt.Errorf("invalid NARRATION_TIMEOUT: %s", waitStr)
		}
		cfg.NarrationWait = wait
	}

	if backoffStr := os.Getenv("NARRATION_RETRY_BACKOFF"); backoffStr != "" {
		backoff, err := time.ParseDuration(backoffStr)
		if err != nil || backoff < 0 {
			return cfg, fmt.Errorf("invalid NARRATION_RETRY_BACKOFF: %s", backoffStr)
		}
		cfg.RetryBackoff = backoff
	}

	if ratioStr := os.Getenv("REJECT_THRESHOLD"); ratioStr != "" {
		ratio, err := strconv.ParseFloat(ratioStr, 64)
		if err != nil || ratio < 0 || ratio > 1 {
			return cfg, errors.New("REJECT_THRESHOLD must be a fraction between 0 and 1")
		}
		cfg.RejectThreshold = ratio
	}

	if limitStr := os.Getenv("PREVIEW_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			cfg.PreviewLimit = limit
		} else {
			return cfg, fmt.Errorf("invalid PREVIEW_LIMIT: %s", limitStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NarratorConfigured reports whether an API key is present for the external
// narration service.
func (c Config) NarratorConfigured() bool {
	return c.NarratorKey != ""
}
