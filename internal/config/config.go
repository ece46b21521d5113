package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	TCDDBaseURL   string
	TCDDAuthToken string
	TCDDUnitID    string

	PollInterval    time.Duration
	MinRequestDelay time.Duration
	MaxRequestDelay time.Duration
}

const (
	defaultBaseURL = "https://api-yebsp.tcddtasimacilik.gov.tr"
	defaultUnitID  = "3895"

	defaultPollIntervalMs    = 5000
	defaultMinRequestDelayMs = 3000
	defaultMaxRequestDelayMs = 8000
)

func Load() (*Config, error) {
	// .env is optional; plain environment variables win in deployment.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		TCDDBaseURL:   os.Getenv("TCDD_BASE_URL"),
		TCDDAuthToken: os.Getenv("TCDD_AUTH_TOKEN"),
		TCDDUnitID:    os.Getenv("TCDD_UNIT_ID"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.TCDDBaseURL == "" {
		cfg.TCDDBaseURL = defaultBaseURL
	}
	if cfg.TCDDUnitID == "" {
		cfg.TCDDUnitID = defaultUnitID
	}

	var err error
	if cfg.PollInterval, err = durationMs("POLL_INTERVAL_MS", defaultPollIntervalMs); err != nil {
		return nil, err
	}
	if cfg.MinRequestDelay, err = durationMs("MIN_REQUEST_DELAY_MS", defaultMinRequestDelayMs); err != nil {
		return nil, err
	}
	if cfg.MaxRequestDelay, err = durationMs("MAX_REQUEST_DELAY_MS", defaultMaxRequestDelayMs); err != nil {
		return nil, err
	}
	if cfg.MaxRequestDelay < cfg.MinRequestDelay {
		return nil, fmt.Errorf("MAX_REQUEST_DELAY_MS must not be smaller than MIN_REQUEST_DELAY_MS")
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TCDDAuthToken == "" {
		return nil, fmt.Errorf("TCDD_AUTH_TOKEN is required but not set")
	}

	log.Printf("Config loaded\n")
	return cfg, nil
}

func durationMs(key string, def int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(def) * time.Millisecond, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
