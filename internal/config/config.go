package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	BaseURL        string
	RequestTimeout time.Duration
	DataDir        string
	MediaSecret    string
	MediaTTL       time.Duration
	ServicePhone   string
}

func LoadConfig() (Config, error) {
	cfg := Config{}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.BaseURL = envOrDefault("CALLREC_BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))
	cfg.DataDir = envOrDefault("CALLREC_DATA_DIR", "data")
	cfg.MediaSecret = envOrDefault("MEDIA_SECRET", "change-me")
	cfg.ServicePhone = envOrDefault("SERVICE_PHONE_NUMBER", "+15550100000")

	timeoutSeconds, err := parseIntEnv("CALLREC_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse CALLREC_TIMEOUT_SECONDS: %w", err)
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	mediaTTLSeconds, err := parseIntEnv("MEDIA_TTL_SECONDS", 86400)
	if err != nil {
		return Config{}, fmt.Errorf("parse MEDIA_TTL_SECONDS: %w", err)
	}
	cfg.MediaTTL = time.Duration(mediaTTLSeconds) * time.Second

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int64) (int64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}

	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
