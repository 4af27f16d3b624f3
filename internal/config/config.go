package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr       = ":8080"
	defaultAssetBaseURL     = "http://localhost:8080/assets"
	defaultUpstreamTimeout  = "15s"
	defaultJWTAccessTTL     = "24h"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultSnapshotLimit    = "20"
	defaultSnapshotMaxLimit = "100"
)

type Config struct {
	AppEnv          string
	ListenAddr      string
	UpstreamBaseURL string
	UpstreamToken   string
	UpstreamTimeout time.Duration
	AssetBaseURL    string
	JWTSecret       string
	JWTAccessTTL    time.Duration
	SnapshotLimit   int
	SnapshotMax     int
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.UpstreamBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL")), "/")
	cfg.UpstreamToken = strings.TrimSpace(os.Getenv("UPSTREAM_TOKEN"))
	cfg.AssetBaseURL = getEnv("ASSET_BASE_URL", defaultAssetBaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.UpstreamTimeout, err = parseDurationEnv("UPSTREAM_TIMEOUT", defaultUpstreamTimeout)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.SnapshotLimit, err = parseIntEnv("SNAPSHOT_DEFAULT_LIMIT", defaultSnapshotLimit)
	if err != nil {
		return nil, err
	}
	cfg.SnapshotMax, err = parseIntEnv("SNAPSHOT_MAX_LIMIT", defaultSnapshotMaxLimit)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be > 0")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.SnapshotLimit <= 0 || cfg.SnapshotMax < cfg.SnapshotLimit {
		return fmt.Errorf("snapshot limits invalid: default=%d max=%d", cfg.SnapshotLimit, cfg.SnapshotMax)
	}
	if IsProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

// IsProdLike reports whether env names a production-grade deployment.
func IsProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}
