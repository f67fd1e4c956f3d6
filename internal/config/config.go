package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream catalog configuration.
	NASABaseURL   string
	NASATimeout   time.Duration
	SimbadBaseURL string
	SimbadTimeout time.Duration

	// Sky survey imagery configuration.
	ImagesEnabled  bool
	CutoutTimeout  time.Duration
	ImageCacheSize int

	// Optional search history persistence. Empty DatabaseURL disables it.
	DatabaseURL string

	// Optional Kafka publishing of scored records. Empty brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// Ollama analysis configuration.
	OllamaURL          string
	OllamaModel        string
	OllamaTimeout      time.Duration
	OllamaProbeTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	nasaTimeout, err := parseDurationEnv("NASA_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	simbadTimeout, err := parseDurationEnv("SIMBAD_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	cutoutTimeout, err := parseDurationEnv("CUTOUT_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	ollamaTimeout, err := parseDurationEnv("OLLAMA_TIMEOUT", "90s")
	if err != nil {
		return nil, err
	}
	ollamaProbeTimeout, err := parseDurationEnv("OLLAMA_PROBE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	imagesEnabled := true
	if v := os.Getenv("IMAGES_ENABLED"); v != "" {
		imagesEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NASABaseURL:   envOrDefault("NASA_BASE_URL", "https://exoplanetarchive.ipac.caltech.edu/TAP/sync"),
		NASATimeout:   nasaTimeout,
		SimbadBaseURL: envOrDefault("SIMBAD_BASE_URL", "https://simbad.u-strasbg.fr/simbad/sim-id"),
		SimbadTimeout: simbadTimeout,

		ImagesEnabled:  imagesEnabled,
		CutoutTimeout:  cutoutTimeout,
		ImageCacheSize: parseCacheSize(),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "habitability-scores"),

		OllamaURL:          envOrDefault("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:        envOrDefault("OLLAMA_MODEL", "gemma2"),
		OllamaTimeout:      ollamaTimeout,
		OllamaProbeTimeout: ollamaProbeTimeout,
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.NASABaseURL == "" {
		return nil, errors.New("NASA_BASE_URL is required")
	}
	if cfg.SimbadBaseURL == "" {
		return nil, errors.New("SIMBAD_BASE_URL is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// PersistenceEnabled reports whether search history should be written to Postgres.
func (c *Config) PersistenceEnabled() bool { return c.DatabaseURL != "" }

// PublishingEnabled reports whether scored records should be published to Kafka.
func (c *Config) PublishingEnabled() bool { return len(c.KafkaBrokers) > 0 }

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseCacheSize() int {
	if s := os.Getenv("IMAGE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 500
}
