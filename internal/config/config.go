package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth. Empty disables authentication.
	APIKey string

	LogLevel slog.Level

	// Wikipedia
	WikipediaAPIURL  string
	RandomArticleURL string
	ArticleURLPrefix string
	DefaultLanguage  string
	UserAgent        string
	FetchTimeout     time.Duration

	// Worker pool
	WorkerCount     int
	MaxQueueSize    int
	MaxFetchRetries int

	// Article limits
	MaxContentBytes int64

	// State lifetimes
	JobTTL  time.Duration
	GameTTL time.Duration
}

const (
	defaultAPIURL        = "https://{lang}.wikipedia.org/w/api.php"
	defaultRandomURL     = "https://randomincategory.toolforge.org/?category=All_Wikipedia_level-4_vital_articles&server=en.wikipedia.org&cmnamespace=&cmtype=&returntype=subject&debug=0"
	defaultArticlePrefix = "https://en.wikipedia.org/wiki/"
	defaultUserAgent     = "wikiguess/1.0 (+https://github.com/dgallion1/wikiguess)"
)

// Load reads configuration from the environment. Variables in a .env file
// in the working directory fill in anything not already set.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("WIKIGUESS_API_KEY"),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		WikipediaAPIURL:  envOr("WIKIPEDIA_API_URL", defaultAPIURL),
		RandomArticleURL: envOr("RANDOM_ARTICLE_URL", defaultRandomURL),
		ArticleURLPrefix: envOr("ARTICLE_URL_PREFIX", defaultArticlePrefix),
		DefaultLanguage:  envOr("DEFAULT_LANGUAGE", "en"),
		UserAgent:        envOr("USER_AGENT", defaultUserAgent),
		FetchTimeout:     envDuration("FETCH_TIMEOUT", 30*time.Second),

		WorkerCount:     envInt("WORKER_COUNT", 4),
		MaxQueueSize:    envInt("MAX_QUEUE_SIZE", 100),
		MaxFetchRetries: envInt("MAX_FETCH_RETRIES", 3),

		MaxContentBytes: envInt64("MAX_CONTENT_BYTES", 4194304), // 4MB

		JobTTL:  envDuration("JOB_TTL", 1*time.Hour),
		GameTTL: envDuration("GAME_TTL", 24*time.Hour),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxFetchRetries <= 0 {
		cfg.MaxFetchRetries = 3
	}
	if cfg.MaxContentBytes <= 0 {
		cfg.MaxContentBytes = 4194304
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.GameTTL <= 0 {
		cfg.GameTTL = 24 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if !strings.Contains(c.WikipediaAPIURL, "{lang}") {
		return fmt.Errorf("WIKIPEDIA_API_URL must contain {lang}")
	}
	if !strings.HasPrefix(c.RandomArticleURL, "http://") && !strings.HasPrefix(c.RandomArticleURL, "https://") {
		return fmt.Errorf("RANDOM_ARTICLE_URL must be an http(s) URL")
	}
	if c.ArticleURLPrefix == "" {
		return fmt.Errorf("ARTICLE_URL_PREFIX is required")
	}
	if c.DefaultLanguage == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envLevel accepts slog level names such as "debug", "warn" or "error+2".
func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
