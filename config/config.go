package config

import (
	"os"
	"strconv"
	"time"

	"cruisescanner/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Target page
	TargetURL      string
	CurrencySymbol string

	// Price band, whole currency units, both bounds inclusive
	PriceMin int
	PriceMax int

	// History persistence
	HistoryFile string
	HistoryDSN  string

	// Notification
	DiscordWebhookURL string
	NotifyDelay       time.Duration

	// Loader
	UseChrome      bool
	ScrollRounds   int
	PageWait       time.Duration
	MemcacheAddr   string
	FetchBlockTime time.Duration

	// Optional Redis stream mirror
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	priceMin, _ := strconv.Atoi(getEnv("PRICE_MIN", "50"))
	priceMax, _ := strconv.Atoi(getEnv("PRICE_MAX", "500"))
	notifyDelay, _ := strconv.Atoi(getEnv("NOTIFY_DELAY_SECONDS", "1"))
	scrollRounds, _ := strconv.Atoi(getEnv("SCROLL_ROUNDS", "15"))
	pageWait, _ := strconv.Atoi(getEnv("PAGE_WAIT_SECONDS", "8"))
	fetchBlock, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	useChrome, _ := strconv.ParseBool(getEnv("USE_CHROME", "true"))

	return Config{
		TargetURL:            getEnv("TARGET_URL", "https://www.seascanner.co.uk/destinations/far-east-cruises/japan-cruises"),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "£"),
		PriceMin:             priceMin,
		PriceMax:             priceMax,
		HistoryFile:          getEnv("HISTORY_FILE", "history_seascanner.json"),
		HistoryDSN:           getEnv("HISTORY_DSN", ""),
		DiscordWebhookURL:    getEnv("DISCORD_WEBHOOK_URL", ""),
		NotifyDelay:          time.Duration(notifyDelay) * time.Second,
		UseChrome:            useChrome,
		ScrollRounds:         scrollRounds,
		PageWait:             time.Duration(pageWait) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		FetchBlockTime:       time.Duration(fetchBlock) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "cruisedeals"),
		RedisStreamMaxLength: redisMaxLen,
		Environment:          getEnv("SCANNER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return errors.NewConfiguration("TARGET_URL must not be empty", nil)
	}
	if c.PriceMin > c.PriceMax {
		return errors.NewConfiguration("PRICE_MIN must not exceed PRICE_MAX", nil)
	}
	if c.PriceMin < 0 {
		return errors.NewConfiguration("PRICE_MIN must not be negative", nil)
	}
	if c.ScrollRounds <= 0 {
		return errors.NewConfiguration("SCROLL_ROUNDS must be positive", nil)
	}
	if c.HistoryFile == "" && c.HistoryDSN == "" {
		return errors.NewConfiguration("either HISTORY_FILE or HISTORY_DSN must be set", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
