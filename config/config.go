package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"sjsage522/classifiedcrawler/pkg/errors"
)

// Fetcher kinds
const (
	FetcherChrome = "chrome"
	FetcherHTTP   = "http"
)

// Config represents the application configuration
type Config struct {
	// Search target
	SearchBaseURL  string
	SearchType     string
	SearchCategory string
	SearchSort     string

	// Page fetching
	Fetcher         string
	ChromeWSURL     string
	Headless        bool
	PageLoadTimeout time.Duration

	// Output
	OutputPath        string
	EnforcePriceRange bool

	// Memcache configuration
	MemcacheAddr  string
	RunSummaryTTL time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	pageLoadTimeout, _ := strconv.Atoi(getEnv("PAGE_LOAD_TIMEOUT_SECONDS", "10"))
	summaryTTL, _ := strconv.Atoi(getEnv("RUN_SUMMARY_TTL_HOURS", "168"))
	headless, _ := strconv.ParseBool(getEnv("HEADLESS", "true"))
	enforcePrice, _ := strconv.ParseBool(getEnv("ENFORCE_PRICE_RANGE", "false"))

	return &Config{
		SearchBaseURL:        getEnv("SEARCH_BASE_URL", "https://www.insomnia.gr/classifieds/search/"),
		SearchType:           getEnv("SEARCH_TYPE", "classifieds_advert"),
		SearchCategory:       getEnv("SEARCH_CATEGORY", "14"),
		SearchSort:           getEnv("SEARCH_SORT", "priceHigh"),
		Fetcher:              getEnv("FETCHER", FetcherChrome),
		ChromeWSURL:          os.Getenv("CHROME_WS_URL"),
		Headless:             headless,
		PageLoadTimeout:      time.Duration(pageLoadTimeout) * time.Second,
		OutputPath:           getEnv("OUTPUT_PATH", "output.xlsx"),
		EnforcePriceRange:    enforcePrice,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RunSummaryTTL:        time.Duration(summaryTTL) * time.Hour,
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "classifieds"),
		RedisStreamMaxLength: redisStreamMaxLength,
		Environment:          getEnv("CRAWLER_ENVIRONMENT", "development"),
	}
}

// Validate checks the values LoadConfig could not reject on its own
func (c *Config) Validate() error {
	u, err := url.Parse(c.SearchBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewConfiguration(fmt.Sprintf("SEARCH_BASE_URL must be an absolute URL, got %q", c.SearchBaseURL), err)
	}
	if c.Fetcher != FetcherChrome && c.Fetcher != FetcherHTTP {
		return errors.NewConfiguration(fmt.Sprintf("FETCHER must be %q or %q, got %q", FetcherChrome, FetcherHTTP, c.Fetcher), nil)
	}
	if c.PageLoadTimeout <= 0 {
		return errors.NewConfiguration("PAGE_LOAD_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.RedisAddr != "" && c.RedisStream == "" {
		return errors.NewConfiguration("REDIS_STREAM is required when REDIS_ADDR is set", nil)
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
