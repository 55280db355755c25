package config

import (
	"coinafrique-scraper/models"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var ErrUnknownCategory = errors.New("unknown category")

const (
	AllCategories = "all"

	FetcherHTTP    = "http"
	FetcherBrowser = "browser"

	MinPages = 2
	MaxPages = 599
)

type Config struct {
	Categories     []models.Category `yaml:"categories"`
	Fetcher        string            `yaml:"fetcher"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
	UserAgent      string            `yaml:"user_agent"`
	Headless       bool              `yaml:"headless"`
	CacheTTL       time.Duration     `yaml:"cache_ttl"`
	SnapshotDir    string            `yaml:"snapshot_dir"`
	ExportDir      string            `yaml:"export_dir"`
	LogLevel       string            `yaml:"log_level"`
	FormURLs       map[string]string `yaml:"form_urls"`
	DBHost         string            `yaml:"db_host"`
	DBPort         int               `yaml:"db_port"`
	DBUser         string            `yaml:"db_user"`
	DBPassword     string            `yaml:"db_password"`
	DBName         string            `yaml:"db_name"`
	DBSSLMode      string            `yaml:"db_sslmode"`
}

func DefaultConfig() *Config {
	return &Config{
		Categories: []models.Category{
			models.PoulesLapinsPigeons(),
			models.AutresAnimaux(),
		},
		Fetcher:        FetcherHTTP,
		RequestTimeout: 60 * time.Second,
		Headless:       true,
		CacheTTL:       0,
		SnapshotDir:    "data",
		ExportDir:      "output",
		LogLevel:       "info",
		FormURLs: map[string]string{
			"kobo":   "https://ee.kobotoolbox.org/i/xGrhVpgS",
			"google": "https://docs.google.com/forms/d/e/1FAIpQLScxLwuJLF4hDuDbBGJyE8mL5wlyBLMayhY-_VInWUTADnr_BQ/viewform",
		},
		DBHost:     "localhost",
		DBPort:     5432,
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "coinafrique",
		DBSSLMode:  "disable",
	}
}

// Load layers an optional YAML file and the environment over DefaultConfig.
// An empty path skips the file. A .env file in the working directory is
// read if present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"COINAFRIQUE_FETCHER":      &c.Fetcher,
		"COINAFRIQUE_USER_AGENT":   &c.UserAgent,
		"COINAFRIQUE_SNAPSHOT_DIR": &c.SnapshotDir,
		"COINAFRIQUE_EXPORT_DIR":   &c.ExportDir,
		"COINAFRIQUE_LOG_LEVEL":    &c.LogLevel,
		"DB_HOST":                  &c.DBHost,
		"DB_USER":                  &c.DBUser,
		"DB_PASSWORD":              &c.DBPassword,
		"DB_NAME":                  &c.DBName,
		"DB_SSLMODE":               &c.DBSSLMode,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"COINAFRIQUE_REQUEST_TIMEOUT": &c.RequestTimeout,
		"COINAFRIQUE_CACHE_TTL":       &c.CacheTTL,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv("COINAFRIQUE_HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COINAFRIQUE_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if v, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.DBPort = port
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		return fmt.Errorf("unknown fetcher %q (want %q or %q)", c.Fetcher, FetcherHTTP, FetcherBrowser)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Slug == "" || cat.URLTemplate == "" {
			return fmt.Errorf("category %q needs a slug and a url_template", cat.Slug)
		}
		if seen[cat.Slug] {
			return fmt.Errorf("duplicate category %q", cat.Slug)
		}
		seen[cat.Slug] = true
	}
	return nil
}

// Category looks a category up by slug.
func (c *Config) Category(slug string) (models.Category, bool) {
	for _, cat := range c.Categories {
		if cat.Slug == slug {
			return cat, true
		}
	}
	return models.Category{}, false
}

// Select resolves a category slug, or AllCategories, to the categories to run.
func (c *Config) Select(name string) ([]models.Category, error) {
	if name == "" || name == AllCategories {
		return c.Categories, nil
	}
	cat, ok := c.Category(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCategory, name)
	}
	return []models.Category{cat}, nil
}

// ValidatePages checks a page count against the range offered to users.
func ValidatePages(n int) error {
	if n < MinPages || n > MaxPages {
		return fmt.Errorf("pages must be between %d and %d, got %d", MinPages, MaxPages, n)
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}
