package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// EnvURL overrides the AnkiConnect endpoint.
	EnvURL = "ANKI_CONNECT_URL"

	// DefaultReviewLimit caps how many cards a single fetch returns.
	DefaultReviewLimit = 5

	// DefaultMaxFutureDays is how far ahead "not today only" due lookups reach.
	DefaultMaxFutureDays = 5
)

// RatingToEase maps the review ratings the tools accept to AnkiConnect ease
// values (1=again .. 4=easy).
var RatingToEase = map[string]int{
	"wrong": 1,
	"hard":  2,
	"good":  3,
	"easy":  4,
}

// ValidRatings returns the accepted rating names in ease order.
func ValidRatings() []string {
	return []string{"wrong", "hard", "good", "easy"}
}

// Config represents the complete configuration for ankimcp
type Config struct {
	// URL is the AnkiConnect endpoint.
	URL string `toml:"url"`

	// LogLevel is one of error, warn, info, debug.
	LogLevel string `toml:"log_level"`

	// Exclude filters decks and note types whose name contains any of these
	// substrings (case-insensitive) out of listings and example queries.
	Exclude []string `toml:"exclude"`

	// ReviewLimit is the default maximum number of cards per fetch.
	ReviewLimit int `toml:"review_limit"`

	// MaxFutureDays bounds how many days ahead due lookups may reach.
	MaxFutureDays int `toml:"max_future_days"`

	// RateLimit caps AnkiConnect requests per second. Zero disables it.
	RateLimit float64 `toml:"rate_limit"`
}

// Default returns the configuration used when no ankimcp.toml exists.
func Default() *Config {
	return &Config{
		URL:           "http://localhost:8765",
		LogLevel:      "info",
		Exclude:       []string{"AnKing"},
		ReviewLimit:   DefaultReviewLimit,
		MaxFutureDays: DefaultMaxFutureDays,
	}
}

// Load loads configuration from ankimcp.toml, searched upward from startPath.
// The file is optional; a missing file yields Default(). The ANKI_CONNECT_URL
// environment variable overrides the url field either way.
func Load(startPath string) (*Config, error) {
	cfg := Default()

	configPath, err := findConfigFile(startPath)
	if err == nil {
		configData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(configData, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	}

	cfg.URL = expandEnvVars(cfg.URL)
	if url := os.Getenv(EnvURL); url != "" {
		cfg.URL = url
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches for ankimcp.toml starting from the given path
func findConfigFile(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	currentDir := absPath
	for {
		configPath := filepath.Join(currentDir, "ankimcp.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("ankimcp.toml not found")
}

// expandEnvVars expands ${VAR_NAME} environment variables in the string
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]

		value := os.Getenv(varName)
		if value == "" {
			// Keep original if not set (will be caught in validation)
			return match
		}

		return value
	})
}

// validate checks that the configuration is usable
func (c *Config) validate() error {
	var errors []string

	if c.URL == "" {
		errors = append(errors, "url is required")
	}
	if strings.Contains(c.URL, "${") {
		errors = append(errors, fmt.Sprintf("url references an unset environment variable: %s", c.URL))
	}
	if c.ReviewLimit < 1 {
		errors = append(errors, "review_limit must be at least 1")
	}
	if c.MaxFutureDays < 0 {
		errors = append(errors, "max_future_days must be non-negative")
	}
	if c.RateLimit < 0 {
		errors = append(errors, "rate_limit must be non-negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, ", "))
	}

	return nil
}

// Excluded reports whether name matches any configured exclude substring.
func (c *Config) Excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, ex := range c.Exclude {
		if strings.Contains(lower, strings.ToLower(ex)) {
			return true
		}
	}
	return false
}
