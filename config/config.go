// Package config loads the settings of the albums check suite: where the service is, how big
// the fixture is, and which records and values the checks use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the hosted sandbox the checks were written against.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultDotEnvFile is the .env file that LoadDotEnv reads when no path is given.
const DefaultDotEnvFile = ".env"

const (
	envBaseURL      = "ALBUMS_BASE_URL"
	envFixtureCount = "ALBUMS_FIXTURE_COUNT"
	envHTTPTimeout  = "HTTP_TIMEOUT"
	envResetURL     = "ALBUMS_RESET_URL"
)

// Config is the complete suite configuration.
type Config struct {
	BaseURL            string        `yaml:"base_url"`
	FixtureCount       int           `yaml:"fixture_count"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	StatusQueryTimeout time.Duration `yaml:"status_query_timeout"`
	Checks             ChecksConfig  `yaml:"checks"`

	// FixtureResetURL, if set, receives a POST before every check to restore the fixture.
	FixtureResetURL string `yaml:"fixture_reset_url"`
}

// AlbumValues is a userId/title pair submitted by a check.
type AlbumValues struct {
	UserID int    `yaml:"user_id"`
	Title  string `yaml:"title"`
}

// ChecksConfig holds the record ids and literal values used by the individual checks.
type ChecksConfig struct {
	ReadID int `yaml:"read_id"`

	Create AlbumValues `yaml:"create"`

	UpdateID     int         `yaml:"update_id"`
	Update       AlbumValues `yaml:"update"`
	UpdateBodyID int         `yaml:"update_body_id"`

	PatchTitleID int    `yaml:"patch_title_id"`
	PatchTitle   string `yaml:"patch_title"`

	PatchUserIDID int `yaml:"patch_user_id_id"`
	PatchUserID   int `yaml:"patch_user_id"`

	DeleteID int `yaml:"delete_id"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		FixtureCount:       100,
		RequestTimeout:     30 * time.Second,
		StatusQueryTimeout: 10 * time.Second,
		Checks: ChecksConfig{
			ReadID:        1,
			Create:        AlbumValues{UserID: 1, Title: "I'm a new album"},
			UpdateID:      5,
			Update:        AlbumValues{UserID: 142, Title: "New album title"},
			UpdateBodyID:  500,
			PatchTitleID:  5,
			PatchTitle:    "I'm a new title! Yo-ho-ho",
			PatchUserIDID: 6,
			PatchUserID:   666,
			DeleteID:      7,
		},
	}
}

// LoadDotEnv reads environment variables from a .env file. Variables that are already set in
// the process environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultDotEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from the defaults, then the YAML file at path (if path is not
// empty), then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
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
	if v := os.Getenv(envBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(envResetURL); v != "" {
		c.FixtureResetURL = v
	}
	if v := os.Getenv(envFixtureCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", envFixtureCount, v)
		}
		c.FixtureCount = n
	}
	if v := os.Getenv(envHTTPTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envHTTPTimeout, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// parseDuration accepts either plain integers (seconds) or Go duration strings such as "1m30s".
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base URL must start with http:// or https://, got %q", c.BaseURL)
	}
	if c.FixtureCount < 1 {
		return fmt.Errorf("fixture count must be at least 1, got %d", c.FixtureCount)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
