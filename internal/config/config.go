package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Input describes how candidate rows are read from license CSV exports.
type Input struct {
	FirstNameColumn   string `toml:"first_name_column"`
	LastNameColumn    string `toml:"last_name_column"`
	ExpirationColumn  string `toml:"expiration_column"`
	MinExpirationYear int    `toml:"min_expiration_year"`
	MinNameLength     int    `toml:"min_name_length"`
}

// Search contains configuration for the remote obituary search endpoint.
type Search struct {
	BaseURL           string  `toml:"base_url"`
	CountryID         int     `toml:"country_id"`
	RegionID          int     `toml:"region_id"`
	StartDate         string  `toml:"start_date"`
	EndDate           string  `toml:"end_date"`
	Limit             int     `toml:"limit"`
	NoticeType        string  `toml:"notice_type"`
	UserAgent         string  `toml:"user_agent"`
	Referer           string  `toml:"referer"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Retry contains retry and pacing configuration for the fetcher.
type Retry struct {
	MaxAttempts          int `toml:"max_attempts"`
	RateLimitBaseSeconds int `toml:"rate_limit_base_seconds"`
	TransientWaitSeconds int `toml:"transient_wait_seconds"`
	JitterMinMillis      int `toml:"jitter_min_millis"`
	JitterMaxMillis      int `toml:"jitter_max_millis"`
}

// Run contains batch scheduling configuration.
type Run struct {
	BatchSize         int `toml:"batch_size"`
	Concurrency       int `toml:"concurrency"`
	BatchPauseSeconds int `toml:"batch_pause_seconds"`
}

// Output contains the partitioned output stream locations.
type Output struct {
	KeptPath    string `toml:"kept_path"`
	RemovedPath string `toml:"removed_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for obitcheck.
//
// Configuration sections by subsystem:
//   - Paths: state (checkpoint/lock) and log directories
//   - Input: CSV column mapping and eligibility thresholds
//   - Search: remote obituary search endpoint and pacing
//   - Retry: backoff ceilings and jitter for the fetcher
//   - Run: batch size, concurrency, inter-batch pause
//   - Output: kept/removed CSV destinations
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Input   Input   `toml:"input"`
	Search  Search  `toml:"search"`
	Retry   Retry   `toml:"retry"`
	Run     Run     `toml:"run"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/obitcheck/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The boolean reports whether a
// config file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("obitcheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}

// ExpandPath expands ~ and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
