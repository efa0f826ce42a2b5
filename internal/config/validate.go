package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for internally inconsistent or unusable values.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if strings.TrimSpace(c.Search.BaseURL) == "" {
		return errors.New("search.base_url is required")
	}
	parsed, err := url.Parse(c.Search.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("search.base_url is not a valid URL: %q", c.Search.BaseURL)
	}
	if c.Search.Limit <= 0 {
		return errors.New("search.limit must be positive")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("retry.max_attempts must be positive")
	}
	if c.Retry.RateLimitBaseSeconds < 0 {
		return errors.New("retry.rate_limit_base_seconds cannot be negative")
	}
	if c.Retry.TransientWaitSeconds < 0 {
		return errors.New("retry.transient_wait_seconds cannot be negative")
	}
	if c.Retry.JitterMinMillis < 0 || c.Retry.JitterMaxMillis < 0 {
		return errors.New("retry jitter values cannot be negative")
	}
	if c.Retry.JitterMaxMillis < c.Retry.JitterMinMillis {
		return errors.New("retry.jitter_max_millis must be >= retry.jitter_min_millis")
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.BatchSize <= 0 {
		return errors.New("run.batch_size must be positive")
	}
	if c.Run.Concurrency <= 0 {
		return errors.New("run.concurrency must be positive")
	}
	if c.Run.BatchPauseSeconds < 0 {
		return errors.New("run.batch_pause_seconds cannot be negative")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.KeptPath) == "" {
		return errors.New("output.kept_path is required")
	}
	if strings.TrimSpace(c.Output.RemovedPath) == "" {
		return errors.New("output.removed_path is required")
	}
	if c.Output.KeptPath == c.Output.RemovedPath {
		return errors.New("output.kept_path and output.removed_path must differ")
	}
	return nil
}
