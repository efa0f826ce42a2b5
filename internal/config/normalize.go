package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeInput()
	c.normalizeSearch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	stateDir, err := expandPath(c.Paths.StateDir)
	if err != nil {
		return fmt.Errorf("expand state_dir: %w", err)
	}
	c.Paths.StateDir = stateDir

	logDir, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return fmt.Errorf("expand log_dir: %w", err)
	}
	c.Paths.LogDir = logDir
	return nil
}

func (c *Config) normalizeOutput() error {
	kept, err := expandPath(c.Output.KeptPath)
	if err != nil {
		return fmt.Errorf("expand kept_path: %w", err)
	}
	c.Output.KeptPath = kept

	removed, err := expandPath(c.Output.RemovedPath)
	if err != nil {
		return fmt.Errorf("expand removed_path: %w", err)
	}
	c.Output.RemovedPath = removed
	return nil
}

func (c *Config) normalizeInput() {
	c.Input.FirstNameColumn = strings.TrimSpace(c.Input.FirstNameColumn)
	c.Input.LastNameColumn = strings.TrimSpace(c.Input.LastNameColumn)
	c.Input.ExpirationColumn = strings.TrimSpace(c.Input.ExpirationColumn)
	if c.Input.FirstNameColumn == "" {
		c.Input.FirstNameColumn = defaultFirstNameColumn
	}
	if c.Input.LastNameColumn == "" {
		c.Input.LastNameColumn = defaultLastNameColumn
	}
	if c.Input.ExpirationColumn == "" {
		c.Input.ExpirationColumn = defaultExpirationColumn
	}
	if c.Input.MinNameLength <= 0 {
		c.Input.MinNameLength = defaultMinNameLength
	}
}

func (c *Config) normalizeSearch() {
	c.Search.BaseURL = strings.TrimRight(strings.TrimSpace(c.Search.BaseURL), "/")
	c.Search.NoticeType = strings.ToLower(strings.TrimSpace(c.Search.NoticeType))
	if c.Search.NoticeType == "" {
		c.Search.NoticeType = defaultSearchNoticeType
	}
	if c.Search.TimeoutSeconds <= 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeoutSeconds
	}
	if c.Search.RequestsPerSecond <= 0 {
		c.Search.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Search.Burst <= 0 {
		c.Search.Burst = defaultBurst
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
