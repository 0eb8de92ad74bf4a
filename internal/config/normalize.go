package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizeTransfer(); err != nil {
		return err
	}
	c.normalizeClipboard()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() error {
	if value, ok := os.LookupEnv("ASSETBRIDGE_PORT"); ok && strings.TrimSpace(value) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("ASSETBRIDGE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if strings.EqualFold(c.Server.Host, "localhost") {
		c.Server.Host = defaultHost
	}
	c.Server.CORSOrigin = strings.TrimSpace(c.Server.CORSOrigin)
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.Server.MaxPaths <= 0 {
		c.Server.MaxPaths = defaultMaxPaths
	}
	return nil
}

func (c *Config) normalizeTransfer() error {
	if value, ok := os.LookupEnv("ASSETBRIDGE_DEFAULT_DESTINATION"); ok && strings.TrimSpace(value) != "" {
		c.Transfer.DefaultDestination = strings.TrimSpace(value)
	}
	var err error
	if c.Transfer.DefaultDestination, err = expandPath(strings.TrimSpace(c.Transfer.DefaultDestination)); err != nil {
		return fmt.Errorf("transfer.default_destination: %w", err)
	}
	if c.Transfer.SourceRoot, err = expandPath(strings.TrimSpace(c.Transfer.SourceRoot)); err != nil {
		return fmt.Errorf("transfer.source_root: %w", err)
	}
	return nil
}

func (c *Config) normalizeClipboard() {
	c.Clipboard.Backend = strings.ToLower(strings.TrimSpace(c.Clipboard.Backend))
	if c.Clipboard.Backend == "" {
		c.Clipboard.Backend = defaultClipboardBackend
	}
	if c.Clipboard.TimeoutSeconds <= 0 {
		c.Clipboard.TimeoutSeconds = defaultClipboardTimeout
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("ASSETBRIDGE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
