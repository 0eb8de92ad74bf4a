package config

import (
	"errors"
	"fmt"
	"net"
)

var clipboardBackends = map[string]struct{}{
	"auto":       {},
	"osascript":  {},
	"xclip":      {},
	"wl-copy":    {},
	"powershell": {},
	"memory":     {},
	"none":       {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateClipboard(); err != nil {
		return err
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Server.LoopbackOnly {
		ip := net.ParseIP(c.Server.Host)
		if ip == nil || !ip.IsLoopback() {
			return fmt.Errorf("server.host %q is not a loopback address; set server.loopback_only = false to bind it", c.Server.Host)
		}
	}
	if c.Server.MaxPaths <= 0 {
		return errors.New("server.max_paths must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	return nil
}

func (c *Config) validateClipboard() error {
	if _, ok := clipboardBackends[c.Clipboard.Backend]; !ok {
		return fmt.Errorf("clipboard.backend %q is not supported (auto, osascript, xclip, wl-copy, powershell, memory, none)", c.Clipboard.Backend)
	}
	if c.Clipboard.TimeoutSeconds <= 0 {
		return errors.New("clipboard.timeout_seconds must be positive")
	}
	return nil
}
