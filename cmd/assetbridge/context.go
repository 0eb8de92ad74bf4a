package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"assetbridge/internal/client"
	"assetbridge/internal/config"
)

type commandContext struct {
	configFlag   *string
	addrFlag     *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, addrFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		addrFlag:     addrFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// baseURL resolves the bridge origin from --addr, falling back to the
// configured listen address.
func (c *commandContext) baseURL() string {
	if addr := flagValue(c.addrFlag); addr != "" {
		if strings.Contains(addr, "://") {
			return strings.TrimRight(addr, "/")
		}
		return "http://" + addr
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.BaseURL()
	}
	fallback := config.Default()
	return fallback.BaseURL()
}

func (c *commandContext) newClient(timeout time.Duration) *client.Client {
	return client.New(c.baseURL(), timeout)
}

func (c *commandContext) logLevel() string {
	return flagValue(c.logLevelFlag)
}

func wrapUnreachable(err error, baseURL string) error {
	if errors.Is(err, client.ErrUnreachable) {
		return fmt.Errorf("connect to bridge: nothing answered at %s; start it with `assetbridge start`", baseURL)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
