package main

import (
	"strings"
	"sync"

	"mediaforge/internal/config"
)

type commandContext struct {
	apiFlag    *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(apiFlag, configFlag *string) *commandContext {
	return &commandContext{
		apiFlag:    apiFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiBaseURL resolves the daemon API address: the --api flag wins, otherwise
// it is derived from the configured bind address.
func (c *commandContext) apiBaseURL() (string, error) {
	if c.apiFlag != nil {
		if base := strings.TrimSpace(*c.apiFlag); base != "" {
			return strings.TrimRight(base, "/"), nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + strings.TrimSpace(cfg.Paths.HTTPBind), nil
}

func (c *commandContext) client() (*apiClient, error) {
	base, err := c.apiBaseURL()
	if err != nil {
		return nil, err
	}
	return newAPIClient(base), nil
}
