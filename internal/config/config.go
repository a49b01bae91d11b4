// Package config hosts the runtime configuration of the agent pool: logging
// options plus the clouds whose agent templates the pool registers.
package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/grimesjm/amazon-ecs-plugin/internal/cloud"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/logger"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/set"
)

// DefaultConfig returns the default configuration of the agent pool.
func DefaultConfig() *Config {
	return &Config{
		Log: *logger.DefaultConfig(),
	}
}

// Config is the configuration of the agent pool. It is populated, in order,
// by the config file and command line arguments.
type Config struct {
	ConfigFile string          `json:"config_file"`
	Log        logger.Config   `json:"log"`
	Clouds     []*cloud.Config `json:"clouds"`
}

// Validate implements the check.Validatable interface.
func (c Config) Validate() []error {
	errs := []error{
		check.True(len(c.Clouds) > 0, "at least one cloud must be configured"),
	}
	seen := set.New[string]()
	for _, cl := range c.Clouds {
		errs = append(errs, check.False(seen.Contains(cl.Name),
			"duplicate cloud name %q", cl.Name))
		seen.Insert(cl.Name)
	}
	return errs
}

// Printable returns a JSON string of the configuration suitable for logging.
// Clouds reference a shared-credentials profile by name only, so no secrets
// ever enter the configuration.
func (c Config) Printable() ([]byte, error) {
	optJSON, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert config to JSON")
	}
	return optJSON, nil
}

// Resolve resolves the values in the configuration.
func (c *Config) Resolve() error {
	if c.ConfigFile != "" {
		absPath, err := filepath.Abs(c.ConfigFile)
		if err != nil {
			return errors.Wrap(err, "cannot resolve config file path")
		}
		c.ConfigFile = absPath
	}
	return nil
}
