// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config controls the verbosity and formatting of the global logger.
type Config struct {
	Level string `json:"level"`
	Color bool   `json:"color"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level: "info",
		Color: true,
	}
}

// Validate implements the check.Validatable interface.
func (c Config) Validate() []error {
	_, err := logrus.ParseLevel(c.Level)
	return []error{
		errors.Wrapf(err, "invalid log level %q", c.Level),
	}
}

// SetLogrus applies the configuration to the global logrus logger. The
// configuration must have been validated already.
func SetLogrus(c Config) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		panic(fmt.Sprintf("invalid log level: %s", c.Level))
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   c.Color,
		DisableColors: !c.Color,
	})
}
