package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidValue is wrapped by every validation failure.
var ErrInvalidValue = errors.New("invalid value")

var (
	validColors     = []string{"auto", "always", "never"}
	validLogLevels  = []string{"off", "debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks that every enumerated field holds a known value.
func (c *Config) Validate() error {
	if err := c.EngineOptions().Validate(); err != nil {
		return err
	}
	if err := oneOf("color", c.Color, validColors); err != nil {
		return err
	}
	if err := oneOf("log_level", c.LogLevel, validLogLevels); err != nil {
		return err
	}
	return oneOf("log_format", c.LogFormat, validLogFormats)
}

func oneOf(key, value string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w for %s: %q (want one of %s)", ErrInvalidValue, key, value, strings.Join(allowed, ", "))
}
