package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is internally consistent. Batch inputs
// (input directory, atlas, output root) may arrive via CLI flags, so their
// presence is checked by ValidateRun instead.
func (c *Config) Validate() error {
	if err := c.validateRegistration(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateRun ensures everything a batch run needs has been supplied.
func (c *Config) ValidateRun() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set (or pass --in-dir)")
	}
	if strings.TrimSpace(c.Paths.Atlas) == "" {
		return errors.New("paths.atlas must be set (or pass --atlas)")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set (or pass --out-dir)")
	}
	return c.Validate()
}

func (c *Config) validateRegistration() error {
	if c.Registration.Iterations <= 0 {
		return errors.New("registration.iterations must be positive")
	}
	if c.Registration.Sampling <= 0 || c.Registration.Sampling > 1 {
		return errors.New("registration.sampling must be in (0, 1]")
	}
	if c.Registration.Timeout <= 0 {
		return errors.New("registration.timeout must be positive")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if c.Extraction.Timeout <= 0 {
		return errors.New("extraction.timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
