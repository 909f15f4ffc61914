package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSlicer()
	c.normalizeDiscovery()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) != "" {
		if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
			return fmt.Errorf("paths.input_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.Atlas) != "" {
		if c.Paths.Atlas, err = expandPath(c.Paths.Atlas); err != nil {
			return fmt.Errorf("paths.atlas: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSlicer() {
	c.Slicer.Executable = strings.TrimSpace(c.Slicer.Executable)
	if value, ok := os.LookupEnv("SLICER_EXE"); ok && strings.TrimSpace(value) != "" {
		c.Slicer.Executable = strings.TrimSpace(value)
	}
	if c.Slicer.Executable == "" {
		c.Slicer.Executable = defaultSlicerExecutable
	}
}

func (c *Config) normalizeDiscovery() {
	c.Discovery.Pattern = strings.TrimSpace(c.Discovery.Pattern)
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
