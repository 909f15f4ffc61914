package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the batch input/output locations.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	Atlas     string `toml:"atlas"`
	OutputDir string `toml:"output_dir"`
}

// Slicer contains configuration for the 3D Slicer host application.
type Slicer struct {
	Executable string `toml:"executable"`
}

// Discovery contains configuration for input enumeration.
type Discovery struct {
	Pattern   string `toml:"pattern"`
	Recursive bool   `toml:"recursive"`
}

// Registration contains BRAINSFit stage settings.
type Registration struct {
	Iterations int     `toml:"iterations"`
	Sampling   float64 `toml:"sampling"`
	Timeout    int     `toml:"timeout"`
}

// Extraction contains HD-BET stage settings.
type Extraction struct {
	Timeout int `toml:"timeout"`
}

// Workflow contains batch execution behavior.
type Workflow struct {
	Overwrite bool `toml:"overwrite"`
}

// Manifest contains configuration for the run-history database.
type Manifest struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for regbet.
//
// Configuration sections by subsystem:
//   - Paths: input directory, atlas volume, output root
//   - Slicer: host application executable
//   - Discovery: input name pattern and recursion
//   - Registration: BRAINSFit iterations, sampling, timeout
//   - Extraction: HD-BET wait timeout
//   - Workflow: overwrite behavior
//   - Manifest: run-history persistence
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Slicer       Slicer       `toml:"slicer"`
	Discovery    Discovery    `toml:"discovery"`
	Registration Registration `toml:"registration"`
	Extraction   Extraction   `toml:"extraction"`
	Workflow     Workflow     `toml:"workflow"`
	Manifest     Manifest     `toml:"manifest"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/regbet/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/regbet/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("regbet.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LogDir returns the log directory beneath the output root. Empty when the
// output root has not been resolved yet.
func (c *Config) LogDir() string {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.OutputDir, "log")
}

// EnsureDirectories creates the output root and its log directory.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return nil
	}
	for _, dir := range []string{c.Paths.OutputDir, c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
