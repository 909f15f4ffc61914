package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"regbet/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// an input directory, a non-empty atlas file, and an output root. It defaults
// common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "input")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.Atlas = filepath.Join(base, "atlas.nii.gz")

	if err := os.MkdirAll(cfgVal.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	WriteFile(t, cfgVal.Paths.Atlas, 256)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOverwrite sets the overwrite flag on the test config.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Overwrite = true
	}
}

// WithPattern sets the discovery glob on the test config.
func WithPattern(pattern string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Discovery.Pattern = pattern
	}
}

// WithStubbedSlicer writes a stub host executable that exits successfully,
// prepends it to PATH, and points the config at it.
func WithStubbedSlicer() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "Slicer")
		if err := os.WriteFile(target, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			b.t.Fatalf("write stub Slicer: %v", err)
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})

		b.cfg.Slicer.Executable = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
