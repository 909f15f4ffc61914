package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout holds the five fixed output subdirectories beneath the output root.
type Layout struct {
	RegisterDir  string
	ExtractDir   string
	SegmentDir   string
	TransformDir string
	LogDir       string
}

// NewLayout computes the directory layout for an output root.
func NewLayout(outputRoot string) Layout {
	return Layout{
		RegisterDir:  filepath.Join(outputRoot, "register"),
		ExtractDir:   filepath.Join(outputRoot, "bet"),
		SegmentDir:   filepath.Join(outputRoot, "segment"),
		TransformDir: filepath.Join(outputRoot, "transform"),
		LogDir:       filepath.Join(outputRoot, "log"),
	}
}

// EnsureDirectories creates every output subdirectory.
func (l Layout) EnsureDirectories() error {
	for _, dir := range []string{l.RegisterDir, l.ExtractDir, l.SegmentDir, l.TransformDir, l.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	return nil
}
