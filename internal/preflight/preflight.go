package preflight

import (
	"regbet/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config: host
// executable resolution, atlas presence, and directory access on the input
// and output roots.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckSlicerHost(cfg.Slicer.Executable),
		CheckAtlas(cfg.Paths.Atlas),
		CheckDirectoryAccess("Input directory", cfg.Paths.InputDir),
		CheckDirectoryAccess("Output root", cfg.Paths.OutputDir),
	}
}

// AllPassed reports whether every check in the slice succeeded.
func AllPassed(results []Result) bool {
	for _, res := range results {
		if !res.Passed {
			return false
		}
	}
	return true
}
