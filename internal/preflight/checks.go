package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"regbet/internal/artifacts"
	"regbet/internal/config"
	"regbet/internal/deps"
	"regbet/internal/services/slicer"
)

// CheckSlicerHost verifies that the configured host executable resolves to a
// runnable binary, either as an explicit path or through PATH lookup.
func CheckSlicerHost(executable string) Result {
	const name = "Slicer host"

	resolved, err := slicer.ResolveExecutable(executable)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckAtlas verifies that the reference atlas exists and is non-empty. A
// zero-byte atlas would make every registration fail identically, so it is
// rejected up front.
func CheckAtlas(path string) Result {
	const name = "Atlas"

	if path == "" {
		return Result{Name: name, Detail: "atlas path not configured"}
	}
	if !artifacts.NonzeroFile(path) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: missing or empty)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binary requirements for the given
// config. Only the Slicer host is required; both stages run inside it.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "Slicer",
			Command:     cfg.Slicer.Executable,
			Description: "Hosts BRAINSFit registration and the HD-BET extension",
		},
	})
}
