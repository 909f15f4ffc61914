package slicer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"regbet/internal/services"
)

// ResolveExecutable resolves the configured host value to a runnable path.
// A value containing a path separator must name an existing file; a bare
// command name is searched on PATH.
func ResolveExecutable(configured string) (string, error) {
	value := strings.TrimSpace(configured)
	if value == "" {
		return "", services.Wrap(services.ErrConfiguration, "slicer", "resolve", "host executable not configured", nil)
	}

	if strings.ContainsRune(value, os.PathSeparator) {
		info, err := os.Stat(value)
		if err != nil || info.IsDir() {
			return "", services.Wrap(services.ErrNotFound, "slicer", "resolve",
				fmt.Sprintf("host executable %q not found; set SLICER_EXE or slicer.executable", value), err)
		}
		return value, nil
	}

	path, err := exec.LookPath(value)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "slicer", "resolve",
			fmt.Sprintf("host command %q not on PATH; set SLICER_EXE or slicer.executable", value), err)
	}
	return path, nil
}

// LaunchArgs builds the argument vector for running a CLI module inside the host.
func LaunchArgs(module string, moduleArgs ...string) []string {
	args := make([]string, 0, 2+len(moduleArgs))
	args = append(args, "--launch", module)
	return append(args, moduleArgs...)
}

// HeadlessScriptArgs builds the argument vector for executing a Python script
// in the host without interactive UI.
func HeadlessScriptArgs(scriptPath string) []string {
	return []string{"--no-main-window", "--no-splash", "--python-script", scriptPath}
}

// IsNotFound reports whether err indicates a missing host executable.
func IsNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
