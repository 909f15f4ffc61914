package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"regbet/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderChecks(writer io.Writer, checks []preflight.Result) {
	colorize := shouldColorize(writer)
	for _, check := range checks {
		fmt.Fprintln(writer, renderStatusLine(check.Name, check.Passed, check.Detail, colorize))
	}
}

func renderStatusLine(label string, passed bool, message string, colorize bool) string {
	statusText := "FAIL"
	if passed {
		statusText = "OK"
	}
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		color := ansiRed
		if passed {
			color = ansiGreen
		}
		return color + base + ansiReset
	}
	return base
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
