package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regbet/internal/testsupport"
	"regbet/internal/workflow"
)

func writeStubSlicer(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Slicer")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub slicer: %v", err)
	}
	return path
}

func writeRunConfig(t *testing.T) (configPath string, inputDir string) {
	t.Helper()
	base := t.TempDir()
	inputDir = filepath.Join(base, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir input: %v", err)
	}
	atlas := filepath.Join(base, "atlas.nii.gz")
	testsupport.WriteFile(t, atlas, 256)
	slicer := writeStubSlicer(t, base)

	configPath = filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
input_dir = %q
atlas = %q
output_dir = %q

[slicer]
executable = %q

[logging]
format = "json"
level = "error"
`, inputDir, atlas, filepath.Join(base, "output"), slicer)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, inputDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SLICER_EXE", "")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunEmptyInputExitsWithNoInputsStatus(t *testing.T) {
	configPath, _ := writeRunConfig(t)

	_, err := execute(t, "run", "--config", configPath)
	if err == nil {
		t.Fatal("expected error for empty input directory")
	}
	if !errors.Is(err, workflow.ErrNoInputs) {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}
	if exitCode(err) != exitNoInputs {
		t.Fatalf("expected exit %d, got %d", exitNoInputs, exitCode(err))
	}
}

func TestRunFailedCaseExitsWithCaseFailureStatus(t *testing.T) {
	configPath, inputDir := writeRunConfig(t)
	testsupport.WriteFile(t, filepath.Join(inputDir, "case1.nii.gz"), 128)

	// The stub host exits cleanly without producing outputs, which the
	// pipeline must treat as a stage failure.
	out, err := execute(t, "run", "--config", configPath)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if exitCode(err) != exitCaseFailure {
		t.Fatalf("expected exit %d, got %d (%v)", exitCaseFailure, exitCode(err), err)
	}
	if !strings.Contains(out, "Completed 0/1 cases.") {
		t.Fatalf("expected summary line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Failed Registration") {
		t.Fatalf("expected registration failure in summary, got:\n%s", out)
	}
}

func TestRunMissingAtlasExitsWithPreconditionStatus(t *testing.T) {
	configPath, _ := writeRunConfig(t)

	_, err := execute(t, "run", "--config", configPath, "--atlas", filepath.Join(t.TempDir(), "missing.nii.gz"))
	if err == nil {
		t.Fatal("expected precondition failure")
	}
	if exitCode(err) != exitPrecondition {
		t.Fatalf("expected exit %d, got %d (%v)", exitPrecondition, exitCode(err), err)
	}
}

func TestValidateReportsReadiness(t *testing.T) {
	configPath, _ := writeRunConfig(t)

	out, err := execute(t, "validate", "--config", configPath)
	if err != nil {
		t.Fatalf("validate: %v (output: %s)", err, out)
	}
	for _, fragment := range []string{"Slicer host", "Atlas", "Input directory", "Output root", "Ready to run"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output, got:\n%s", fragment, out)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output, got: %s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[registration]") {
		t.Fatal("sample config missing registration section")
	}

	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	if _, err := execute(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	if got := exitCode(errors.New("plain")); got != 1 {
		t.Fatalf("plain error should exit 1, got %d", got)
	}
	wrapped := fmt.Errorf("context: %w", exitWith(exitNoInputs, errors.New("nothing")))
	if got := exitCode(wrapped); got != exitNoInputs {
		t.Fatalf("wrapped exit error should keep its code, got %d", got)
	}
}

func TestOutcomeLabel(t *testing.T) {
	cases := map[workflow.Outcome]string{
		workflow.OutcomeSkipped:            "Skipped",
		workflow.OutcomeSucceeded:          "Succeeded",
		workflow.OutcomeRegistrationFailed: "Failed Registration",
		workflow.OutcomeExtractionFailed:   "Failed Extraction",
	}
	for outcome, want := range cases {
		if got := outcomeLabel(outcome); got != want {
			t.Errorf("outcomeLabel(%v) = %q, want %q", outcome, got, want)
		}
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Atlas", true, "/data/atlas.nii.gz", false)
	if !strings.Contains(line, "[OK] /data/atlas.nii.gz") {
		t.Fatalf("unexpected line: %q", line)
	}
	line = renderStatusLine("Atlas", false, "", false)
	if !strings.Contains(line, "[FAIL]") {
		t.Fatalf("unexpected line: %q", line)
	}
}

func TestRenderTable(t *testing.T) {
	output := renderTable(
		[]string{"Case", "Outcome"},
		[][]string{{"case1", "Succeeded"}, {"case2"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	if !strings.Contains(output, "case1") || !strings.Contains(output, "Succeeded") {
		t.Fatalf("table missing content:\n%s", output)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("empty header must render nothing")
	}
}
