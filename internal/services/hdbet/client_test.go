package hdbet_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regbet/internal/services"
	"regbet/internal/services/hdbet"
	"regbet/internal/services/slicer"
)

// stubExecutor records the invocation and can run a hook before returning,
// which tests use to simulate the host writing (or not writing) outputs.
type stubExecutor struct {
	result slicer.Result
	err    error
	onRun  func(binary string, args []string)

	binary string
	args   []string
	calls  int
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (slicer.Result, error) {
	s.calls++
	s.binary = binary
	s.args = append([]string(nil), args...)
	if s.onRun != nil {
		s.onRun(binary, args)
	}
	return s.result, s.err
}

func newClient(t *testing.T, exec slicer.Executor, scriptDir string) *hdbet.Client {
	t.Helper()
	client, err := hdbet.New("/opt/slicer/Slicer", 1800,
		hdbet.WithExecutor(exec), hdbet.WithScriptDir(scriptDir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func request(t *testing.T) hdbet.Request {
	t.Helper()
	dir := t.TempDir()
	return hdbet.Request{
		InputVolume:        filepath.Join(dir, "case1_register.nii.gz"),
		OutputVolume:       filepath.Join(dir, "case1_register_BET.nii.gz"),
		OutputSegmentation: filepath.Join(dir, "case1_register_SEG.seg.nrrd"),
		LogPath:            filepath.Join(dir, "case1_hdbet.log"),
	}
}

func writeOutputs(t *testing.T, req hdbet.Request) {
	t.Helper()
	for _, path := range []string{req.OutputVolume, req.OutputSegmentation} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func scriptPathFromArgs(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "--python-script" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no --python-script in args: %v", args)
	return ""
}

func TestExtractRunsHeadlessScript(t *testing.T) {
	scriptDir := t.TempDir()
	req := request(t)

	var scriptBody string
	exec := &stubExecutor{}
	exec.onRun = func(binary string, args []string) {
		path := scriptPathFromArgs(t, args)
		if filepath.Dir(path) != scriptDir {
			t.Fatalf("script materialized outside script dir: %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("script not readable during run: %v", err)
		}
		scriptBody = string(data)
		writeOutputs(t, req)
	}
	client := newClient(t, exec, scriptDir)

	if err := client.Extract(context.Background(), req); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if exec.binary != "/opt/slicer/Slicer" {
		t.Fatalf("unexpected binary: %q", exec.binary)
	}

	joined := strings.Join(exec.args, " ")
	for _, fragment := range []string{"--no-main-window", "--no-splash", "--python-script"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("args missing %q: %s", fragment, joined)
		}
	}
	for _, fragment := range []string{req.InputVolume, req.OutputVolume, req.OutputSegmentation, req.LogPath, "1800"} {
		if !strings.Contains(scriptBody, fragment) {
			t.Fatalf("script missing %q", fragment)
		}
	}
}

func TestExtractRemovesTempScript(t *testing.T) {
	scriptDir := t.TempDir()
	req := request(t)

	exec := &stubExecutor{}
	exec.onRun = func(_ string, _ []string) {
		writeOutputs(t, req)
	}
	client := newClient(t, exec, scriptDir)

	if err := client.Extract(context.Background(), req); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	assertEmptyDir(t, scriptDir)
}

func TestExtractRemovesTempScriptOnFailure(t *testing.T) {
	scriptDir := t.TempDir()
	exec := &stubExecutor{result: slicer.Result{ExitCode: 1, Stderr: "extension missing"}}
	client := newClient(t, exec, scriptDir)

	if err := client.Extract(context.Background(), request(t)); err == nil {
		t.Fatal("expected error")
	}
	assertEmptyDir(t, scriptDir)
}

func TestExtractNonZeroExitIsToolFailure(t *testing.T) {
	exec := &stubExecutor{result: slicer.Result{ExitCode: 1}}
	client := newClient(t, exec, t.TempDir())

	err := client.Extract(context.Background(), request(t))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if services.IsTimeout(err) {
		t.Fatal("tool failure must not classify as timeout")
	}
}

func TestExtractTimeoutIsDistinct(t *testing.T) {
	exec := &stubExecutor{result: slicer.Result{TimedOut: true}}
	client := newClient(t, exec, t.TempDir())

	err := client.Extract(context.Background(), request(t))
	if !services.IsTimeout(err) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

func TestExtractCleanExitWithoutOutputsFails(t *testing.T) {
	req := request(t)

	exec := &stubExecutor{}
	client := newClient(t, exec, t.TempDir())

	err := client.Extract(context.Background(), req)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing or empty") {
		t.Fatalf("expected missing-outputs detail, got %v", err)
	}
}

func TestExtractCleanExitWithEmptyOutputFails(t *testing.T) {
	req := request(t)

	exec := &stubExecutor{}
	exec.onRun = func(_ string, _ []string) {
		writeOutputs(t, req)
		if err := os.WriteFile(req.OutputSegmentation, nil, 0o644); err != nil {
			t.Fatalf("truncate: %v", err)
		}
	}
	client := newClient(t, exec, t.TempDir())

	if err := client.Extract(context.Background(), req); err == nil {
		t.Fatal("expected error for zero-byte segmentation")
	}
}

func TestExtractValidatesRequest(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec, t.TempDir())

	err := client.Extract(context.Background(), hdbet.Request{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("invalid request must not launch the host")
	}
}

func TestNewRejectsBadParameters(t *testing.T) {
	if _, err := hdbet.New("", 1800); err == nil {
		t.Fatal("expected error for empty host")
	}
	if _, err := hdbet.New("Slicer", 0); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp script to be removed, found %d entries", len(entries))
	}
}
