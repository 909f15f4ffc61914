package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"regbet/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckAtlas_OK(t *testing.T) {
	atlas := filepath.Join(t.TempDir(), "atlas.nii.gz")
	testsupport.WriteFile(t, atlas, 256)
	result := CheckAtlas(atlas)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckAtlas_ZeroByte(t *testing.T) {
	atlas := filepath.Join(t.TempDir(), "atlas.nii.gz")
	testsupport.TouchEmpty(t, atlas)
	result := CheckAtlas(atlas)
	if result.Passed {
		t.Fatal("expected failure for zero-byte atlas")
	}
}

func TestCheckAtlas_Missing(t *testing.T) {
	result := CheckAtlas(filepath.Join(t.TempDir(), "nope.nii.gz"))
	if result.Passed {
		t.Fatal("expected failure for missing atlas")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckSlicerHost_ExplicitPath(t *testing.T) {
	host := filepath.Join(t.TempDir(), "Slicer")
	if err := os.WriteFile(host, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	result := CheckSlicerHost(host)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != host {
		t.Fatalf("expected resolved path in detail, got %q", result.Detail)
	}
}

func TestCheckSlicerHost_NotFound(t *testing.T) {
	result := CheckSlicerHost("definitely-not-a-slicer-binary")
	if result.Passed {
		t.Fatal("expected failure for unknown host binary")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedSlicer())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if !AllPassed(results) {
		t.Fatal("expected AllPassed to report success")
	}
}

func TestRunAll_MissingAtlasFailsCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedSlicer())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := os.Remove(cfg.Paths.Atlas); err != nil {
		t.Fatalf("remove atlas: %v", err)
	}

	results := RunAll(cfg)
	if AllPassed(results) {
		t.Fatal("expected a failing check with the atlas removed")
	}
}
