package manifest_test

import (
	"context"
	"path/filepath"
	"testing"

	"regbet/internal/manifest"
	"regbet/internal/testsupport"
)

func TestRunAndCaseRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenManifest(t, cfg)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", cfg.Paths.InputDir, cfg.Paths.Atlas, cfg.Paths.OutputDir, false); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.RecordCase(ctx, "run-1", "case1", "/in/case1.nii.gz", "succeeded", ""); err != nil {
		t.Fatalf("RecordCase: %v", err)
	}
	if err := store.RecordCase(ctx, "run-1", "case2", "/in/case2.nii.gz", "failed_registration", "exit status 1"); err != nil {
		t.Fatalf("RecordCase: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", 2, 1); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.RunID != "run-1" || run.Total != 2 || run.Completed != 1 {
		t.Fatalf("unexpected run row: %+v", run)
	}
	if run.FinishedAt == nil || run.FinishedAt.IsZero() {
		t.Fatalf("expected finished timestamp: %+v", run)
	}
	if run.StartedAt.IsZero() {
		t.Fatal("expected started timestamp")
	}

	records, err := store.CasesForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("CasesForRun: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two case rows, got %d", len(records))
	}
	if records[0].Name != "case1" || records[1].Name != "case2" {
		t.Fatalf("case order not preserved: %+v", records)
	}
	if records[1].Outcome != "failed_registration" || records[1].Detail != "exit status 1" {
		t.Fatalf("unexpected failure record: %+v", records[1])
	}
}

func TestRecentRunsOrdering(t *testing.T) {
	store, err := manifest.OpenPath(filepath.Join(t.TempDir(), "regbet.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.BeginRun(ctx, id, "/in", "/atlas", "/out", true); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if !runs[0].Overwrite {
		t.Fatal("overwrite flag not persisted")
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regbet.db")

	store, err := manifest.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.BeginRun(context.Background(), "run-1", "/in", "/atlas", "/out", false); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := manifest.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected persisted run after reopen, got %d", len(runs))
	}
}
