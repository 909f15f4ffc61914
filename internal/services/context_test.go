package services_test

import (
	"context"
	"testing"

	"regbet/internal/services"
)

func TestContextRoundTrips(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.CaseFromContext(ctx); ok {
		t.Fatal("expected empty context to carry no case")
	}

	ctx = services.WithCase(ctx, "case1")
	ctx = services.WithStage(ctx, "extraction")
	ctx = services.WithRunID(ctx, "run-abc")

	if name, ok := services.CaseFromContext(ctx); !ok || name != "case1" {
		t.Fatalf("case round trip failed: %q %v", name, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "extraction" {
		t.Fatalf("stage round trip failed: %q %v", stage, ok)
	}
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-abc" {
		t.Fatalf("run id round trip failed: %q %v", id, ok)
	}
}

func TestEmptyValuesDoNotAnnotate(t *testing.T) {
	ctx := services.WithCase(context.Background(), "")
	if _, ok := services.CaseFromContext(ctx); ok {
		t.Fatal("empty case should not annotate context")
	}
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("empty stage should not annotate context")
	}
}
