package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestWithRunID(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")

	lc := GetContext(ctx)
	if lc.RunID != "run-123" {
		t.Errorf("expected run-123, got %s", lc.RunID)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithStage(ctx, "generate")
	ctx = WithRoots(ctx, "/src", "/site/content/posts")

	lc := GetContext(ctx)
	if lc.RunID != "run-1" {
		t.Error("expected run-1")
	}
	if lc.Stage != "generate" {
		t.Error("expected generate")
	}
	if lc.SourceRoot != "/src" || lc.DestRoot != "/site/content/posts" {
		t.Errorf("unexpected roots: %+v", lc)
	}
}

func TestStageOverride(t *testing.T) {
	ctx := WithStage(context.Background(), "generate")
	ctx = WithStage(ctx, "execute")

	if got := GetContext(ctx).Stage; got != "execute" {
		t.Errorf("expected execute, got %s", got)
	}
}

func TestEmptyContext(t *testing.T) {
	if lc := GetContext(context.Background()); lc != (LogContext{}) {
		t.Errorf("expected empty LogContext, got %+v", lc)
	}
}

func TestInfoContextIncludesRunAttributes(t *testing.T) {
	buf := captureDefault(t)
	ctx := WithStage(WithRunID(context.Background(), "abc"), "execute")

	InfoContext(ctx, "hello", slog.Int("edges", 3))

	out := buf.String()
	for _, want := range []string{"msg=hello", "run_id=abc", "stage=execute", "edges=3", "level=INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLevels(t *testing.T) {
	buf := captureDefault(t)
	ctx := context.Background()

	DebugContext(ctx, "d")
	WarnContext(ctx, "w")
	ErrorContext(ctx, "e")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=WARN", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
