package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithBuildID(ctx, "build-1")
	ctx = WithStage(ctx, "classify")
	ctx = WithDocument(ctx, "2024-01-01-hello.md")

	lc := GetContext(ctx)
	assert.Equal(t, "build-1", lc.BuildID)
	assert.Equal(t, "classify", lc.Stage)
	assert.Equal(t, "2024-01-01-hello.md", lc.Document)
}

func TestStageOverridesPrevious(t *testing.T) {
	ctx := WithStage(context.Background(), "classify")
	ctx = WithStage(ctx, "render_pages")
	assert.Equal(t, "render_pages", GetContext(ctx).Stage)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
	assert.Same(t, slog.Default(), Logger(context.Background()))
}

func TestContextHelpersUseStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), logger)
	ctx = WithBuildID(ctx, "b-42")
	ctx = WithStage(ctx, "aggregates")

	InfoContext(ctx, "Rendered page", slog.String("page", "index.html"))
	out := buf.String()
	assert.Contains(t, out, "Rendered page")
	assert.Contains(t, out, "build_id=b-42")
	assert.Contains(t, out, "stage=aggregates")
	assert.Contains(t, out, "page=index.html")

	buf.Reset()
	DebugContext(ctx, "debug line")
	WarnContext(ctx, "warn line")
	ErrorContext(ctx, "error line")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := WithLogger(context.Background(), logger)

	InfoContext(ctx, "hidden")
	assert.Empty(t, buf.String())
}
