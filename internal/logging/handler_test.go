package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	now := time.Now()
	logger.Info("backup created", "folder", "mods")

	output := buf.String()

	if !strings.Contains(output, "INFO") {
		t.Errorf("expected level INFO in output, got: %q", output)
	}
	if !strings.Contains(output, "backup created") {
		t.Errorf("expected message in output, got: %q", output)
	}
	if !strings.Contains(output, "folder=mods") {
		t.Errorf("expected attribute in output, got: %q", output)
	}
	if !strings.Contains(output, now.Format(time.Kitchen)) {
		t.Errorf("expected time %q in output, got: %q", now.Format(time.Kitchen), output)
	}
	if strings.Contains(output, "\x1b[") {
		t.Errorf("expected no escape codes for a non-TTY writer, got: %q", output)
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).With("run", "abc")

	logger.Info("message", "folder", "shaderpacks")

	output := buf.String()
	if !strings.Contains(output, "run=abc") {
		t.Errorf("expected common attribute in output, got: %q", output)
	}
	if !strings.Contains(output, "folder=shaderpacks") {
		t.Errorf("expected local attribute in output, got: %q", output)
	}
}

func TestHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).WithGroup("mirror")

	logger.Info("copied", "files", 3, slog.Group("bytes", "total", 42))

	output := buf.String()
	if !strings.Contains(output, "mirror.files=3") {
		t.Errorf("expected grouped key, got: %q", output)
	}
	if !strings.Contains(output, "mirror.bytes.total=42") {
		t.Errorf("expected nested group key, got: %q", output)
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected Info level to be disabled when min level is Warn")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("expected Warn level to be enabled")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
}

func TestHandler_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Log(t.Context(), LevelTrace, "copy file", "path", "a.jar")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE level name, got: %q", buf.String())
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "INFO") {
		t.Errorf("expected output to start with the level, got: %q", buf.String())
	}
}
