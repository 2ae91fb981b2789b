package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReporter_NoFailuresLeavesNoLog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	r := New(discardLogger(), path)
	defer r.Close()

	if r.Failures() != 0 {
		t.Fatalf("fresh reporter has %d failures", r.Failures())
	}
	if r.LogPath() != "" {
		t.Fatalf("expected empty log path before first failure, got %q", r.LogPath())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("log file should not exist, stat err=%v", err)
	}
}

func TestReporter_WritesTimestampedEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.log")
	r := New(discardLogger(), path)

	r.Failure("transform Northern-Canada_1.mp4", errors.New("ffmpeg encode: exit status 1\nlast stderr line one\nlast stderr line two"))
	r.Failure("concat reel_002.mp4", errors.New("ffmpeg concat: exit status 1"))

	if r.Failures() != 2 {
		t.Fatalf("failures = %d, want 2", r.Failures())
	}
	if r.LogPath() != path {
		t.Fatalf("log path = %q, want %q", r.LogPath(), path)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(b)

	if !strings.Contains(content, "transform Northern-Canada_1.mp4: ffmpeg encode: exit status 1") {
		t.Fatalf("missing first entry header:\n%s", content)
	}
	if !strings.Contains(content, "    last stderr line one") {
		t.Fatalf("missing indented diagnostic:\n%s", content)
	}
	if !strings.Contains(content, "concat reel_002.mp4: ffmpeg concat: exit status 1") {
		t.Fatalf("missing second entry:\n%s", content)
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 log lines, got %d:\n%s", len(lines), content)
	}
	for _, header := range []string{lines[0], lines[3]} {
		if len(header) < len("2006-01-02 15:04:05") || header[4] != '-' || header[10] != ' ' {
			t.Fatalf("entry header missing timestamp prefix: %q", header)
		}
	}
}

func TestReporter_ConsoleEchoesFirstLineOnly(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	log := slog.New(slog.NewTextHandler(&console, nil))
	r := New(log, filepath.Join(t.TempDir(), "run.log"))
	defer r.Close()

	r.Failure("transform clip.mp4", fmt.Errorf("ffmpeg encode: exit status 1\nnoisy stderr"))

	out := console.String()
	if !strings.Contains(out, "transform clip.mp4 failed") {
		t.Fatalf("missing console echo: %q", out)
	}
	if strings.Contains(out, "noisy stderr") {
		t.Fatalf("console should not carry the stderr tail: %q", out)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	RenderSummary(&buf, RunSummary{
		Status:      StatusDegraded,
		Inventoried: 7,
		Deleted:     1,
		Excluded:    2,
		Processed:   3,
		FailedClips: 1,
		Exports:     1,
		ExportDir:   "/footage/exports-20260822-140355Z",
		LogPath:     "/footage/clipmill-20260822-140355Z.log",
	}, false)

	out := buf.String()
	for _, want := range []string{"degraded", "clips found", "7", "exports written", "failure log"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("uncolored summary contains ANSI sequences:\n%s", out)
	}
}
