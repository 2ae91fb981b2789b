//go:build integration

package itest

import (
	"bytes"
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipmill/internal/config"
	"clipmill/internal/pipeline"
	"clipmill/internal/preflight"
)

// TestE2E_FullRun drives the real engine end to end: synthesized source
// clips in, trimmed/captioned exports out.
func TestE2E_FullRun(t *testing.T) {
	requireTool(t, "ffmpeg")
	requireTool(t, "ffprobe")
	font := resolveTestFont(t)

	dir := t.TempDir()

	// 12s standard clip: trimmed to the middle 10s and stabilized.
	synthesizeClip(t, filepath.Join(dir, "Northern-Lights_1.mp4"), 12, "60000/1001")
	// 7s marked clip: kept whole, single pass.
	synthesizeClip(t, filepath.Join(dir, "Pier-Walk (NoStable).mp4"), 7, "60000/1001")
	// Undersized clip: deleted from disk.
	synthesizeClip(t, filepath.Join(dir, "Blooper_1.mp4"), 3, "60000/1001")
	// Non-clip file: ignored by inventory.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var stdout, stderr bytes.Buffer
	cfg := pipeline.Config{
		Dir:            dir,
		AutoAccept:     true,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		FontCandidates: []string{font},
		Stdin:          strings.NewReader(""),
		Stdout:         &stdout,
		Stderr:         &stderr,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("pipeline failed: %v\nstderr:\n%s", err, stderr.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "Blooper_1.mp4")); !os.IsNotExist(err) {
		t.Fatalf("undersized clip should be deleted, stat err = %v", err)
	}
	for _, name := range []string{"Northern-Lights_1.mp4", "Pier-Walk (NoStable).mp4"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("source clip %s should survive the run: %v", name, err)
		}
	}

	exports, err := filepath.Glob(filepath.Join(dir, "exports-*", "*.mp4"))
	if err != nil {
		t.Fatalf("glob exports: %v", err)
	}
	if len(exports) != 1 {
		t.Fatalf("exports = %v, want exactly one", exports)
	}

	// Two processed clips form one export: middle 10s + whole 7s.
	gotDur, err := probeDurationSeconds(exports[0])
	if err != nil {
		t.Fatalf("probe export: %v", err)
	}
	if math.Abs(gotDur-17) > 1 {
		t.Fatalf("export duration = %.2fs, want ~17s", gotDur)
	}

	rate, err := probeAvgFrameRate(exports[0])
	if err != nil {
		t.Fatalf("probe export rate: %v", err)
	}
	if rate != "60000/1001" {
		t.Fatalf("export frame rate = %q, want 60000/1001", rate)
	}

	if !strings.Contains(stdout.String(), "completed") {
		t.Fatalf("summary should report a completed run\nstdout:\n%s", stdout.String())
	}
	if logs, _ := filepath.Glob(filepath.Join(dir, "clipmill-*.log")); len(logs) != 0 {
		t.Fatalf("clean run should leave no failure log, found %v", logs)
	}
}

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not on PATH", name)
	}
}

func resolveTestFont(t *testing.T) string {
	t.Helper()
	font, err := preflight.ResolveFont(config.Default().Fonts.Candidates)
	if err != nil {
		t.Skipf("no caption font on this host: %v", err)
	}
	return font
}
