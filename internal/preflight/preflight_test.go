package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckEngine(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("executable-bit check is not meaningful on windows")
	}

	tmp := t.TempDir()
	ffmpeg := fakeBinary(t, tmp, "ffmpeg")
	ffprobe := fakeBinary(t, tmp, "ffprobe")

	if err := CheckEngine(ffmpeg, ffprobe); err != nil {
		t.Fatalf("expected engine check to pass: %v", err)
	}

	missing := filepath.Join(tmp, "definitely-not-here")
	err := CheckEngine(missing, ffprobe)
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Fatalf("expected ErrFFmpegNotFound, got %v", err)
	}

	err = CheckEngine(ffmpeg, missing)
	if !errors.Is(err, ErrFFprobeNotFound) {
		t.Fatalf("expected ErrFFprobeNotFound, got %v", err)
	}
}

func TestResolveFont(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	font := filepath.Join(tmp, "Caption-Bold.ttf")
	if err := os.WriteFile(font, []byte("ttf"), 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	dir := filepath.Join(tmp, "fonts-dir")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ResolveFont([]string{
		filepath.Join(tmp, "missing.ttf"),
		dir,
		font,
		filepath.Join(tmp, "later.ttf"),
	})
	if err != nil {
		t.Fatalf("resolve font: %v", err)
	}
	if got != font {
		t.Fatalf("resolved %q, want %q", got, font)
	}

	_, err = ResolveFont([]string{filepath.Join(tmp, "missing.ttf")})
	if !errors.Is(err, ErrNoCaptionFont) {
		t.Fatalf("expected ErrNoCaptionFont, got %v", err)
	}
}

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}
