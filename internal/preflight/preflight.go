// Package preflight validates the run environment before any work starts:
// the transcoding engine must be reachable and a caption font must exist.
// Both checks fail the whole run, so they happen up front with remediation
// in the error text.
package preflight

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffprobe not found")
	ErrNoCaptionFont   = errors.New("no usable caption font")
)

// CheckEngine verifies both engine binaries resolve, either as bare names
// through PATH or as explicit paths.
func CheckEngine(ffmpegPath, ffprobePath string) error {
	if _, err := exec.LookPath(ffmpegPath); err != nil {
		return fmt.Errorf("%w: %q is not runnable; install ffmpeg or point engine.ffmpeg (or CLIPMILL_FFMPEG) at it", ErrFFmpegNotFound, ffmpegPath)
	}
	if _, err := exec.LookPath(ffprobePath); err != nil {
		return fmt.Errorf("%w: %q is not runnable; install ffprobe or point engine.ffprobe (or CLIPMILL_FFPROBE) at it", ErrFFprobeNotFound, ffprobePath)
	}
	return nil
}

// ResolveFont returns the first candidate path that exists as a regular
// file. Every caption in the run renders with this font.
func ResolveFont(candidates []string) (string, error) {
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return p, nil
	}
	return "", fmt.Errorf("%w: none of the %d configured candidates exist; set fonts.candidates in the config", ErrNoCaptionFont, len(candidates))
}
