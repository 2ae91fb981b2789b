// Package ffmpeg drives the external transcoding engine through its CLI.
// Arguments are passed as discrete tokens, never through a shell; only
// filter values need content-level escaping.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"clipmill/internal/ports"
	"clipmill/internal/types"
)

// Output contract constants. Every encode in a run shares them, which is
// what makes the later concat a pure stream copy.
const (
	canvasWidth  = 1920
	canvasHeight = 1080
	outputRate   = "60000/1001"

	detectShakiness    = 5
	detectAccuracy     = 15
	transformSmoothing = 30

	captionFontSize    = 48
	captionBorderWidth = 3

	stderrTailLines = 20
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Probe queries duration and frame rate with two independent engine calls.
// Either query failing yields types.MetricUnknown for that field.
func (a *Adapter) Probe(ctx context.Context, path string) types.ProbeResult {
	res := types.ProbeResult{
		DurationSeconds: types.MetricUnknown,
		FrameRate:       types.MetricUnknown,
	}
	if d, err := a.probeDuration(ctx, path); err == nil {
		res.DurationSeconds = d
	}
	if r, err := a.probeFrameRate(ctx, path); err == nil {
		res.FrameRate = r
	}
	return res
}

func (a *Adapter) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) probeFrameRate(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe frame rate: %w\n%s", err, string(b))
	}
	return parseFrameRate(strings.TrimSpace(string(b)))
}

// parseFrameRate normalizes the engine's rational (or plain decimal) rate
// to two decimals, e.g. "60000/1001" -> 59.94.
func parseFrameRate(s string) (float64, error) {
	if s == "" || s == "N/A" || s == "0/0" {
		return 0, fmt.Errorf("frame rate unavailable: %q", s)
	}
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
		}
		return round2(v), nil
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("frame rate %q has zero denominator", s)
	}
	return round2(n / d), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// DetectMotion is stabilization pass one: it analyzes only the trimmed
// window and writes the motion transforms file consumed by the encode pass.
func (a *Adapter) DetectMotion(ctx context.Context, path string, win types.TrimWindow, transformsPath string) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-ss", fmtSeconds(win.StartOffsetSeconds),
		"-t", fmtSeconds(win.OutputLengthSeconds),
		"-i", path,
		"-vf", fmt.Sprintf("vidstabdetect=shakiness=%d:accuracy=%d:result=%s",
			detectShakiness, detectAccuracy, escapeFilterValue(transformsPath)),
		"-f", "null", "-",
	}
	return a.runFFmpeg(ctx, "stabilize detect", args)
}

// Encode runs the single output-producing pass for one clip.
func (a *Adapter) Encode(ctx context.Context, spec ports.EncodeSpec) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-ss", fmtSeconds(spec.Window.StartOffsetSeconds),
		"-t", fmtSeconds(spec.Window.OutputLengthSeconds),
		"-i", spec.InputPath,
		"-vf", buildFilterChain(spec),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		spec.OutputPath,
	}
	return a.runFFmpeg(ctx, "encode", args)
}

// ConcatCopy losslessly joins the manifest's files into outputPath.
func (a *Adapter) ConcatCopy(ctx context.Context, manifestPath, outputPath string) error {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifestPath,
		"-c", "copy",
		outputPath,
	}
	return a.runFFmpeg(ctx, "concat", args)
}

// buildFilterChain assembles the -vf value. Order matters: stabilization
// must see source frames, and captioning must see the final canvas so the
// margins are measured against the padded frame.
func buildFilterChain(spec ports.EncodeSpec) string {
	var filters []string
	if spec.TransformsPath != "" {
		filters = append(filters, fmt.Sprintf("vidstabtransform=input=%s:smoothing=%d",
			escapeFilterValue(spec.TransformsPath), transformSmoothing))
	}
	filters = append(filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", canvasWidth, canvasHeight),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", canvasWidth, canvasHeight),
		buildDrawtext(spec.Caption, spec.FontFile),
		"fps="+outputRate,
	)
	return strings.Join(filters, ",")
}

// buildDrawtext places the caption bottom-right with a 5% margin from each
// edge, white over a black outline so it stays legible on any footage.
func buildDrawtext(text, fontFile string) string {
	return fmt.Sprintf("drawtext=fontfile=%s:text=%s:fontsize=%d:fontcolor=white:bordercolor=black:borderw=%d:x=w-tw-w*0.05:y=h-th-h*0.05",
		escapeFilterValue(fontFile), escapeFilterValue(text), captionFontSize, captionBorderWidth)
}

// runFFmpeg executes one engine invocation. Stdout is discarded; stderr is
// buffered so a failure carries the last stderrTailLines lines of
// diagnostics in its message.
func (a *Adapter) runFFmpeg(ctx context.Context, stage string, args []string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", stage, err, tailLines(stderr.String(), stderrTailLines))
	}
	return nil
}

func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterValue escapes the characters the engine's filter parser
// treats specially inside a value. Escape table: \ -> \\  : -> \:  ' -> \'
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, ":", `\:`)
	v = strings.ReplaceAll(v, "'", `\'`)
	return v
}
