package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"clipmill/internal/logging"
	"clipmill/internal/ports"
	"clipmill/internal/ports/adapters/ffmpeg"
	"clipmill/internal/ports/adapters/prompt"
	"clipmill/internal/preflight"
	"clipmill/internal/report"
	"clipmill/internal/usecase"
)

// ErrNoExports marks a run that attempted transforms but produced no
// export file. The CLI exits non-zero on it.
var ErrNoExports = errors.New("no exports were produced")

type Config struct {
	// Dir is the target directory holding the clips to normalize.
	Dir string
	// AutoAccept answers the non-standard frame-rate gate with yes instead
	// of prompting.
	AutoAccept bool

	FFmpegPath  string
	FFprobePath string

	// FontCandidates is the ordered caption font list; the first existing
	// path is used for the whole run.
	FontCandidates []string

	// Verbose enables per-clip probe detail on the console.
	Verbose bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.New("target directory is empty")
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("stat target dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.Dir)
	}
	if len(c.FontCandidates) == 0 {
		return errors.New("font candidate list is empty")
	}
	return nil
}

// Run wires the adapters and executes one batch over cfg.Dir. Run-scoped
// artifacts: a disposable temp dir for intermediate files, an export dir
// and a failure log inside the target dir, both named with the run stamp.
func Run(ctx context.Context, cfg Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := logging.NewConsole(cfg.Stderr, level, logging.ShouldColorize(cfg.Stderr))

	if err := preflight.CheckEngine(cfg.FFmpegPath, cfg.FFprobePath); err != nil {
		return err
	}
	fontFile, err := preflight.ResolveFont(cfg.FontCandidates)
	if err != nil {
		return err
	}
	log.Debug("caption font resolved", "font", fontFile)

	stamp := time.Now().UTC().Format("20060102-150405Z")

	tempDir, err := os.MkdirTemp("", "clipmill-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	exportDir := filepath.Join(cfg.Dir, "exports-"+stamp)
	logPath := filepath.Join(cfg.Dir, "clipmill-"+stamp+".log")

	reporter := report.New(log, logPath)
	defer reporter.Close()

	var gate ports.DecisionSource
	if cfg.AutoAccept {
		gate = prompt.AutoAccept{}
	} else {
		gate = prompt.New(cfg.Stdin, cfg.Stdout)
	}

	uc := usecase.New(usecase.Deps{
		Video:  ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Gate:   gate,
		Report: reporter,
		Log:    log,
	})

	started := time.Now()
	res, err := uc.Run(ctx, usecase.Input{
		Dir:       cfg.Dir,
		TempDir:   tempDir,
		ExportDir: exportDir,
		FontFile:  fontFile,
	})
	if err != nil {
		// An empty processing set can still have deleted and excluded
		// clips; the summary shows that work before the run aborts.
		if errors.Is(err, usecase.ErrNothingToProcess) {
			renderSummary(cfg, report.StatusAborted, res, reporter, exportDir, started)
		}
		return err
	}

	renderSummary(cfg, runStatus(res, reporter.Failures()), res, reporter, exportDir, started)

	if len(res.Exports) == 0 {
		return ErrNoExports
	}
	return nil
}

func renderSummary(cfg Config, status report.Status, res usecase.Result, reporter *report.Reporter, exportDir string, started time.Time) {
	report.RenderSummary(cfg.Stdout, report.RunSummary{
		Status:       status,
		Inventoried:  res.Inventoried,
		Deleted:      res.Deleted,
		Excluded:     res.Excluded,
		Processed:    res.Processed,
		FailedClips:  res.FailedClips,
		FailedGroups: res.FailedGroups,
		Exports:      len(res.Exports),
		ExportDir:    exportDir,
		LogPath:      reporter.LogPath(),
		Elapsed:      time.Since(started),
	}, logging.ShouldColorize(cfg.Stdout))
}

func runStatus(res usecase.Result, failures int) report.Status {
	switch {
	case len(res.Exports) == 0:
		return report.StatusFailed
	case failures > 0:
		return report.StatusDegraded
	default:
		return report.StatusCompleted
	}
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.DecisionSource = (*prompt.Prompter)(nil)
var _ ports.DecisionSource = prompt.AutoAccept{}
var _ usecase.FailureSink = (*report.Reporter)(nil)
