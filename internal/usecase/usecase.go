package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipmill/internal/domain/caption"
	"clipmill/internal/domain/grouping"
	"clipmill/internal/domain/triage"
	"clipmill/internal/ports"
	"clipmill/internal/types"
)

// Terminal conditions that abort a run before any transform work.
var (
	ErrNoInputFiles     = errors.New("no input clips found")
	ErrNothingToProcess = errors.New("no clips left to process")
)

var errDurationUnreadable = errors.New("duration could not be read")

// FailureSink records recovered failures. *report.Reporter satisfies it.
type FailureSink interface {
	Failure(subject string, err error)
}

type Deps struct {
	Video  ports.VideoTool
	Gate   ports.DecisionSource
	Report FailureSink
	Log    *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Usecase{d: d}
}

type Input struct {
	// Dir is the target directory holding the source clips.
	Dir string
	// TempDir holds per-clip artifacts, motion transform files, and concat
	// manifests. The caller owns its lifetime.
	TempDir string
	// ExportDir receives the numbered exports. Created on first use so an
	// aborted run leaves nothing behind.
	ExportDir string
	// FontFile is the resolved caption font used for every clip.
	FontFile string
}

type Result struct {
	Inventoried  int
	Deleted      int
	Excluded     int
	Processed    int
	FailedClips  int
	FailedGroups int
	Exports      []string
}

// Run executes one full batch: inventory, probe, classify, gate, delete,
// transform, group, concat. Per-clip and per-group failures are reported
// and skipped; only environment and empty-run conditions return an error.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	var res Result

	paths, err := inventory(in.Dir)
	if err != nil {
		return res, err
	}
	res.Inventoried = len(paths)
	if len(paths) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoInputFiles, in.Dir)
	}
	u.d.Log.Info("inventoried clips", "count", len(paths), "dir", in.Dir)

	probed := u.probeAll(ctx, paths, &res)

	cls := triage.Partition(probed)
	u.d.Log.Info("classified clips",
		"process", len(cls.ToProcess),
		"delete", len(cls.ToDelete),
		"non-standard", len(cls.NonStandard))

	toProcess := u.resolveGate(ctx, probed, cls, &res)

	u.deleteUndersized(cls.ToDelete, &res)

	if len(toProcess) == 0 {
		return res, ErrNothingToProcess
	}

	artifacts := u.transformAll(ctx, toProcess, in, &res)

	groups := grouping.Partition(artifacts)
	if len(groups) == 0 {
		return res, nil
	}
	if err := os.MkdirAll(in.ExportDir, 0o755); err != nil {
		return res, fmt.Errorf("create export dir: %w", err)
	}

	for gi, group := range groups {
		exportPath := filepath.Join(in.ExportDir, fmt.Sprintf("reel_%03d.mp4", gi+1))
		if err := u.concatGroup(ctx, in.TempDir, group, exportPath); err != nil {
			u.d.Report.Failure("concat "+filepath.Base(exportPath), err)
			res.FailedGroups++
			continue
		}
		res.Exports = append(res.Exports, exportPath)
		u.d.Log.Info("export written", "file", filepath.Base(exportPath), "clips", len(group))
	}

	return res, nil
}

// inventory lists the directory's clips in lexicographic order. Only the
// one container format in use is picked up; everything else is ignored.
func inventory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".mp4") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// probeAll enriches every inventoried path into a ClipRecord. Clips whose
// duration cannot be read are reported and dropped here; an unknown frame
// rate alone is tolerated.
func (u Usecase) probeAll(ctx context.Context, paths []string, res *Result) []types.ClipRecord {
	probed := make([]types.ClipRecord, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		pr := u.d.Video.Probe(ctx, path)
		text, skip := caption.Derive(name)
		rec := types.ClipRecord{
			Path:              path,
			DisplayName:       name,
			DurationSeconds:   pr.DurationSeconds,
			FrameRate:         pr.FrameRate,
			CaptionText:       text,
			SkipStabilization: skip,
		}
		if !rec.DurationKnown() {
			u.d.Report.Failure("probe "+name, errDurationUnreadable)
			res.Excluded++
			continue
		}
		u.d.Log.Debug("probed clip",
			"clip", name,
			"duration", rec.DurationSeconds,
			"fps", rec.FrameRate,
			"caption", rec.CaptionText,
			"stabilize", !rec.SkipStabilization)
		probed = append(probed, rec)
	}
	return probed
}

// resolveGate settles the one interactive decision of the run and returns
// the final processing set in original inventory order.
func (u Usecase) resolveGate(ctx context.Context, probed []types.ClipRecord, cls types.Classification, res *Result) []types.ClipRecord {
	accepted := false
	if len(cls.NonStandard) > 0 {
		ok, err := u.d.Gate.AcceptNonStandard(ctx, cls.NonStandard)
		if err != nil {
			u.d.Log.Warn("frame-rate confirmation failed, excluding non-standard clips", "error", err)
		}
		accepted = ok && err == nil
		if accepted {
			u.d.Log.Info("non-standard clips accepted", "count", len(cls.NonStandard))
		} else {
			u.d.Log.Warn("non-standard clips excluded", "count", len(cls.NonStandard))
			res.Excluded += len(cls.NonStandard)
		}
	}

	drop := make(map[string]bool, len(cls.ToDelete)+len(cls.NonStandard))
	for _, c := range cls.ToDelete {
		drop[c.Path] = true
	}
	if !accepted {
		for _, c := range cls.NonStandard {
			drop[c.Path] = true
		}
	}

	toProcess := make([]types.ClipRecord, 0, len(probed))
	for _, c := range probed {
		if drop[c.Path] {
			continue
		}
		toProcess = append(toProcess, c)
	}
	return toProcess
}

// deleteUndersized removes clips below the minimum duration from disk. A
// failed delete is reported and does not block the remaining deletions.
func (u Usecase) deleteUndersized(clips []types.ClipRecord, res *Result) {
	for _, c := range clips {
		if err := os.Remove(c.Path); err != nil {
			u.d.Report.Failure("delete "+c.DisplayName, err)
			continue
		}
		res.Deleted++
		u.d.Log.Info("deleted undersized clip", "clip", c.DisplayName, "duration", c.DurationSeconds)
	}
}

// transformAll runs the per-clip pipeline sequentially. A failed clip is
// reported and skipped; its half-written artifact stays in TempDir and is
// discarded with it.
func (u Usecase) transformAll(ctx context.Context, clips []types.ClipRecord, in Input, res *Result) []string {
	artifacts := make([]string, 0, len(clips))
	for i, c := range clips {
		u.d.Log.Info("processing clip",
			"clip", c.DisplayName,
			"caption", c.CaptionText,
			"stabilize", !c.SkipStabilization)
		outPath := filepath.Join(in.TempDir, fmt.Sprintf("clip_%04d.mp4", i+1))
		if err := u.transformClip(ctx, c, in, outPath); err != nil {
			u.d.Report.Failure("transform "+c.DisplayName, err)
			res.FailedClips++
			continue
		}
		artifacts = append(artifacts, outPath)
		res.Processed++
	}
	return artifacts
}

// transformClip produces one fixed-format artifact. Stabilized clips take
// the two-pass path; the motion transforms file is deleted once the encode
// finishes, whatever its outcome.
func (u Usecase) transformClip(ctx context.Context, c types.ClipRecord, in Input, outPath string) error {
	spec := ports.EncodeSpec{
		InputPath:  c.Path,
		OutputPath: outPath,
		Window:     triage.Window(c.DurationSeconds),
		Caption:    c.CaptionText,
		FontFile:   in.FontFile,
	}
	if c.SkipStabilization {
		return u.d.Video.Encode(ctx, spec)
	}

	trf := filepath.Join(in.TempDir, uuid.NewString()+".trf")
	defer os.Remove(trf)
	if err := u.d.Video.DetectMotion(ctx, c.Path, spec.Window, trf); err != nil {
		return err
	}
	spec.TransformsPath = trf
	return u.d.Video.Encode(ctx, spec)
}

// concatGroup merges one export group through the engine's concat demuxer.
// The manifest is removed whether or not the merge succeeds.
func (u Usecase) concatGroup(ctx context.Context, tempDir string, files []string, exportPath string) error {
	manifest := filepath.Join(tempDir, uuid.NewString()+".txt")
	if err := os.WriteFile(manifest, []byte(concatManifest(files)), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	defer os.Remove(manifest)
	return u.d.Video.ConcatCopy(ctx, manifest, exportPath)
}

// concatManifest renders the concat demuxer file list. A single quote in a
// path uses the close-escape-reopen form, so ' becomes '\''.
func concatManifest(files []string) string {
	var b strings.Builder
	for _, f := range files {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(f, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}
