package ports

import (
	"context"

	"clipmill/internal/types"
)

// VideoTool is the external transcoding engine surface. Implementations
// never mutate input files except ConcatCopy writing outputPath.
type VideoTool interface {
	// Probe queries duration and frame rate with independent calls; a
	// failed query yields types.MetricUnknown for that field, never an
	// error.
	Probe(ctx context.Context, path string) types.ProbeResult

	// DetectMotion runs the stabilization detect pass over the trimmed
	// window, writing motion data to transformsPath.
	DetectMotion(ctx context.Context, path string, win types.TrimWindow, transformsPath string) error

	// Encode runs the single encode pass: optional stabilization
	// transform, caption overlay, canvas and frame-rate normalization,
	// audio dropped.
	Encode(ctx context.Context, spec EncodeSpec) error

	// ConcatCopy losslessly concatenates the files listed in the manifest
	// into outputPath without re-encoding.
	ConcatCopy(ctx context.Context, manifestPath, outputPath string) error
}

// EncodeSpec carries everything one encode invocation needs.
type EncodeSpec struct {
	InputPath  string
	OutputPath string
	Window     types.TrimWindow
	Caption    string
	FontFile   string

	// TransformsPath points at the detect pass output; empty skips the
	// stabilization filter entirely.
	TransformsPath string
}

// DecisionSource resolves the one interactive point in a run: whether
// clips with a non-standard frame rate should still be processed. The
// decision covers the whole batch, not individual clips.
type DecisionSource interface {
	AcceptNonStandard(ctx context.Context, clips []types.ClipRecord) (bool, error)
}
