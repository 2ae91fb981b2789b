package types

// MetricUnknown is the sentinel stored for a duration or frame rate the
// probe could not read.
const MetricUnknown float64 = -1

// ClipRecord is one inventoried media file. It is created during inventory,
// enriched during probing and classification, and read-only afterwards.
type ClipRecord struct {
	Path              string
	DisplayName       string
	DurationSeconds   float64
	FrameRate         float64
	CaptionText       string
	SkipStabilization bool
}

func (c ClipRecord) DurationKnown() bool { return c.DurationSeconds >= 0 }

func (c ClipRecord) FrameRateKnown() bool { return c.FrameRate >= 0 }

// ProbeResult carries the two independently-queried stream metrics.
// Either field may hold MetricUnknown when its query failed.
type ProbeResult struct {
	DurationSeconds float64
	FrameRate       float64
}

// Classification partitions the probed inventory. After the frame-rate gate
// resolves, every probed clip belongs to exactly one bucket.
type Classification struct {
	ToDelete    []ClipRecord
	NonStandard []ClipRecord
	ToProcess   []ClipRecord
}

// TrimWindow selects the segment of a source clip that ends up in the
// output, derived from the clip duration alone.
type TrimWindow struct {
	StartOffsetSeconds  float64
	OutputLengthSeconds float64
}
