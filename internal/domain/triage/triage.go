// Package triage applies the duration and frame-rate policy that decides
// what happens to each probed clip.
package triage

import (
	"math"

	"clipmill/internal/types"
)

// Fixed run constants. These are part of the output contract, not tuning
// knobs, so they are compiled in rather than configured.
const (
	// MinClipSeconds is the shortest clip worth keeping; anything under it
	// is deleted outright.
	MinClipSeconds = 5.0

	// SegmentSeconds is the output length cap. Longer clips are trimmed to
	// their centered SegmentSeconds window.
	SegmentSeconds = 10.0

	// ReferenceFrameRate is 60000/1001 rounded to two decimals, the rate
	// every output is normalized to.
	ReferenceFrameRate = 59.94

	// FrameRateTolerance is the allowed deviation from the reference before
	// a clip counts as non-standard.
	FrameRateTolerance = 0.1
)

// Partition buckets probed clips: undersized ones into ToDelete, clips whose
// known frame rate deviates from the reference by more than the tolerance
// into NonStandard, the rest into ToProcess. Clips with an unknown duration
// must be excluded by the caller first; a deletion decision needs a real
// duration. An unknown frame rate is not evidence of a non-standard clip,
// so such records proceed.
func Partition(clips []types.ClipRecord) types.Classification {
	var res types.Classification
	for _, c := range clips {
		switch {
		case c.DurationSeconds < MinClipSeconds:
			res.ToDelete = append(res.ToDelete, c)
		case nonStandardRate(c):
			res.NonStandard = append(res.NonStandard, c)
		default:
			res.ToProcess = append(res.ToProcess, c)
		}
	}
	return res
}

// The tolerance comparison happens in integer hundredths, matching the
// probe's two-decimal normalization, so the boundary is exact: a rate of
// 60.04 (diff 0.10) is standard, 60.05 is not. A plain float subtraction
// misclassifies the boundary.
var (
	referenceCents = int(math.Round(ReferenceFrameRate * 100))
	toleranceCents = int(math.Round(FrameRateTolerance * 100))
)

func nonStandardRate(c types.ClipRecord) bool {
	if !c.FrameRateKnown() {
		return false
	}
	diff := int(math.Round(c.FrameRate*100)) - referenceCents
	return diff > toleranceCents || diff < -toleranceCents
}

// Window derives the trim window from the clip duration: clips longer than
// SegmentSeconds keep their centered SegmentSeconds slice, shorter clips
// keep their full length with no padding.
func Window(durationSeconds float64) types.TrimWindow {
	if durationSeconds > SegmentSeconds {
		return types.TrimWindow{
			StartOffsetSeconds:  (durationSeconds - SegmentSeconds) / 2,
			OutputLengthSeconds: SegmentSeconds,
		}
	}
	return types.TrimWindow{StartOffsetSeconds: 0, OutputLengthSeconds: durationSeconds}
}
