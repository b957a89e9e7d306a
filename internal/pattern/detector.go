// Package pattern implements chart-pattern recognition over price bars.
//
// Detectors analyze the closing-price sequence of a chronologically ordered
// bar slice and answer with a boolean verdict plus optional geometry
// metadata. A detector instance keeps the geometry of its most recent
// positive verdict for Describe, so a single instance must not be shared by
// concurrent callers without external synchronization.
package pattern

import "PatternSentinel/internal/model"

// Detector is the contract every pattern detector implements.
type Detector interface {
	// Detect reports whether the pattern is present in the given bars.
	// Bars must be in chronological order.
	Detect(bars []model.OHLCV) bool
	// Name returns the human-readable pattern name.
	Name() string
	// Describe returns metadata about the most recent Detect call.
	Describe() Details
}

// Params holds the ratio thresholds governing cup-and-handle acceptance.
// All values are fractions; they are immutable for the lifetime of a
// detector instance.
type Params struct {
	CupDepthMin     float64 // min cup depth as fraction of the left-peak price
	CupDepthMax     float64 // max cup depth as fraction of the left-peak price
	HandleDepthMin  float64 // min handle depth as fraction of cup depth
	HandleDepthMax  float64 // max handle depth as fraction of cup depth
	HandleLengthMax float64 // max handle duration as fraction of cup duration
}

// DefaultParams returns the default detection thresholds.
func DefaultParams() Params {
	return Params{
		CupDepthMin:     0.10,
		CupDepthMax:     0.60,
		HandleDepthMin:  0.10,
		HandleDepthMax:  0.60,
		HandleLengthMax: 0.70,
	}
}

// Match holds the recovered pattern geometry, with indices in the original
// (unsmoothed) series space.
type Match struct {
	CupLeft          int     `json:"cup_left_index"`
	CupBottom        int     `json:"cup_bottom_index"`
	CupRight         int     `json:"cup_right_index"`
	HandleBottom     int     `json:"handle_bottom_index"`
	HandleEnd        int     `json:"handle_end_index"`
	CupToHandleRatio float64 `json:"cup_to_handle_ratio"`
}

// Details describes a detector and the outcome of its most recent Detect
// call. Match is nil when no pattern was found.
type Details struct {
	PatternName string             `json:"pattern_name"`
	Parameters  map[string]float64 `json:"parameters"`
	Match       *Match             `json:"match,omitempty"`
}
