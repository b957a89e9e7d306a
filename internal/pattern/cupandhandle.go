package pattern

import (
	"math"

	"PatternSentinel/internal/model"
)

const (
	// minSamples is the smallest series worth analyzing.
	minSamples = 10
	// smoothWindow is the moving-average window; series of five samples or
	// fewer are analyzed unsmoothed.
	smoothWindow    = 3
	noSmoothMaxLen  = 5
	peakDistance    = 3
	peakProminence  = 1.0
	// vShapeSensitivity rejects bottoms whose local deviation is large
	// relative to the cup depth: a sharp V rather than a rounded U.
	vShapeSensitivity = 0.05
	// Rim symmetry: preferred tolerance for the first qualifying right peak,
	// and the looser tolerance for the highest-peak fallback.
	rimTolerance         = 0.15
	rimToleranceFallback = 0.20
	// handleDepthCeiling invalidates any handle deeper than half the cup
	// depth, regardless of configured thresholds.
	handleDepthCeiling = 0.5
	// recoveryFloor is the fraction of the right-rim price the post-handle
	// maximum must reach.
	recoveryFloor = 0.95
)

// CupAndHandle detects the cup-and-handle continuation pattern: a U-shaped
// decline and recovery followed by a shallower pullback and a push back
// toward the prior high.
type CupAndHandle struct {
	params Params
	last   *Match
}

// NewCupAndHandle creates a detector with the given thresholds. Zero-valued
// fields fall back to the defaults.
func NewCupAndHandle(params Params) *CupAndHandle {
	def := DefaultParams()
	if params.CupDepthMin == 0 {
		params.CupDepthMin = def.CupDepthMin
	}
	if params.CupDepthMax == 0 {
		params.CupDepthMax = def.CupDepthMax
	}
	if params.HandleDepthMin == 0 {
		params.HandleDepthMin = def.HandleDepthMin
	}
	if params.HandleDepthMax == 0 {
		params.HandleDepthMax = def.HandleDepthMax
	}
	if params.HandleLengthMax == 0 {
		params.HandleLengthMax = def.HandleLengthMax
	}
	return &CupAndHandle{params: params}
}

// Name implements Detector.
func (d *CupAndHandle) Name() string { return "Cup and Handle" }

// Params returns the detector's thresholds.
func (d *CupAndHandle) Params() Params { return d.params }

// cupCandidate marks the cup's rim-start, lowest point, and rim-end in
// smoothed-space indices.
type cupCandidate struct {
	left   int
	bottom int
	right  int
}

// handleCandidate marks the handle's lowest point and the end of the
// analyzed window.
type handleCandidate struct {
	bottom int
	end    int
}

// Detect implements Detector. The stages run as a pipeline of pure
// functions, each a hard gate: input validation, smoothing, extremum
// location, cup validation, handle validation. Any stage failing
// short-circuits to a negative verdict. The resulting geometry is kept for
// Describe, which makes a single instance unsafe for concurrent Detect
// calls.
func (d *CupAndHandle) Detect(bars []model.OHLCV) bool {
	d.last = nil

	if len(bars) < minSamples {
		return false
	}

	prices := model.Closes(bars)

	offset := 0
	if len(prices) > noSmoothMaxLen {
		smoothed := Smooth(prices, smoothWindow)
		offset = len(prices) - len(smoothed)
		prices = smoothed
	}

	peaks, troughs := FindExtrema(prices)

	cup, ok := findCup(prices, peaks, troughs)
	if !ok {
		return false
	}
	handle, ok := findHandle(prices, troughs, cup, d.params)
	if !ok {
		return false
	}

	ratio := 0.0
	if handle.end > cup.right {
		ratio = float64(cup.right-cup.left) / float64(handle.end-cup.right)
	}
	d.last = &Match{
		CupLeft:          cup.left + offset,
		CupBottom:        cup.bottom + offset,
		CupRight:         cup.right + offset,
		HandleBottom:     handle.bottom + offset,
		HandleEnd:        handle.end + offset,
		CupToHandleRatio: ratio,
	}
	return true
}

// Describe implements Detector.
func (d *CupAndHandle) Describe() Details {
	details := Details{
		PatternName: d.Name(),
		Parameters: map[string]float64{
			"cup_depth_min":     d.params.CupDepthMin,
			"cup_depth_max":     d.params.CupDepthMax,
			"handle_depth_min":  d.params.HandleDepthMin,
			"handle_depth_max":  d.params.HandleDepthMax,
			"handle_length_max": d.params.HandleLengthMax,
		},
	}
	if d.last != nil {
		m := *d.last
		details.Match = &m
	}
	return details
}

// findCup looks for a left-peak / bottom-trough / right-peak triple forming
// a rounded cup.
func findCup(prices []float64, peaks, troughs []int) (cupCandidate, bool) {
	if len(peaks) < 2 || len(troughs) < 1 {
		return cupCandidate{}, false
	}

	// Left rim: the highest peak in the first third of the series, falling
	// back to the earliest peak when the rim appears later in real data.
	left := -1
	for _, p := range peaks {
		if p >= len(prices)/3 {
			continue
		}
		if left == -1 || prices[p] > prices[left] {
			left = p
		}
	}
	if left == -1 {
		left = peaks[0]
	}

	// Bottom: the lowest trough after the left rim, tolerating noisy
	// secondary dips before the true bottom.
	bottom := -1
	for _, t := range troughs {
		if t <= left {
			continue
		}
		if bottom == -1 || prices[t] < prices[bottom] {
			bottom = t
		}
	}
	if bottom == -1 {
		return cupCandidate{}, false
	}

	// Rounded-bottom check: a sharply pointed V has high local deviation
	// relative to the cup depth.
	lo := bottom - 2
	if lo < 0 {
		lo = 0
	}
	hi := bottom + 2
	if hi > len(prices)-1 {
		hi = len(prices) - 1
	}
	bottomStd := stdDev(prices[lo : hi+1])
	cupDepth := prices[left] - prices[bottom]
	if cupDepth > 0 && bottomStd/cupDepth > vShapeSensitivity {
		return cupCandidate{}, false
	}

	// Right rim: the first peak after the bottom within 15% of the left rim,
	// else the highest peak after the bottom if within 20%.
	highest := -1
	for _, p := range peaks {
		if p <= bottom {
			continue
		}
		if math.Abs(prices[p]-prices[left])/prices[left] <= rimTolerance {
			return cupCandidate{left: left, bottom: bottom, right: p}, true
		}
		if highest == -1 || prices[p] > prices[highest] {
			highest = p
		}
	}
	if highest != -1 && math.Abs(prices[highest]-prices[left])/prices[left] <= rimToleranceFallback {
		return cupCandidate{left: left, bottom: bottom, right: highest}, true
	}
	return cupCandidate{}, false
}

// findHandle looks for a qualifying pullback after the cup's right rim.
// Troughs are tried in chronological order and the first one passing every
// check wins.
func findHandle(prices []float64, troughs []int, cup cupCandidate, params Params) (handleCandidate, bool) {
	rimPrice := prices[cup.right]
	cupDepth := rimPrice - prices[cup.bottom]
	cupLength := cup.right - cup.left

	for _, t := range troughs {
		if t <= cup.right {
			continue
		}

		depthRatio := 0.0
		if cupDepth != 0 {
			depthRatio = (rimPrice - prices[t]) / cupDepth
		}
		if depthRatio > handleDepthCeiling {
			continue
		}
		if depthRatio < params.HandleDepthMin || depthRatio > params.HandleDepthMax {
			continue
		}
		if float64(t-cup.right)/float64(cupLength) > params.HandleLengthMax {
			continue
		}
		if t >= len(prices)-1 {
			continue
		}
		// Recovery: price after the pullback must approach the rim again.
		postMax := prices[t+1]
		for _, v := range prices[t+2:] {
			if v > postMax {
				postMax = v
			}
		}
		if postMax >= rimPrice*recoveryFloor {
			return handleCandidate{bottom: t, end: len(prices) - 1}, true
		}
	}
	return handleCandidate{}, false
}

// stdDev is the population standard deviation.
func stdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	sum := 0.0
	for _, v := range x {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(x)))
}
