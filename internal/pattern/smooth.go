package pattern

// Smooth computes the equal-weight moving average of prices over the given
// window, emitting only positions where the full window fits. The result is
// shorter than the input by window-1; callers must track that offset when
// mapping smoothed-space indices back to the original series.
func Smooth(prices []float64, window int) []float64 {
	if window <= 1 || len(prices) < window {
		out := make([]float64, len(prices))
		copy(out, prices)
		return out
	}

	out := make([]float64, len(prices)-window+1)
	sum := 0.0
	for i := 0; i < window; i++ {
		sum += prices[i]
	}
	out[0] = sum / float64(window)
	for i := window; i < len(prices); i++ {
		sum += prices[i] - prices[i-window]
		out[i-window+1] = sum / float64(window)
	}
	return out
}
