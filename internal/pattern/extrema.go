package pattern

import "sort"

// FindPeaks returns the indices of local maxima in x, sorted ascending.
// A plateau counts as a single peak at its middle index. Peaks closer than
// distance samples to a higher peak are dropped, as are peaks whose
// prominence (height above the higher of the two flanking floors) is below
// minProminence.
func FindPeaks(x []float64, distance int, minProminence float64) []int {
	candidates := localMaxima(x)

	var kept []int
	for _, p := range candidates {
		if prominence(x, p) >= minProminence {
			kept = append(kept, p)
		}
	}

	// Distance filtering: higher peaks win, ties go to the earlier one.
	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[kept[order[a]]] > x[kept[order[b]]]
	})
	keep := make([]bool, len(kept))
	for i := range keep {
		keep[i] = true
	}
	for _, oi := range order {
		if !keep[oi] {
			continue
		}
		for oj := range kept {
			if oj == oi || !keep[oj] {
				continue
			}
			if abs(kept[oj]-kept[oi]) < distance && x[kept[oj]] <= x[kept[oi]] {
				keep[oj] = false
			}
		}
	}

	var peaks []int
	for i, p := range kept {
		if keep[i] {
			peaks = append(peaks, p)
		}
	}
	sort.Ints(peaks)
	return peaks
}

// localMaxima finds strict local maxima, treating a flat run bounded by
// lower values on both sides as one maximum at its middle sample.
func localMaxima(x []float64) []int {
	var maxima []int
	i := 1
	for i < len(x)-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < len(x)-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				maxima = append(maxima, (i+ahead-1)/2)
				i = ahead
				continue
			}
		}
		i++
	}
	return maxima
}

// prominence measures how far the peak at index p rises above the higher of
// the two valley floors that flank it, scanning outward until a sample
// higher than the peak (or the series edge) bounds the search.
func prominence(x []float64, p int) float64 {
	h := x[p]

	leftMin := h
	for j := p - 1; j >= 0 && x[j] <= h; j-- {
		if x[j] < leftMin {
			leftMin = x[j]
		}
	}
	rightMin := h
	for j := p + 1; j < len(x) && x[j] <= h; j++ {
		if x[j] < rightMin {
			rightMin = x[j]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return h - base
}

// FindExtrema locates prominent peaks and troughs in prices. If fewer than
// two peaks or one trough are found, a coarse three-region fallback appends
// the maximum of the first half, the minimum of a window around the
// midpoint, and the maximum of the second half. The fallback favors recall:
// it can inject a low-confidence extremum on pathological inputs, and the
// downstream validators carry the real rejection logic.
func FindExtrema(prices []float64) (peaks, troughs []int) {
	peaks = FindPeaks(prices, peakDistance, peakProminence)

	negated := make([]float64, len(prices))
	for i, v := range prices {
		negated[i] = -v
	}
	troughs = FindPeaks(negated, peakDistance, peakProminence)

	if len(peaks) < 2 || len(troughs) < 1 {
		mid := len(prices) / 2

		if left := prices[:mid]; len(left) > 0 {
			peaks = append(peaks, argMax(left))
		}
		lo := mid - mid/2
		hi := mid + mid/2
		if lo < hi {
			troughs = append(troughs, lo+argMin(prices[lo:hi]))
		}
		if right := prices[mid:]; len(right) > 0 {
			peaks = append(peaks, mid+argMax(right))
		}

		sort.Ints(peaks)
		sort.Ints(troughs)
	}

	return peaks, troughs
}

func argMax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}

func argMin(x []float64) int {
	best := 0
	for i, v := range x {
		if v < x[best] {
			best = i
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
