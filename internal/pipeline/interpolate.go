package pipeline

import "math"

type fillCounts struct {
	interpolated int
	extrapolated int
}

// fillLinear fills NaN cells of ys in place. ys is indexed by consecutive
// years. Interior gaps are interpolated linearly between the bracketing known
// points; leading and trailing gaps take the nearest known value. A column
// with no known value is left untouched.
func fillLinear(ys []float64) fillCounts {
	var c fillCounts
	first, last := -1, -1
	for i, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return c
	}
	for i := 0; i < first; i++ {
		ys[i] = ys[first]
		c.extrapolated++
	}
	for i := last + 1; i < len(ys); i++ {
		ys[i] = ys[last]
		c.extrapolated++
	}
	prev := first
	for i := first + 1; i <= last; i++ {
		if math.IsNaN(ys[i]) {
			continue
		}
		if gap := i - prev; gap > 1 {
			step := (ys[i] - ys[prev]) / float64(gap)
			for k := prev + 1; k < i; k++ {
				ys[k] = ys[prev] + step*float64(k-prev)
				c.interpolated++
			}
		}
		prev = i
	}
	return c
}
