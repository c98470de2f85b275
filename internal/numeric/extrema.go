package numeric

// Mode selects which extremum FindNoisyLocals reports per bin.
type Mode int

const (
	// Minima reports the smallest sample of each bin.
	Minima Mode = iota
	// Maxima reports the largest sample of each bin.
	Maxima
)

// String returns "min" or "max".
func (m Mode) String() string {
	if m == Maxima {
		return "max"
	}
	return "min"
}

// FindNoisyLocals partitions x into bins contiguous bins and returns, for each
// bin, the index and value of its extremum. Ties resolve to the earliest
// sample. Bins cover every sample, so the final sample always belongs to the
// last bin. The number of bins is capped at len(x).
func FindNoisyLocals(x []float64, bins int, mode Mode) ([]int, []float64) {
	n := len(x)
	if n == 0 || bins <= 0 {
		return nil, nil
	}
	if bins > n {
		bins = n
	}
	idx := make([]int, bins)
	vals := make([]float64, bins)
	for b := 0; b < bins; b++ {
		lo := b * n / bins
		hi := (b + 1) * n / bins
		best := lo
		for i := lo + 1; i < hi; i++ {
			if mode == Maxima && x[i] > x[best] || mode == Minima && x[i] < x[best] {
				best = i
			}
		}
		idx[b] = best
		vals[b] = x[best]
	}
	return idx, vals
}

// ArgMin returns the index of the first minimum of x, or -1 if x is empty.
func ArgMin(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	best := 0
	for i, v := range x {
		if v < x[best] {
			best = i
		}
	}
	return best
}

// Min returns the smallest value of x. x must not be empty.
func Min(x []float64) float64 {
	return x[ArgMin(x)]
}

// Max returns the largest value of x. x must not be empty.
func Max(x []float64) float64 {
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
