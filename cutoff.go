package idpc

import (
	"fmt"
	"math"
)

// CutoffMethod selects how the cutoff distance dc is derived.
type CutoffMethod int

const (
	// CutoffBisection bisects [MinDistance, MaxDistance] until the share of
	// pairs closer than dc falls in the requested percent window.
	CutoffBisection CutoffMethod = 0
)

// maxBisectIterations bounds the bisection. The interval halves each step,
// so float64 precision is exhausted long before this.
const maxBisectIterations = 200

// CutoffResult is the outcome of the cutoff search.
type CutoffResult struct {
	// Distance is the cutoff distance dc.
	Distance float64

	// Fraction is count(pairs < dc) / ((N-1)^2 / 2) at Distance.
	Fraction float64

	// Iterations is the number of bisection steps taken.
	Iterations int

	// Converged reports whether Fraction lies inside the requested window.
	// Small point sets can have a fraction that jumps over the whole window.
	// The search then stops once the interval can no longer shrink and
	// returns its upper end, the smallest tried distance whose fraction
	// exceeded the window, with Converged set to false.
	Converged bool
}

// Cutoff derives the cutoff distance dc so that roughly percent% of all
// pairs lie closer than dc. The share is normalised by (N-1)^2/2 rather than
// the exact pair count N(N-1)/2, which shifts the window slightly for small N.
func Cutoff(dm *DistanceMatrix, percent int, method CutoffMethod) (CutoffResult, error) {
	if method != CutoffBisection {
		return CutoffResult{}, fmt.Errorf("%w: cutoff method %d", ErrUnsupportedMethod, method)
	}
	if percent < 0 || percent >= 100 {
		return CutoffResult{}, fmt.Errorf("%w: cutoff percent must be in [0, 100), got %d", ErrInvalidInput, percent)
	}
	if dm.MaxDistance() == 0 {
		return CutoffResult{}, fmt.Errorf("%w: all points coincide", ErrInvalidInput)
	}

	var (
		lower = float64(percent) / 100
		upper = float64(percent+1) / 100
		total = math.Pow(float64(dm.Len()-1), 2) / 2
		lo    = dm.MinDistance()
		hi    = dm.MaxDistance()
		res   CutoffResult
	)

	for res.Iterations < maxBisectIterations {
		dc := (lo + hi) / 2
		res.Iterations++
		res.Distance = dc
		res.Fraction = float64(countBelow(dm.Upper(), dc)) / total

		switch {
		case lower <= res.Fraction && res.Fraction <= upper:
			res.Converged = true
			return res, nil
		case res.Fraction > upper:
			hi = dc
		default:
			lo = dc
		}

		// The midpoint can no longer move.
		if (lo+hi)/2 == dc {
			break
		}
	}

	res.Distance = hi
	res.Fraction = float64(countBelow(dm.Upper(), hi)) / total
	return res, nil
}

func countBelow(s []float64, dc float64) int {
	count := 0
	for _, d := range s {
		if d < dc {
			count++
		}
	}
	return count
}
