package idpc

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SelectCenters picks n cluster centers one at a time. The first center is
// the densest point. Every later center maximizes rho times a combined
// distance to all centers chosen so far, where the combined distance folds
// each center's row in selection order as a*b/(a+b). A candidate close to
// any existing center therefore scores low even if it is far from the rest.
//
// rho is not modified. Ties go to the lowest index.
func SelectCenters(dm *DistanceMatrix, rho []float64, n int) ([]int, error) {
	size := dm.Len()
	if len(rho) != size {
		return nil, fmt.Errorf("%w: rho has %d entries for %d points", ErrInvalidInput, len(rho), size)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: center count must be >= 1, got %d", ErrInvalidInput, n)
	}
	if n >= size {
		return nil, fmt.Errorf("%w: %d centers requested for %d points", ErrTooManyCenters, n, size)
	}

	var (
		centers  = make([]int, 0, n)
		claimed  = make([]bool, size)
		rhoWork  = append([]float64(nil), rho...)
		combined = make([]float64, size)
		gamma    = make([]float64, size)
	)

	claim := func(c int) {
		centers = append(centers, c)
		claimed[c] = true
		rhoWork[c] = 0
	}

	first := floats.MaxIdx(rhoWork)
	claim(first)
	copy(combined, dm.Row(first))

	for len(centers) < n {
		floats.MulTo(gamma, rhoWork, combined)
		next := argmaxUnclaimed(gamma, claimed)
		claim(next)
		foldDistances(combined, dm.Row(next))
	}

	return centers, nil
}

// foldDistances combines acc with row elementwise as acc*row/(acc+row).
// Where both operands are zero (an already chosen center) the result is 0.
func foldDistances(acc, row []float64) {
	for i, a := range acc {
		b := row[i]
		if s := a + b; s != 0 {
			acc[i] = a * b / s
		} else {
			acc[i] = 0
		}
	}
}

// argmaxUnclaimed returns the first index of the largest score among points
// that are not yet centers. Claimed points always score 0, but restricting
// the search keeps centers distinct when every remaining score is 0 too.
func argmaxUnclaimed(score []float64, claimed []bool) int {
	best := -1
	for i, s := range score {
		if claimed[i] {
			continue
		}
		if best == -1 || s > score[best] {
			best = i
		}
	}
	return best
}
