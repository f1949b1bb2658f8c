package idpc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DensityMethod selects the local density estimator.
type DensityMethod int

const (
	// DensityCutoff counts the other points closer than dc.
	DensityCutoff DensityMethod = 0

	// DensityGaussian sums a Gaussian kernel exp(-(d/dc)^2) over all points,
	// the point itself included.
	DensityGaussian DensityMethod = 1

	// DensityNeighborhood uses the mean distance to the k = floor(0.05*N)
	// nearest points (self included) and ignores dc, which makes it robust
	// to a badly chosen cutoff.
	DensityNeighborhood DensityMethod = 2
)

// neighborhoodShare is the fraction of N used as k by DensityNeighborhood.
const neighborhoodShare = 0.05

// Density computes the local density rho of every point.
func Density(dm *DistanceMatrix, dc float64, method DensityMethod) ([]float64, error) {
	return DensityParallel(dm, dc, method, 1)
}

// validateDensity checks the inputs for method and returns the neighborhood
// size k used by DensityNeighborhood (0 for the other methods).
func validateDensity(dm *DistanceMatrix, dc float64, method DensityMethod) (int, error) {
	switch method {
	case DensityCutoff, DensityGaussian:
		if !(dc > 0) || math.IsInf(dc, 0) {
			return 0, fmt.Errorf("%w: cutoff distance must be positive and finite, got %v", ErrInvalidInput, dc)
		}
		return 0, nil
	case DensityNeighborhood:
		k := neighborhoodSize(dm.Len())
		if k < 2 {
			return 0, fmt.Errorf("%w: neighborhood density needs floor(%v*N) >= 2, N=%d gives %d",
				ErrInsufficientPoints, neighborhoodShare, dm.Len(), k)
		}
		return k, nil
	default:
		return 0, fmt.Errorf("%w: density method %d", ErrUnsupportedMethod, method)
	}
}

func neighborhoodSize(n int) int {
	return int(float64(n) * neighborhoodShare)
}

// fillDensityRows writes rho[i] for every i in [start, end).
func fillDensityRows(rho []float64, dm *DistanceMatrix, dc float64, method DensityMethod, k, start, end int) {
	var sorted []float64
	if method == DensityNeighborhood {
		sorted = make([]float64, dm.Len())
	}

	for i := start; i < end; i++ {
		row := dm.Row(i)
		switch method {
		case DensityCutoff:
			// The self distance is 0 and always counts.
			rho[i] = float64(countBelow(row, dc) - 1)
		case DensityGaussian:
			var sum float64
			for _, d := range row {
				x := d / dc
				sum += math.Exp(-(x * x))
			}
			rho[i] = sum
		case DensityNeighborhood:
			copy(sorted, row)
			sort.Float64s(sorted)
			rho[i] = math.Exp(-(floats.Sum(sorted[:k]) / float64(k-1)))
		}
	}
}
