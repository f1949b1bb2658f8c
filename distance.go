package idpc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceMatrix is the symmetric all-pairs Euclidean distance matrix of a
// point set. The full matrix is stored flat in row-major order; the
// upper-triangular entries are also kept as a separate list for the cutoff
// search. A DistanceMatrix is never modified after construction and may be
// shared between goroutines.
type DistanceMatrix struct {
	n     int
	data  []float64
	upper []float64
	min   float64
	max   float64
}

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// NewDistanceMatrix computes the distance matrix of points on the calling
// goroutine. All points must share the same non-zero dimensionality and hold
// finite coordinates, and there must be at least two of them.
func NewDistanceMatrix(points [][]float64) (*DistanceMatrix, error) {
	return NewDistanceMatrixParallel(points, 1)
}

// NewDistanceMatrixParallel is like NewDistanceMatrix but splits the rows
// across workers goroutines. The result is bitwise identical to the
// sequential build.
func NewDistanceMatrixParallel(points [][]float64, workers int) (*DistanceMatrix, error) {
	flat, n, dims, err := flattenPoints(points)
	if err != nil {
		return nil, err
	}
	data := ComputePairwiseDistancesParallel(flat, n, dims, workers)
	return newDistanceMatrix(data, n), nil
}

// NewDistanceMatrixFromData wraps a precomputed flat n*n row-major distance
// matrix. The matrix must be symmetric with a zero diagonal and finite,
// non-negative entries. data is copied.
func NewDistanceMatrixFromData(data []float64, n int) (*DistanceMatrix, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidInput, n)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("%w: distance matrix length %d does not match n*n = %d (n=%d)",
			ErrInvalidInput, len(data), n*n, n)
	}
	for i := 0; i < n; i++ {
		if data[i*n+i] != 0 {
			return nil, fmt.Errorf("%w: non-zero diagonal at %d", ErrInvalidInput, i)
		}
		for j := i + 1; j < n; j++ {
			d := data[i*n+j]
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return nil, fmt.Errorf("%w: invalid distance %v at (%d, %d)", ErrInvalidInput, d, i, j)
			}
			if data[j*n+i] != d {
				return nil, fmt.Errorf("%w: matrix is not symmetric at (%d, %d)", ErrInvalidInput, i, j)
			}
		}
	}
	return newDistanceMatrix(append([]float64(nil), data...), n), nil
}

func newDistanceMatrix(data []float64, n int) *DistanceMatrix {
	upper := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		upper = append(upper, data[i*n+i+1:(i+1)*n]...)
	}
	return &DistanceMatrix{
		n:     n,
		data:  data,
		upper: upper,
		min:   floats.Min(upper),
		max:   floats.Max(upper),
	}
}

// flattenPoints validates points and copies them into a flat row-major slice.
func flattenPoints(points [][]float64) ([]float64, int, int, error) {
	n := len(points)
	if n < 2 {
		return nil, 0, 0, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidInput, n)
	}
	dims := len(points[0])
	if dims == 0 {
		return nil, 0, 0, fmt.Errorf("%w: points have no coordinates", ErrInvalidInput)
	}
	flat := make([]float64, n*dims)
	for i, p := range points {
		if len(p) != dims {
			return nil, 0, 0, fmt.Errorf("%w: point %d has %d coordinates, want %d", ErrInvalidInput, i, len(p), dims)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, 0, fmt.Errorf("%w: point %d has non-finite coordinate %v", ErrInvalidInput, i, v)
			}
		}
		copy(flat[i*dims:], p)
	}
	return flat, n, dims, nil
}

// ComputePairwiseDistances computes the full n*n Euclidean distance matrix.
// data is flat row-major with n rows and dims columns.
func ComputePairwiseDistances(data []float64, n, dims int) []float64 {
	result := make([]float64, n*n)
	fillDistanceRows(result, data, n, dims, 0, n)
	return result
}

// fillDistanceRows writes dist(i, j) and dist(j, i) for every i in
// [start, end) and j > i.
func fillDistanceRows(result, data []float64, n, dims, start, end int) {
	for i := start; i < end; i++ {
		a := data[i*dims : (i+1)*dims]
		for j := i + 1; j < n; j++ {
			d := EuclideanDistance(a, data[j*dims:(j+1)*dims])
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}
}

// Len returns the number of points.
func (m *DistanceMatrix) Len() int { return m.n }

// At returns the distance between points i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns the distances from point i to every point. The returned slice
// aliases the matrix and must not be modified.
func (m *DistanceMatrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

// Upper returns the N(N-1)/2 upper-triangular distances in row order
// (0,1), (0,2), ..., (N-2,N-1). The slice must not be modified.
func (m *DistanceMatrix) Upper() []float64 { return m.upper }

// MinDistance returns the smallest pairwise distance.
func (m *DistanceMatrix) MinDistance() float64 { return m.min }

// MaxDistance returns the largest pairwise distance.
func (m *DistanceMatrix) MaxDistance() float64 { return m.max }
