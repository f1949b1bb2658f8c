package idpc

import (
	"errors"
	"math"
	"testing"
)

func TestDensity_CutoffCount(t *testing.T) {
	// Points 0 and 1 are within dc of each other; point 2 is isolated.
	dm, err := NewDistanceMatrix([][]float64{{0, 0}, {0.5, 0}, {10, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rho, err := Density(dm, 1, DensityCutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{1, 1, 0}
	for i := range expected {
		if rho[i] != expected[i] {
			t.Errorf("rho[%d] = %v, want %v", i, rho[i], expected[i])
		}
	}
}

func TestDensity_CutoffCountStrict(t *testing.T) {
	// A neighbor at exactly dc does not count.
	dm, err := NewDistanceMatrix([][]float64{{0, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rho, err := Density(dm, 1, DensityCutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rho[0] != 0 || rho[1] != 0 {
		t.Errorf("rho = %v, want [0 0]", rho)
	}
}

func TestDensity_Gaussian(t *testing.T) {
	// (0,0), (3,0), (0,4) with dc = 5.
	dm, err := NewDistanceMatrix([][]float64{{0, 0}, {3, 0}, {0, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rho, err := Density(dm, 5, DensityGaussian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kernel := func(d float64) float64 { return math.Exp(-(d / 5) * (d / 5)) }
	expected := []float64{
		1 + kernel(3) + kernel(4),
		1 + kernel(3) + kernel(5),
		1 + kernel(4) + kernel(5),
	}
	for i := range expected {
		if !almostEqual(rho[i], expected[i], floatTol) {
			t.Errorf("rho[%d] = %v, want %v", i, rho[i], expected[i])
		}
	}
}

func TestDensity_GaussianFavorsCentralPoints(t *testing.T) {
	dm, err := NewDistanceMatrix([][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rho, err := Density(dm, 1.5, DensityGaussian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, mid := range []int{1, 2} {
		for _, end := range []int{0, 3} {
			if rho[mid] <= rho[end] {
				t.Errorf("rho[%d] = %v not above rho[%d] = %v", mid, rho[mid], end, rho[end])
			}
		}
	}
}

func TestDensity_Neighborhood(t *testing.T) {
	// 40 points on a line with unit spacing: k = 2, so each point sums its
	// self distance 0 and its nearest neighbor 1, divided by k-1 = 1.
	points := make([][]float64, 40)
	for i := range points {
		points[i] = []float64{float64(i), 0}
	}
	dm, err := NewDistanceMatrix(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// dc is ignored by this method.
	rho, err := Density(dm, 0, DensityNeighborhood)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Exp(-1)
	for i, r := range rho {
		if !almostEqual(r, want, floatTol) {
			t.Errorf("rho[%d] = %v, want %v", i, r, want)
		}
	}
}

func TestDensity_NeighborhoodInsufficientPoints(t *testing.T) {
	points := make([][]float64, 39)
	for i := range points {
		points[i] = []float64{float64(i), 0}
	}
	dm, err := NewDistanceMatrix(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Density(dm, 1, DensityNeighborhood); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestDensity_Errors(t *testing.T) {
	dm, err := NewDistanceMatrix([][]float64{{0, 0}, {1, 0}, {2, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Density(dm, 1, DensityMethod(3)); !errors.Is(err, ErrUnsupportedMethod) {
		t.Errorf("method 3: expected ErrUnsupportedMethod, got %v", err)
	}
	for _, dc := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		for _, method := range []DensityMethod{DensityCutoff, DensityGaussian} {
			if _, err := Density(dm, dc, method); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("dc=%v method=%d: expected ErrInvalidInput, got %v", dc, method, err)
			}
		}
	}
}
