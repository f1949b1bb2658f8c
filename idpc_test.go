package idpc

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Centers != 0 {
		t.Errorf("Centers: got %d, want 0", cfg.Centers)
	}
	if cfg.CutoffMethod != CutoffBisection {
		t.Errorf("CutoffMethod: got %d, want CutoffBisection", cfg.CutoffMethod)
	}
	if cfg.CutoffPercent != 1 {
		t.Errorf("CutoffPercent: got %d, want 1", cfg.CutoffPercent)
	}
	if cfg.DensityMethod != DensityGaussian {
		t.Errorf("DensityMethod: got %d, want DensityGaussian", cfg.DensityMethod)
	}
	if cfg.Halo {
		t.Error("Halo: got true, want false")
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers: got %d, want 1", cfg.Workers)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero centers", func(c *Config) { c.Centers = 0 }, ErrInvalidInput},
		{"centers = N", func(c *Config) { c.Centers = 6 }, ErrTooManyCenters},
		{"centers > N", func(c *Config) { c.Centers = 60 }, ErrTooManyCenters},
		{"cutoff method 1", func(c *Config) { c.CutoffMethod = 1 }, ErrUnsupportedMethod},
		{"density method 3", func(c *Config) { c.DensityMethod = 3 }, ErrUnsupportedMethod},
		{"negative percent", func(c *Config) { c.CutoffPercent = -1 }, ErrInvalidInput},
		{"percent 100", func(c *Config) { c.CutoffPercent = 100 }, ErrInvalidInput},
		{"negative workers", func(c *Config) { c.Workers = -2 }, ErrInvalidInput},
		{"neighborhood on 6 points", func(c *Config) { c.DensityMethod = DensityNeighborhood }, ErrInsufficientPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Centers = 2
			tt.mutate(&cfg)
			_, err := Cluster(twoGroups(), cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// twoGroups returns two tight groups of three points, far apart.
func twoGroups() [][]float64 {
	return [][]float64{
		{0, 0}, {1, 0}, {2, 0},
		{100, 0}, {101, 0}, {102, 0},
	}
}

func TestCluster_TwoSeparatedGroups(t *testing.T) {
	for _, percent := range []int{1, 2, 3, 4} {
		cfg := DefaultConfig()
		cfg.Centers = 2
		cfg.CutoffPercent = percent

		result, err := Cluster(twoGroups(), cfg)
		if err != nil {
			t.Fatalf("percent=%d: unexpected error: %v", percent, err)
		}

		if len(result.Centers) != 2 {
			t.Fatalf("percent=%d: centers = %v", percent, result.Centers)
		}
		if (result.Centers[0] < 3) == (result.Centers[1] < 3) {
			t.Errorf("percent=%d: centers %v come from the same group", percent, result.Centers)
		}
		for i := 0; i < 3; i++ {
			if result.Labels[i] != result.Labels[0] {
				t.Errorf("percent=%d: point %d not with point 0", percent, i)
			}
			if result.Labels[i+3] != result.Labels[3] {
				t.Errorf("percent=%d: point %d not with point 3", percent, i+3)
			}
		}
		if result.Labels[0] == result.Labels[3] {
			t.Errorf("percent=%d: groups merged: %v", percent, result.Labels)
		}
		if len(result.Halo) != 0 {
			t.Errorf("percent=%d: Halo = %v with halo disabled", percent, result.Halo)
		}
	}
}

func TestCluster_CollinearSingleCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Centers = 1

	result, err := Cluster(linePoints(0, 1, 2, 3), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := result.Centers[0]; c != 1 && c != 2 {
		t.Errorf("center = %d, want a middle point", c)
	}
	assertMembers(t, result.Clusters[result.Centers[0]], []int{0, 1, 2, 3})
	for i, l := range result.Labels {
		if l != 0 {
			t.Errorf("Labels[%d] = %d, want 0", i, l)
		}
	}
}

// gridWithOutlier returns a 10x5 unit grid followed by one point well above
// it. The grid is connected at distance 1, so any split into two clusters
// leaves a border on both sides.
func gridWithOutlier() [][]float64 {
	var points [][]float64
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			points = append(points, []float64{float64(x), float64(y)})
		}
	}
	return append(points, []float64{4.5, 9})
}

func TestCluster_OutlierBecomesHalo(t *testing.T) {
	points := gridWithOutlier()
	outlier := len(points) - 1

	cfg := DefaultConfig()
	cfg.Centers = 2
	cfg.CutoffPercent = 2
	cfg.Halo = true

	result, err := Cluster(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if containsInt(result.Centers, outlier) {
		t.Fatalf("outlier selected as center: %v", result.Centers)
	}
	if !containsInt(result.Halo, outlier) {
		t.Errorf("outlier %d not in halo %v", outlier, result.Halo)
	}
	if result.Labels[outlier] != -1 {
		t.Errorf("Labels[outlier] = %d, want -1", result.Labels[outlier])
	}
	for c, members := range result.Clusters {
		if containsInt(members, outlier) {
			t.Errorf("outlier still in cluster %d", c)
		}
	}
	if len(result.BorderRepresentatives) != 2 {
		t.Errorf("BorderRepresentatives = %v, want one per cluster", result.BorderRepresentatives)
	}

	// Clusters and halo partition the point set.
	seen := make([]int, len(points))
	for _, members := range result.Clusters {
		for _, p := range members {
			seen[p]++
		}
	}
	for _, p := range result.Halo {
		seen[p]++
	}
	for p, count := range seen {
		if count != 1 {
			t.Errorf("point %d covered %d times", p, count)
		}
	}
}

func TestCluster_HaloDisabledKeepsEveryPoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Centers = 2
	cfg.CutoffPercent = 2

	result, err := Cluster(gridWithOutlier(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Halo) != 0 || len(result.BorderRepresentatives) != 0 {
		t.Errorf("halo %v, borders %v with halo disabled", result.Halo, result.BorderRepresentatives)
	}
	for i, l := range result.Labels {
		if l < 0 {
			t.Errorf("Labels[%d] = %d", i, l)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	points := randomPoints(200, 2, 42)
	for _, method := range []DensityMethod{DensityCutoff, DensityGaussian, DensityNeighborhood} {
		cfg := DefaultConfig()
		cfg.Centers = 5
		cfg.CutoffPercent = 2
		cfg.DensityMethod = method
		cfg.Halo = true

		first, err := Cluster(points, cfg)
		if err != nil {
			t.Fatalf("method %d: unexpected error: %v", method, err)
		}
		cfg.Workers = 4
		second, err := Cluster(points, cfg)
		if err != nil {
			t.Fatalf("method %d: unexpected error: %v", method, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("method %d: results differ between runs", method)
		}
	}
}

func TestClusterPrecomputed_MatchesCluster(t *testing.T) {
	points := randomPoints(80, 2, 8)
	cfg := DefaultConfig()
	cfg.Centers = 3
	cfg.CutoffPercent = 2

	direct, err := Cluster(points, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dm, err := NewDistanceMatrix(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pre, err := ClusterPrecomputed(dm, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(direct, pre) {
		t.Error("precomputed result differs from direct result")
	}
}

func TestResult_Gamma(t *testing.T) {
	r := &Result{Rho: []float64{1, 2, 3}, Delta: []float64{4, 0.5, 2}}
	expected := []float64{4, 1, 6}
	gamma := r.Gamma()
	for i := range expected {
		if !almostEqual(gamma[i], expected[i], floatTol) {
			t.Errorf("gamma[%d] = %v, want %v", i, gamma[i], expected[i])
		}
	}
}
