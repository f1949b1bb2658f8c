package idpc

import (
	"fmt"
	"log/slog"
)

// Config controls an IDPC run.
// Start with [DefaultConfig] and set Centers.
type Config struct {
	// Centers is the number of clusters to form. Must satisfy
	// 1 <= Centers < number of points. Required.
	Centers int

	// CutoffMethod selects how the cutoff distance dc is found.
	// Only CutoffBisection is implemented. Default: CutoffBisection.
	CutoffMethod CutoffMethod

	// CutoffPercent is the lower bound, in percent, of the share of point
	// pairs that should lie closer than dc. The search accepts any share in
	// [CutoffPercent, CutoffPercent+1] percent. Typical values are 1 to 4.
	// Must be in [0, 100). Default: 1.
	CutoffPercent int

	// DensityMethod selects the local density estimator.
	// Default: DensityGaussian.
	DensityMethod DensityMethod

	// Halo enables border filtering after assignment: low-density points on
	// a cluster border are demoted to noise. Default: false.
	Halo bool

	// Workers controls the number of goroutines used for the distance matrix
	// and the density vector. Results do not depend on it.
	// 0 means 1. Default: 1.
	Workers int

	// Logger receives debug records for each stage. nil discards them.
	Logger *slog.Logger
}

// Result contains the output of an IDPC run.
type Result struct {
	// Centers lists the cluster centers in selection order.
	Centers []int

	// Clusters maps each center to its members in ascending order. With Halo
	// enabled, demoted points are missing from every cluster.
	Clusters map[int][]int

	// Labels assigns each point the position of its center in Centers, or -1
	// for halo points.
	Labels []int

	// Halo lists the points demoted to noise, ascending. Empty unless
	// Config.Halo is set.
	Halo []int

	// BorderRepresentatives holds the densest border point of every cluster
	// with a border, in center order. Empty unless Config.Halo is set.
	BorderRepresentatives []int

	// Cutoff describes the cutoff distance search.
	Cutoff CutoffResult

	// Rho is the local density of each point.
	Rho []float64

	// Delta is the distance from each point to the nearest denser point.
	// Together with Rho it forms the classic decision graph.
	Delta []float64
}

// Gamma returns rho*delta for every point, the score used to rank density
// peaks in the classic decision graph.
func (r *Result) Gamma() []float64 {
	gamma := make([]float64, len(r.Rho))
	for i := range gamma {
		gamma[i] = r.Rho[i] * r.Delta[i]
	}
	return gamma
}

// DefaultConfig returns a Config with reasonable defaults. Centers is left
// at 0 and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		CutoffMethod:  CutoffBisection,
		CutoffPercent: 1,
		DensityMethod: DensityGaussian,
		Workers:       1,
	}
}

// validateConfig checks that cfg fields are valid for a data set of n points.
func validateConfig(cfg *Config, n int) error {
	if cfg.CutoffMethod != CutoffBisection {
		return fmt.Errorf("%w: cutoff method %d", ErrUnsupportedMethod, cfg.CutoffMethod)
	}
	switch cfg.DensityMethod {
	case DensityCutoff, DensityGaussian:
	case DensityNeighborhood:
		if k := neighborhoodSize(n); k < 2 {
			return fmt.Errorf("%w: neighborhood density needs at least %d points, got %d",
				ErrInsufficientPoints, int(2/neighborhoodShare), n)
		}
	default:
		return fmt.Errorf("%w: density method %d", ErrUnsupportedMethod, cfg.DensityMethod)
	}
	if cfg.CutoffPercent < 0 || cfg.CutoffPercent >= 100 {
		return fmt.Errorf("%w: CutoffPercent must be in [0, 100), got %d", ErrInvalidInput, cfg.CutoffPercent)
	}
	if cfg.Centers < 1 {
		return fmt.Errorf("%w: Centers must be >= 1, got %d", ErrInvalidInput, cfg.Centers)
	}
	if cfg.Centers >= n {
		return fmt.Errorf("%w: %d centers requested for %d points", ErrTooManyCenters, cfg.Centers, n)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrInvalidInput, cfg.Workers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// Cluster runs IDPC on points. Each element is a point; all points must have
// the same dimensionality and finite coordinates.
func Cluster(points [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidInput, len(points))
	}
	if err := validateConfig(&cfg, len(points)); err != nil {
		return nil, err
	}

	dm, err := NewDistanceMatrixParallel(points, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return run(dm, cfg)
}

// ClusterPrecomputed runs IDPC on an existing distance matrix.
func ClusterPrecomputed(dm *DistanceMatrix, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, dm.Len()); err != nil {
		return nil, err
	}
	return run(dm, cfg)
}

// run executes the pipeline from the cutoff search onward.
func run(dm *DistanceMatrix, cfg Config) (*Result, error) {
	log := cfg.Logger.With("points", dm.Len(), "centers", cfg.Centers)

	cut, err := Cutoff(dm, cfg.CutoffPercent, cfg.CutoffMethod)
	if err != nil {
		return nil, err
	}
	if cut.Converged {
		log.Debug("cutoff distance found",
			"dc", cut.Distance,
			"fraction", cut.Fraction,
			"iterations", cut.Iterations,
		)
	} else {
		log.Warn("cutoff search stopped outside the percent window",
			"dc", cut.Distance,
			"fraction", cut.Fraction,
			"percent", cfg.CutoffPercent,
			"iterations", cut.Iterations,
		)
	}

	rho, err := DensityParallel(dm, cut.Distance, cfg.DensityMethod, cfg.Workers)
	if err != nil {
		return nil, err
	}
	log.Debug("local density computed", "method", cfg.DensityMethod)

	centers, err := SelectCenters(dm, rho, cfg.Centers)
	if err != nil {
		return nil, err
	}
	log.Debug("centers selected", "center_ids", centers)

	a, err := AssignClusters(dm, rho, centers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Centers:               centers,
		Clusters:              a.Clusters,
		Labels:                a.Labels,
		Halo:                  []int{},
		BorderRepresentatives: []int{},
		Cutoff:                cut,
		Rho:                   rho,
		Delta:                 a.Delta,
	}

	if cfg.Halo {
		h, err := FilterHalo(dm, rho, a.Clusters, centers, cut.Distance)
		if err != nil {
			return nil, err
		}
		res.Clusters = h.Clusters
		if h.Halo != nil {
			res.Halo = h.Halo
		}
		if h.BorderRepresentatives != nil {
			res.BorderRepresentatives = h.BorderRepresentatives
		}
		for _, p := range res.Halo {
			res.Labels[p] = -1
		}
		log.Debug("halo filtered", "halo", len(res.Halo), "borders", len(res.BorderRepresentatives))
	}

	return res, nil
}
