// Package idpc implements Iterative Density Peak Clustering (IDPC).
//
// IDPC groups points around density peaks. It computes the full Euclidean
// distance matrix, derives a cutoff distance dc from a percentile knob,
// estimates the local density of every point, and then picks cluster centers
// one at a time: each new center maximizes its density times a combined
// distance to all centers chosen before it. Remaining points follow a chain
// of links to ever denser neighbors until a center is reached. An optional
// halo pass demotes low-density border points to noise.
//
// Basic usage:
//
//	cfg := idpc.DefaultConfig()
//	cfg.Centers = 5
//	cfg.CutoffPercent = 2
//	cfg.Halo = true
//	result, err := idpc.Cluster(points, cfg)
//	// result.Clusters[c] lists the members of the cluster around center c
//	// result.Labels[i] is the position of point i's center in result.Centers
//	// (-1 = halo)
//
// The stages are exported individually (NewDistanceMatrix, Cutoff, Density,
// SelectCenters, AssignClusters, FilterHalo) for callers that want to
// inspect or replace intermediate results.
//
// # Density methods
//
//	cfg.DensityMethod = idpc.DensityCutoff       // neighbors closer than dc
//	cfg.DensityMethod = idpc.DensityGaussian     // Gaussian kernel (default)
//	cfg.DensityMethod = idpc.DensityNeighborhood // mean distance to the 5% nearest
//
// A run is deterministic and holds no shared state, so independent runs may
// execute concurrently.
package idpc
