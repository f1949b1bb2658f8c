package idpc

import "fmt"

// HaloResult is the outcome of halo filtering.
type HaloResult struct {
	// Clusters maps each center to its retained members, ascending.
	Clusters map[int][]int

	// Halo lists, ascending, the points that belong to no cluster.
	Halo []int

	// BorderRepresentatives holds, in center order, the densest border point
	// of every cluster that has a border.
	BorderRepresentatives []int
}

// FilterHalo demotes unreliable points to noise. A member of a cluster is on
// its border when some point outside the cluster lies closer than dc. The
// densest border point sets the cluster's density floor: members below it
// move to the halo. Clusters without a border are left unchanged, and no
// cluster ever gains members. clusters is not modified.
//
// A center always survives because chain assignment only links points to
// denser ones, so the center is the densest member of its cluster.
func FilterHalo(dm *DistanceMatrix, rho []float64, clusters map[int][]int, centers []int, dc float64) (*HaloResult, error) {
	n := dm.Len()
	if len(rho) != n {
		return nil, fmt.Errorf("%w: rho has %d entries for %d points", ErrInvalidInput, len(rho), n)
	}

	res := &HaloResult{Clusters: make(map[int][]int, len(centers))}
	member := make([]bool, n)
	covered := make([]bool, n)

	for _, c := range centers {
		points := clusters[c]
		for _, p := range points {
			member[p] = true
		}

		border := -1
		for _, p := range points {
			if !nearOutsider(dm.Row(p), member, dc) {
				continue
			}
			if border == -1 || rho[p] > rho[border] {
				border = p
			}
		}

		kept := points
		if border != -1 {
			res.BorderRepresentatives = append(res.BorderRepresentatives, border)
			floor := rho[border]
			kept = make([]int, 0, len(points))
			for _, p := range points {
				if rho[p] >= floor {
					kept = append(kept, p)
				}
			}
		} else {
			kept = append([]int(nil), points...)
		}
		res.Clusters[c] = kept

		for _, p := range points {
			member[p] = false
		}
		for _, p := range kept {
			covered[p] = true
		}
	}

	for p, ok := range covered {
		if !ok {
			res.Halo = append(res.Halo, p)
		}
	}
	return res, nil
}

// nearOutsider reports whether any non-member lies closer than dc.
func nearOutsider(row []float64, member []bool, dc float64) bool {
	for q, d := range row {
		if !member[q] && d < dc {
			return true
		}
	}
	return false
}
