package idpc

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Assignment is the result of chain-based cluster assignment.
type Assignment struct {
	// Clusters maps each center to its members in ascending index order.
	// A center is always a member of its own cluster.
	Clusters map[int][]int

	// Labels gives, for each point, the position of its center in the
	// center list.
	Labels []int

	// Links is the immediate successor of each point on its chain toward a
	// center. Centers link to themselves.
	Links []int

	// Delta is the distance from each point to the nearest point ranked
	// above it by density. The densest point gets its largest distance.
	Delta []float64
}

// DensityOrder returns the point indices sorted by rho descending. Equal
// densities keep ascending index order, so the first entry matches the
// first center chosen by SelectCenters.
func DensityOrder(rho []float64) []int {
	order := make([]int, len(rho))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rho[order[a]] > rho[order[b]]
	})
	return order
}

// AssignClusters attaches every non-center point to the nearest point that
// precedes it in density order, then follows those links until a center is
// reached. The densest point must be one of the centers.
func AssignClusters(dm *DistanceMatrix, rho []float64, centers []int) (*Assignment, error) {
	n := dm.Len()
	if len(rho) != n {
		return nil, fmt.Errorf("%w: rho has %d entries for %d points", ErrInvalidInput, len(rho), n)
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("%w: no centers", ErrInvalidInput)
	}

	position := make(map[int]int, len(centers))
	for i, c := range centers {
		if c < 0 || c >= n {
			return nil, fmt.Errorf("%w: center %d out of range [0, %d)", ErrInvalidInput, c, n)
		}
		if _, dup := position[c]; dup {
			return nil, fmt.Errorf("%w: duplicate center %d", ErrInvalidInput, c)
		}
		position[c] = i
	}

	order := DensityOrder(rho)
	if _, ok := position[order[0]]; !ok {
		return nil, fmt.Errorf("%w: densest point %d is not a center", ErrInvalidInput, order[0])
	}

	var (
		links = make([]int, n)
		delta = make([]float64, n)
		table = newLinkTable(n)
	)

	first := order[0]
	links[first] = first
	delta[first] = floats.Max(dm.Row(first))

	for i := 1; i < n; i++ {
		v := order[i]
		row := dm.Row(v)

		nearest := order[0]
		for _, u := range order[1:i] {
			if row[u] < row[nearest] {
				nearest = u
			}
		}
		delta[v] = row[nearest]

		if _, isCenter := position[v]; isCenter {
			links[v] = v
			continue
		}
		links[v] = nearest
		table.Link(v, nearest)
	}

	a := &Assignment{
		Clusters: make(map[int][]int, len(centers)),
		Labels:   make([]int, n),
		Links:    links,
		Delta:    delta,
	}
	for _, c := range centers {
		a.Clusters[c] = nil
	}
	for v := 0; v < n; v++ {
		root := table.Find(v)
		a.Clusters[root] = append(a.Clusters[root], v)
		a.Labels[v] = position[root]
	}
	return a, nil
}
