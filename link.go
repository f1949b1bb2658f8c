package idpc

// linkTable records, for every point, the next point on its chain toward a
// cluster center. Centers are roots (-1). Find follows the chain and
// compresses it so later lookups resolve in one hop.
type linkTable struct {
	next []int
}

func newLinkTable(n int) *linkTable {
	next := make([]int, n)
	for i := range next {
		next[i] = -1
	}
	return &linkTable{next: next}
}

// Link points x at its successor y.
func (lt *linkTable) Link(x, y int) {
	lt.next[x] = y
}

// Find returns the center at the end of x's chain, with path compression.
// Chains never cycle because every link points to a point processed earlier.
func (lt *linkTable) Find(x int) int {
	// Walk to the root.
	root := x
	for lt.next[root] != -1 {
		root = lt.next[root]
	}
	// Path compression: point all nodes along the path directly to root.
	for lt.next[x] != -1 {
		x, lt.next[x] = lt.next[x], root
	}
	return root
}
