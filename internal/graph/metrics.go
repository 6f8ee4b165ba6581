package graph

import "fbasgraph/internal/fbas"

// EdgeCount returns the number of distinct trust relations.
func (a *AdjacencyMatrix) EdgeCount() int {
	count := 0
	for _, set := range a.cells {
		if set {
			count++
		}
	}
	return count
}

// EdgeCount returns the number of distinct trust relations.
func (l *AdjacencyList) EdgeCount() int {
	count := 0
	for _, row := range l.rows {
		count += len(row)
	}
	return count
}

// InDegrees returns, per node, how many quorum sets reference it.
func (l *AdjacencyList) InDegrees() []int {
	degrees := make([]int, len(l.rows))
	for id, row := range l.rows {
		degrees[id] = len(row)
	}
	return degrees
}

// InDegrees returns, per node, how many quorum sets reference it.
func (a *AdjacencyMatrix) InDegrees() []int {
	degrees := make([]int, a.n)
	for source := 0; source < a.n; source++ {
		for target := 0; target < a.n; target++ {
			if a.cells[source*a.n+target] {
				degrees[target]++
			}
		}
	}
	return degrees
}

// MaxInDegree returns the most referenced node and its in-degree, or -1 for
// an empty graph.
func MaxInDegree(r Representation) (fbas.NodeID, int) {
	best, top := -1, 0
	for id, d := range r.InDegrees() {
		if best < 0 || d > top {
			best, top = id, d
		}
	}
	return best, top
}
