package ranking

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"fbasgraph/internal/graph"
)

// nodeRank runs PageRank over the trust graph, where an edge points from a
// node to each member of its quorum set. Self-trust carries no rank.
func nodeRank(m Model, damping, tolerance float64) []float64 {
	n := m.NumberOfNodes()
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	g := simple.NewDirectedGraph()
	for id := 0; id < n; id++ {
		g.AddNode(simple.Node(id))
	}
	for _, e := range graph.Edges(m) {
		if e.From == e.To {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}

	ranks := network.PageRank(g, damping, tolerance)
	for id := range scores {
		scores[id] = ranks[int64(id)]
	}
	return scores
}
