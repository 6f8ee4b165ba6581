package ranking

import "fmt"

// Algorithm is the closed set of ranking algorithms. Dispatch on it with a
// type switch over the concrete variants below.
type Algorithm interface {
	// Name is used in output file names.
	Name() string
	isAlgorithm()
}

// Unweighted gives every node the same score of 1.
type Unweighted struct{}

// NodeRank is a PageRank-style centrality over the trust graph.
type NodeRank struct{}

// PowerIndexEnum computes exact Shapley-Shubik power indices.
type PowerIndexEnum struct{}

// PowerIndexApprox estimates Shapley-Shubik power indices from Samples
// random orderings.
type PowerIndexApprox struct {
	Samples int
}

func (Unweighted) Name() string       { return "unweighted" }
func (NodeRank) Name() string         { return "node_rank" }
func (PowerIndexEnum) Name() string   { return "power_index_enum" }
func (PowerIndexApprox) Name() string { return "power_index_approx" }

func (Unweighted) isAlgorithm()       {}
func (NodeRank) isAlgorithm()         {}
func (PowerIndexEnum) isAlgorithm()   {}
func (PowerIndexApprox) isAlgorithm() {}

// ParseAlgorithm maps a name (either the file-name form or the dashed CLI
// form) to an Algorithm. samples is only used by the approximation.
func ParseAlgorithm(name string, samples int) (Algorithm, error) {
	switch name {
	case "", "unweighted", "none":
		return Unweighted{}, nil
	case "node_rank", "node-rank", "noderank":
		return NodeRank{}, nil
	case "power_index_enum", "power-index-enum":
		return PowerIndexEnum{}, nil
	case "power_index_approx", "power-index-approx":
		if samples <= 0 {
			return nil, fmt.Errorf("%s needs a positive sample count, got %d", name, samples)
		}
		return PowerIndexApprox{Samples: samples}, nil
	default:
		return nil, fmt.Errorf("unknown ranking algorithm %q", name)
	}
}

// IsNodeRank reports whether scores from alg need NodeRank normalization.
func IsNodeRank(alg Algorithm) bool {
	_, ok := alg.(NodeRank)
	return ok
}
