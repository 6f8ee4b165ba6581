package ranking

import "fmt"

// HasQuorumIntersection reports whether every two quorums share a node. The
// check is exhaustive over coalitions and refuses FBAS larger than limit.
func HasQuorumIntersection(m Model, limit int) (bool, error) {
	n := m.NumberOfNodes()
	if n > limit {
		return false, fmt.Errorf("%w: %d nodes, limit %d", ErrIntersectionUndecided, n, limit)
	}
	if n == 0 {
		return true, nil
	}

	table := winningTable(m)
	full := len(table) - 1
	top := 1 << (n - 1)
	// A coalition and its complement are visited once by fixing the top bit.
	for mask := top; mask <= full; mask++ {
		if table[mask] && table[full^mask] {
			return false, nil
		}
	}
	return true, nil
}
