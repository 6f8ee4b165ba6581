package ranking

import (
	"math/bits"
	"math/rand"
	"sort"
)

// The power indices measure each node's share of the simple game in which a
// coalition wins when it contains a quorum.

// winningTable evaluates the game on every coalition, indexed by bitmask.
func winningTable(m Model) []bool {
	n := m.NumberOfNodes()
	table := make([]bool, 1<<n)
	members := make([]bool, n)
	for mask := range table {
		for id := 0; id < n; id++ {
			members[id] = mask&(1<<id) != 0
		}
		table[mask] = m.ContainsQuorumMask(members)
	}
	return table
}

// powerIndexExact sums, for every coalition S without i, the Shapley weight
// |S|!(n-|S|-1)!/n! over coalitions where i is pivotal.
func powerIndexExact(m Model) []float64 {
	n := m.NumberOfNodes()
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	weights := make([]float64, n)
	for s := 0; s < n; s++ {
		weights[s] = 1 / (float64(n) * binomial(n-1, s))
	}

	table := winningTable(m)
	for mask, wins := range table {
		if wins {
			continue
		}
		size := bits.OnesCount(uint(mask))
		for id := 0; id < n; id++ {
			bit := 1 << id
			if mask&bit != 0 {
				continue
			}
			if table[mask|bit] {
				scores[id] += weights[size]
			}
		}
	}
	return scores
}

// powerIndexApprox counts how often each node is pivotal in random orderings.
// The game is monotone, so the pivot is found by binary search over prefix
// lengths.
func powerIndexApprox(m Model, samples int, seed int64) []float64 {
	n := m.NumberOfNodes()
	scores := make([]float64, n)
	if n == 0 {
		return scores
	}

	rng := rand.New(rand.NewSource(seed))
	members := make([]bool, n)
	containsQuorum := func(order []int, k int) bool {
		for i := range members {
			members[i] = false
		}
		for _, id := range order[:k] {
			members[id] = true
		}
		return m.ContainsQuorumMask(members)
	}

	pivots := make([]int, n)
	for s := 0; s < samples; s++ {
		order := rng.Perm(n)
		k := sort.Search(n+1, func(k int) bool { return containsQuorum(order, k) })
		if k == 0 || k > n {
			continue
		}
		pivots[order[k-1]]++
	}

	for id, p := range pivots {
		scores[id] = float64(p) / float64(samples)
	}
	return scores
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return result
}
