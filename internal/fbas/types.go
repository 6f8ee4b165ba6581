package fbas

import "sort"

// NodeID is a dense, zero-based node index. It is only meaningful for the
// FBAS that produced it.
type NodeID = int

// QuorumSet is a node's agreement condition: at least Threshold of its
// validators and inner quorum sets must be satisfied.
type QuorumSet struct {
	Threshold       int
	Validators      []NodeID
	InnerQuorumSets []QuorumSet
}

// ContainedNodes returns every node referenced by the quorum set, including
// nested inner sets, ascending and without duplicates.
func (q QuorumSet) ContainedNodes() []NodeID {
	seen := make(map[NodeID]struct{})
	q.collect(seen)

	ids := make([]NodeID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (q QuorumSet) collect(seen map[NodeID]struct{}) {
	for _, v := range q.Validators {
		seen[v] = struct{}{}
	}
	for _, inner := range q.InnerQuorumSets {
		inner.collect(seen)
	}
}

// IsSatisfiedBy reports whether members (indexed by NodeID) satisfy the
// quorum set. A threshold of zero is never satisfiable.
func (q QuorumSet) IsSatisfiedBy(members []bool) bool {
	if q.Threshold <= 0 {
		return false
	}
	satisfied := 0
	for _, v := range q.Validators {
		if v < len(members) && members[v] {
			satisfied++
		}
	}
	for _, inner := range q.InnerQuorumSets {
		if inner.IsSatisfiedBy(members) {
			satisfied++
		}
	}
	return satisfied >= q.Threshold
}

// without drops removed validators and maps the survivors through newIDs.
// Thresholds are kept as they are.
func (q QuorumSet) without(removed []bool, newIDs []NodeID) QuorumSet {
	out := QuorumSet{Threshold: q.Threshold}
	for _, v := range q.Validators {
		if removed[v] {
			continue
		}
		out.Validators = append(out.Validators, newIDs[v])
	}
	for _, inner := range q.InnerQuorumSets {
		out.InnerQuorumSets = append(out.InnerQuorumSets, inner.without(removed, newIDs))
	}
	return out
}

func (q QuorumSet) clone() QuorumSet {
	out := QuorumSet{
		Threshold:  q.Threshold,
		Validators: append([]NodeID(nil), q.Validators...),
	}
	for _, inner := range q.InnerQuorumSets {
		out.InnerQuorumSets = append(out.InnerQuorumSets, inner.clone())
	}
	return out
}
