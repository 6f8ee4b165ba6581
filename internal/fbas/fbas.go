// Package fbas holds the Federated Byzantine Agreement System model used by
// the graph builder and the ranking engine. Nodes are addressed only through
// dense ids in 0..N; the model is immutable once built.
package fbas

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Node is the construction input for a single FBAS member.
type Node struct {
	PublicKey string
	Name      string
	QuorumSet QuorumSet
}

// FBAS is an immutable set of nodes and their quorum sets.
type FBAS struct {
	nodes []Node
}

// New builds an FBAS from nodes. Node i gets NodeID i. Every validator
// referenced in a quorum set must be a valid NodeID.
func New(nodes []Node) (*FBAS, error) {
	f := &FBAS{nodes: make([]Node, len(nodes))}
	for i, n := range nodes {
		if err := checkRefs(n.QuorumSet, len(nodes)); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.PublicKey, err)
		}
		f.nodes[i] = Node{
			PublicKey: n.PublicKey,
			Name:      n.Name,
			QuorumSet: n.QuorumSet.clone(),
		}
	}
	return f, nil
}

func checkRefs(q QuorumSet, n int) error {
	for _, v := range q.Validators {
		if v < 0 || v >= n {
			return fmt.Errorf("validator id %d out of range 0..%d", v, n)
		}
	}
	for _, inner := range q.InnerQuorumSets {
		if err := checkRefs(inner, n); err != nil {
			return err
		}
	}
	return nil
}

// NumberOfNodes returns N.
func (f *FBAS) NumberOfNodes() int {
	return len(f.nodes)
}

// AllNodes returns 0..N ascending.
func (f *FBAS) AllNodes() []NodeID {
	ids := make([]NodeID, len(f.nodes))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// QuorumSet returns a copy of the node's quorum set.
func (f *FBAS) QuorumSet(id NodeID) QuorumSet {
	return f.nodes[id].QuorumSet.clone()
}

// QuorumMembers returns the nodes the given node's quorum set references.
func (f *FBAS) QuorumMembers(id NodeID) []NodeID {
	return f.nodes[id].QuorumSet.ContainedNodes()
}

func (f *FBAS) PublicKey(id NodeID) string {
	return f.nodes[id].PublicKey
}

// Name returns the operator-chosen node name, possibly empty.
func (f *FBAS) Name(id NodeID) string {
	return f.nodes[id].Name
}

// GreatestQuorum returns the largest quorum contained in set, or nil if set
// contains no quorum.
func (f *FBAS) GreatestQuorum(set []NodeID) []NodeID {
	return f.greatestQuorum(f.membership(set))
}

// ContainsQuorumMask reports whether some subset of the members of an
// id-indexed mask is a quorum. The mask is modified.
func (f *FBAS) ContainsQuorumMask(members []bool) bool {
	return len(f.greatestQuorum(members)) > 0
}

// greatestQuorum drops members whose slices are unsatisfied until nothing
// changes. members is modified in place.
func (f *FBAS) greatestQuorum(members []bool) []NodeID {
	for changed := true; changed; {
		changed = false
		for id, in := range members {
			if in && !f.nodes[id].QuorumSet.IsSatisfiedBy(members) {
				members[id] = false
				changed = true
			}
		}
	}

	var quorum []NodeID
	for id, in := range members {
		if in {
			quorum = append(quorum, id)
		}
	}
	return quorum
}

func (f *FBAS) membership(set []NodeID) []bool {
	members := make([]bool, len(f.nodes))
	for _, id := range set {
		members[id] = true
	}
	return members
}

// Without returns a new FBAS with the given nodes removed and the survivors
// renumbered 0..M in their original relative order.
func (f *FBAS) Without(removed []NodeID) *FBAS {
	mask := make([]bool, len(f.nodes))
	for _, id := range removed {
		mask[id] = true
	}

	newIDs := make([]NodeID, len(f.nodes))
	next := 0
	for id := range f.nodes {
		if mask[id] {
			newIDs[id] = -1
			continue
		}
		newIDs[id] = next
		next++
	}

	out := &FBAS{nodes: make([]Node, 0, next)}
	for id, n := range f.nodes {
		if mask[id] {
			continue
		}
		out.nodes = append(out.nodes, Node{
			PublicKey: n.PublicKey,
			Name:      n.Name,
			QuorumSet: n.QuorumSet.without(mask, newIDs),
		})
	}
	return out
}

// UnsatisfiableNodes returns the nodes that are in no quorum at all,
// ascending.
func (f *FBAS) UnsatisfiableNodes() []NodeID {
	satisfiable := f.GreatestQuorum(f.AllNodes())
	in := f.membership(satisfiable)

	var out []NodeID
	for id := range f.nodes {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}

// Fingerprint is a structural hash of the FBAS, stable across runs.
func (f *FBAS) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	var writeQSet func(q QuorumSet)
	writeQSet = func(q QuorumSet) {
		writeInt(q.Threshold)
		validators := append([]NodeID(nil), q.Validators...)
		sort.Ints(validators)
		writeInt(len(validators))
		for _, v := range validators {
			writeInt(v)
		}
		writeInt(len(q.InnerQuorumSets))
		for _, inner := range q.InnerQuorumSets {
			writeQSet(inner)
		}
	}

	writeInt(len(f.nodes))
	for _, n := range f.nodes {
		_, _ = h.WriteString(n.PublicKey)
		writeInt(len(n.PublicKey))
		writeQSet(n.QuorumSet)
	}
	return h.Sum64()
}
