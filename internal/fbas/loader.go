package fbas

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadOptions controls filtering applied while loading.
type LoadOptions struct {
	// IgnoreInactive drops nodes marked "active": false.
	IgnoreInactive bool
}

type rawNode struct {
	PublicKey string        `json:"publicKey"`
	Name      string        `json:"name"`
	Active    *bool         `json:"active"`
	QuorumSet *rawQuorumSet `json:"quorumSet"`
}

type rawQuorumSet struct {
	Threshold       int            `json:"threshold"`
	Validators      []string       `json:"validators"`
	InnerQuorumSets []rawQuorumSet `json:"innerQuorumSets"`
}

// LoadFile reads a stellarbeat.org "nodes" JSON document from path.
func LoadFile(path string, opts LoadOptions) (*FBAS, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	f, err := Load(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return f, nil
}

// Load parses a stellarbeat.org "nodes" JSON document, applies the inactive
// filter if requested and always prunes unsatisfiable nodes. The returned
// FBAS is renumbered 0..N.
func Load(r io.Reader, opts LoadOptions) (*FBAS, error) {
	var raw []rawNode
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode nodes JSON: %w", err)
	}

	b := newBuilder()
	var inactive []NodeID
	// Register declared nodes first so their ids follow document order.
	declared := make([]int, 0, len(raw))
	for i, rn := range raw {
		if rn.PublicKey == "" {
			continue
		}
		if _, dup := b.index[rn.PublicKey]; dup {
			continue
		}
		id := b.add(rn.PublicKey)
		b.nodes[id].Name = rn.Name
		declared = append(declared, i)
		if rn.Active != nil && !*rn.Active {
			inactive = append(inactive, id)
		}
	}
	for _, i := range declared {
		rn := raw[i]
		if rn.QuorumSet == nil {
			continue
		}
		id := b.index[rn.PublicKey]
		// quorumSet may grow b.nodes, so resolve before indexing.
		q := b.quorumSet(*rn.QuorumSet)
		b.nodes[id].QuorumSet = q
	}

	f, err := New(b.nodes)
	if err != nil {
		return nil, err
	}
	if opts.IgnoreInactive && len(inactive) > 0 {
		f = f.Without(inactive)
	}
	if unsatisfiable := f.UnsatisfiableNodes(); len(unsatisfiable) > 0 {
		f = f.Without(unsatisfiable)
	}
	return f, nil
}

type builder struct {
	nodes []Node
	index map[string]NodeID
}

func newBuilder() *builder {
	return &builder{index: make(map[string]NodeID)}
}

func (b *builder) add(publicKey string) NodeID {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{PublicKey: publicKey})
	b.index[publicKey] = id
	return id
}

// quorumSet resolves validator keys, adding undeclared validators as nodes
// without a quorum set.
func (b *builder) quorumSet(raw rawQuorumSet) QuorumSet {
	q := QuorumSet{Threshold: raw.Threshold}
	for _, pk := range raw.Validators {
		id, ok := b.index[pk]
		if !ok {
			id = b.add(pk)
		}
		q.Validators = append(q.Validators, id)
	}
	for _, inner := range raw.InnerQuorumSets {
		q.InnerQuorumSets = append(q.InnerQuorumSets, b.quorumSet(inner))
	}
	return q
}
