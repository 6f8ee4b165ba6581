package graph

import (
	"fmt"

	"fbasgraph/internal/fbas"
)

// Kind selects the graph representation.
type Kind string

const (
	KindList   Kind = "list"
	KindMatrix Kind = "matrix"
)

// ParseKind maps a config or flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindList, KindMatrix:
		return Kind(s), nil
	case "":
		return KindList, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (want %q or %q)", s, KindList, KindMatrix)
	}
}

// FileSuffix is the output file suffix for the representation.
func (k Kind) FileSuffix() string {
	if k == KindMatrix {
		return "adjacency_matrix"
	}
	return "adjacency_list"
}

// Model is the part of the FBAS the builders read.
type Model interface {
	NumberOfNodes() int
	QuorumMembers(id fbas.NodeID) []fbas.NodeID
}

// Edge is a trust relation: To appears in From's quorum set.
type Edge struct {
	From fbas.NodeID
	To   fbas.NodeID
}

// Representation is a graph rendered as text lines, one per row.
type Representation interface {
	Kind() Kind
	Lines() []string
	EdgeCount() int
	InDegrees() []int
}
