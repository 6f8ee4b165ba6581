package graph

import (
	"fmt"
	"strconv"
	"strings"

	"fbasgraph/internal/fbas"
)

// AdjacencyList stores, for every node, the nodes that name it in their
// quorum sets.
type AdjacencyList struct {
	rows [][]fbas.NodeID
}

// BuildAdjacencyList walks sources in ascending order and appends each source
// to the row of every node it references. Consecutive duplicates in a row are
// collapsed, so a source appears at most once per row.
func BuildAdjacencyList(m Model) *AdjacencyList {
	n := m.NumberOfNodes()
	rows := make([][]fbas.NodeID, n)
	for source := 0; source < n; source++ {
		for _, target := range m.QuorumMembers(source) {
			checkID(target, n)
			rows[target] = append(rows[target], source)
		}
	}
	for i := range rows {
		rows[i] = dedupConsecutive(rows[i])
	}
	return &AdjacencyList{rows: rows}
}

// Kind returns KindList.
func (l *AdjacencyList) Kind() Kind { return KindList }

// Len returns the number of rows.
func (l *AdjacencyList) Len() int { return len(l.rows) }

// Lines renders each row as the node id followed by its dependents,
// space separated.
func (l *AdjacencyList) Lines() []string {
	lines := make([]string, len(l.rows))
	for id, row := range l.rows {
		fields := make([]string, 0, len(row)+1)
		fields = append(fields, strconv.Itoa(id))
		for _, source := range row {
			fields = append(fields, strconv.Itoa(source))
		}
		lines[id] = strings.Join(fields, " ")
	}
	return lines
}

// AdjacencyMatrix is an N×N incidence matrix; cell (source, target) is set
// when target is in source's quorum set.
type AdjacencyMatrix struct {
	n     int
	cells []bool
}

// BuildAdjacencyMatrix sets cell (source, target) for every member of every
// source's quorum set.
func BuildAdjacencyMatrix(m Model) *AdjacencyMatrix {
	n := m.NumberOfNodes()
	mat := &AdjacencyMatrix{n: n, cells: make([]bool, n*n)}
	for source := 0; source < n; source++ {
		for _, target := range m.QuorumMembers(source) {
			checkID(target, n)
			mat.cells[source*n+target] = true
		}
	}
	return mat
}

// Kind returns KindMatrix.
func (a *AdjacencyMatrix) Kind() Kind { return KindMatrix }

// Len returns N.
func (a *AdjacencyMatrix) Len() int { return a.n }

// Has reports whether target is in source's quorum set.
func (a *AdjacencyMatrix) Has(source, target fbas.NodeID) bool {
	return a.cells[source*a.n+target]
}

// Lines renders a header ";0;1;...;N-1" followed by one "id;c0;...;cN-1"
// row per source node.
func (a *AdjacencyMatrix) Lines() []string {
	lines := make([]string, 0, a.n+1)

	var header strings.Builder
	for id := 0; id < a.n; id++ {
		header.WriteByte(';')
		header.WriteString(strconv.Itoa(id))
	}
	lines = append(lines, header.String())

	for source := 0; source < a.n; source++ {
		var row strings.Builder
		row.WriteString(strconv.Itoa(source))
		for target := 0; target < a.n; target++ {
			if a.Has(source, target) {
				row.WriteString(";1")
			} else {
				row.WriteString(";0")
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}

// Build returns the representation selected by kind.
func Build(m Model, kind Kind) Representation {
	if kind == KindMatrix {
		return BuildAdjacencyMatrix(m)
	}
	return BuildAdjacencyList(m)
}

// Edges lists every trust relation, ordered by source then target.
func Edges(m Model) []Edge {
	var edges []Edge
	for source := 0; source < m.NumberOfNodes(); source++ {
		for _, target := range m.QuorumMembers(source) {
			edges = append(edges, Edge{From: source, To: target})
		}
	}
	return edges
}

func dedupConsecutive(ids []fbas.NodeID) []fbas.NodeID {
	if len(ids) < 2 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func checkID(id fbas.NodeID, n int) {
	if id < 0 || id >= n {
		panic(fmt.Sprintf("graph: node id %d out of range 0..%d", id, n))
	}
}
