package fbas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullyConnected(t *testing.T, n int) *FBAS {
	t.Helper()
	all := make([]NodeID, n)
	for i := range all {
		all[i] = i
	}
	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i] = Node{
			PublicKey: string(rune('A' + i)),
			QuorumSet: QuorumSet{Threshold: n/2 + 1, Validators: all},
		}
	}
	f, err := New(nodes)
	require.NoError(t, err)
	return f
}

func TestNew_RejectsOutOfRangeValidator(t *testing.T) {
	_, err := New([]Node{{PublicKey: "A", QuorumSet: QuorumSet{Threshold: 1, Validators: []NodeID{1}}}})
	assert.Error(t, err)
}

func TestQuorumMembers_IncludesInnerSetsOnce(t *testing.T) {
	f, err := New([]Node{
		{PublicKey: "A", QuorumSet: QuorumSet{
			Threshold:  2,
			Validators: []NodeID{2, 0},
			InnerQuorumSets: []QuorumSet{
				{Threshold: 1, Validators: []NodeID{1, 2}},
			},
		}},
		{PublicKey: "B"},
		{PublicKey: "C"},
	})
	require.NoError(t, err)

	assert.Equal(t, []NodeID{0, 1, 2}, f.QuorumMembers(0))
	assert.Empty(t, f.QuorumMembers(1))
}

func TestQuorums(t *testing.T) {
	f := fullyConnected(t, 3)

	assert.Equal(t, []NodeID{0, 1, 2}, f.GreatestQuorum(f.AllNodes()))
	assert.Equal(t, []NodeID{0, 1}, f.GreatestQuorum([]NodeID{0, 1}))
	assert.Nil(t, f.GreatestQuorum([]NodeID{1}))
	assert.Nil(t, f.GreatestQuorum(nil))

	assert.True(t, f.ContainsQuorumMask([]bool{false, true, true}))
	assert.False(t, f.ContainsQuorumMask([]bool{false, false, true}))
}

func TestWithout_RenumbersAndDropsValidators(t *testing.T) {
	f := fullyConnected(t, 3)
	g := f.Without([]NodeID{0})

	require.Equal(t, 2, g.NumberOfNodes())
	assert.Equal(t, "B", g.PublicKey(0))
	assert.Equal(t, "C", g.PublicKey(1))
	assert.Equal(t, []NodeID{0, 1}, g.QuorumMembers(0))
	assert.Equal(t, 2, g.QuorumSet(0).Threshold)

	// The original is untouched.
	assert.Equal(t, 3, f.NumberOfNodes())
}

func TestFingerprint(t *testing.T) {
	a := fullyConnected(t, 3)
	b := fullyConnected(t, 3)
	c := fullyConnected(t, 4)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

const nodesJSON = `[
  {"publicKey": "GA", "name": "alpha", "active": true,
   "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"], "innerQuorumSets": []}},
  {"publicKey": "GB", "name": "beta", "active": true,
   "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"]}},
  {"publicKey": "GC", "name": "gamma", "active": false,
   "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"]}},
  {"publicKey": "GD", "name": "delta",
   "quorumSet": {"threshold": 1, "validators": ["GX"]}},
  {"publicKey": "GE", "name": "watcher"}
]`

func TestLoad(t *testing.T) {
	t.Run("Prunes unsatisfiable nodes", func(t *testing.T) {
		f, err := Load(strings.NewReader(nodesJSON), LoadOptions{})
		require.NoError(t, err)

		// GD trusts only an undeclared validator, GE has no quorum set.
		require.Equal(t, 3, f.NumberOfNodes())
		assert.Equal(t, "GA", f.PublicKey(0))
		assert.Equal(t, "beta", f.Name(1))
		assert.Equal(t, "GC", f.PublicKey(2))
		assert.Equal(t, []NodeID{0, 1, 2}, f.QuorumMembers(2))
	})

	t.Run("Ignores inactive nodes", func(t *testing.T) {
		f, err := Load(strings.NewReader(nodesJSON), LoadOptions{IgnoreInactive: true})
		require.NoError(t, err)

		require.Equal(t, 2, f.NumberOfNodes())
		assert.Equal(t, []NodeID{0, 1}, f.QuorumMembers(0))
		assert.Equal(t, "GB", f.PublicKey(1))
	})

	t.Run("Malformed input", func(t *testing.T) {
		_, err := Load(strings.NewReader(`{"nodes":`), LoadOptions{})
		assert.Error(t, err)
	})
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("/definitely/not/here.json", LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/definitely/not/here.json")
}
