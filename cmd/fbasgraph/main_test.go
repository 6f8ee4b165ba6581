package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_WritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "nodes.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
	  {"publicKey": "GA", "quorumSet": {"threshold": 1, "validators": ["GA", "GB"]}},
	  {"publicKey": "GB", "quorumSet": {"threshold": 2, "validators": ["GA", "GB"]}}
	]`), 0644))
	out := filepath.Join(dir, "graphs")

	require.NoError(t, execute([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"--log-level", "error",
		"-o", out,
		"--matrix",
		"unweighted", input,
	}))

	nodes, err := os.ReadFile(filepath.Join(out, "nodes_unweighted_nodelist.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Id,Label,weight\n0,,1\n1,,1\n", string(nodes))

	matrix, err := os.ReadFile(filepath.Join(out, "nodes_unweighted_adjacency_matrix.csv"))
	require.NoError(t, err)
	assert.Equal(t, ";0;1\n0;1;1\n1;1;1\n", string(matrix))

	// A second run without --overwrite is refused.
	assert.Error(t, execute([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"--log-level", "error",
		"-o", out,
		"--matrix",
		"unweighted", input,
	}))
}

func TestRootCommand_InputBeforeAlgorithm(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pair.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
	  {"publicKey": "GA", "quorumSet": {"threshold": 2, "validators": ["GA", "GB"]}},
	  {"publicKey": "GB", "quorumSet": {"threshold": 2, "validators": ["GA", "GB"]}}
	]`), 0644))

	require.NoError(t, execute([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"--log-level", "error",
		"-o", dir,
		input, "unweighted",
	}))

	nodes, err := os.ReadFile(filepath.Join(dir, "pair_unweighted_nodelist.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Id,Label,weight\n0,,1\n1,,1\n", string(nodes))
}

func TestInputAfterCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "input before algorithm",
			args: []string{"-o", "out", "nodes.json", "node-rank", "--overwrite"},
			want: []string{"-o", "out", "node-rank", "nodes.json", "--overwrite"},
		},
		{
			name: "stdin marker before algorithm",
			args: []string{"-", "unweighted"},
			want: []string{"unweighted", "-"},
		},
		{
			name: "flag value is not the input",
			args: []string{"--cache", "scores.db", "unweighted", "nodes.json"},
			want: []string{"--cache", "scores.db", "unweighted", "nodes.json"},
		},
		{
			name: "input after algorithm",
			args: []string{"power-index-approx", "nodes.json", "-s", "10"},
			want: []string{"power-index-approx", "nodes.json", "-s", "10"},
		},
		{
			name: "cache subcommand untouched",
			args: []string{"--cache", "scores.db", "cache", "list"},
			want: []string{"--cache", "scores.db", "cache", "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inputAfterCommand(rootCmd, tt.args))
		})
	}
}

func TestRootCommand_ScoreCache(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trio.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
	  {"publicKey": "GA", "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"]}},
	  {"publicKey": "GB", "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"]}},
	  {"publicKey": "GC", "quorumSet": {"threshold": 2, "validators": ["GA", "GB", "GC"]}}
	]`), 0644))
	db := filepath.Join(dir, "scores.db")
	t.Cleanup(func() { flagCache = "" })

	require.NoError(t, execute([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"--log-level", "error",
		"--cache", db,
		"-o", dir,
		input, "power-index-enum",
	}))
	assert.FileExists(t, db)

	store, err := openCache()
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "power_index_enum", entries[0].Key)
	assert.Equal(t, 3, entries[0].Nodes)
}
