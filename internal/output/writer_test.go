package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(base string) Artifacts {
	return Artifacts{
		Base:        base,
		NodeList:    []string{"0,,1\n", "1,,1\n", "2,,1\n"},
		GraphSuffix: "adjacency_list",
		GraphLines:  []string{"0 0 1 2", "1 0 1 2", "2 0 1 2"},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreateOutputDir(t *testing.T) {
	t.Run("Creates parents", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b", "c")
		got, err := CreateOutputDir(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
		assert.DirExists(t, dir)
	})

	t.Run("Defaults to graphs", func(t *testing.T) {
		chdir(t, t.TempDir())
		got, err := CreateOutputDir("")
		require.NoError(t, err)
		assert.Equal(t, DefaultDir, got)
		assert.DirExists(t, DefaultDir)
	})

	t.Run("Fails below a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "plain")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := CreateOutputDir(filepath.Join(file, "sub"))
		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "create directory", ioErr.Op)
	})
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewWriter(dir, false).WriteAll(scenario("fbas_unweighted"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "fbas_unweighted_nodelist.csv"), paths.NodeList)
	assert.Equal(t, filepath.Join(dir, "fbas_unweighted_adjacency_list.csv"), paths.Graph)
	assert.Equal(t, "Id,Label,weight\n0,,1\n1,,1\n2,,1\n", readFile(t, paths.NodeList))
	assert.Equal(t, "0 0 1 2\n1 0 1 2\n2 0 1 2\n", readFile(t, paths.Graph))
}

func TestWriteAll_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := NodeListPath(dir, "fbas_unweighted")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0644))

	_, err := NewWriter(dir, false).WriteAll(scenario("fbas_unweighted"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathExists))

	var exists *PathExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, existing, exists.Path)
	assert.Contains(t, err.Error(), "--overwrite")

	// Neither file is touched.
	assert.Equal(t, "keep me", readFile(t, existing))
	assert.NoFileExists(t, GraphPath(dir, "fbas_unweighted", "adjacency_list"))
}

func TestWriteAll_ReportsEveryConflict(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, false)
	_, err := w.WriteAll(scenario("run"))
	require.NoError(t, err)

	_, err = w.WriteAll(scenario("run"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_nodelist.csv")
	assert.Contains(t, err.Error(), "run_adjacency_list.csv")
}

func TestWriteAll_Overwrite(t *testing.T) {
	dir := t.TempDir()
	existing := NodeListPath(dir, "run")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0644))

	a := scenario("run")
	a.NodeList = []string{"0,GA,0.5\n"}
	_, err := NewWriter(dir, true).WriteAll(a)
	require.NoError(t, err)
	assert.Equal(t, "Id,Label,weight\n0,GA,0.5\n", readFile(t, existing))
}

func TestWriteAll_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(GraphPath(dir, "run", "adjacency_matrix"), 0755))

	a := scenario("run")
	a.GraphSuffix = "adjacency_matrix"
	_, err := NewWriter(dir, true).WriteAll(a)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.NoFileExists(t, NodeListPath(dir, "run"))
}
