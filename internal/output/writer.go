// Package output persists the node list and the trust graph as CSV-like
// files under an output directory.
package output

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"fbasgraph/internal/report"
)

// DefaultDir is used when no output directory is given.
const DefaultDir = "graphs"

// CreateOutputDir creates dir and its parents. An empty dir means DefaultDir.
func CreateOutputDir(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &IOError{Path: dir, Op: "create directory", Err: err}
	}
	return dir, nil
}

// NodeListPath is {dir}/{base}_nodelist.csv.
func NodeListPath(dir, base string) string {
	return filepath.Join(dir, base+"_nodelist.csv")
}

// GraphPath is {dir}/{base}_{suffix}.csv, suffix being adjacency_list or
// adjacency_matrix.
func GraphPath(dir, base, suffix string) string {
	return filepath.Join(dir, base+"_"+suffix+".csv")
}

// Artifacts is one run's output.
type Artifacts struct {
	Base        string
	NodeList    []string
	GraphSuffix string
	GraphLines  []string
}

// Paths are the files a successful write produced.
type Paths struct {
	NodeList string
	Graph    string
}

// Writer writes both artifacts of a run into Dir.
type Writer struct {
	Dir       string
	Overwrite bool
}

func NewWriter(dir string, overwrite bool) *Writer {
	return &Writer{Dir: dir, Overwrite: overwrite}
}

// WriteAll checks both targets before touching either, so a refused
// overwrite leaves no partial output. Node list lines carry their own
// newline; graph lines get one appended.
func (w *Writer) WriteAll(a Artifacts) (Paths, error) {
	paths := Paths{
		NodeList: NodeListPath(w.Dir, a.Base),
		Graph:    GraphPath(w.Dir, a.Base, a.GraphSuffix),
	}
	if err := w.Check(paths.NodeList, paths.Graph); err != nil {
		return Paths{}, err
	}

	if err := writeLines(paths.NodeList, report.NodeListHeader+"\n", a.NodeList, ""); err != nil {
		return Paths{}, err
	}
	if err := writeLines(paths.Graph, "", a.GraphLines, "\n"); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// Check validates every target against the overwrite policy and reports all
// violations together. The existence test is not a lock.
func (w *Writer) Check(paths ...string) error {
	var result *multierror.Error
	for _, p := range paths {
		if err := w.checkOne(p); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (w *Writer) checkOne(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return &IOError{Path: path, Op: "stat", Err: err}
	case info.IsDir():
		return &IOError{Path: path, Op: "write", Err: errors.New("target is a directory")}
	case !w.Overwrite:
		return &PathExistsError{Path: path}
	default:
		return nil
	}
}

func writeLines(path, header string, lines []string, terminator string) (retErr error) {
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil && retErr == nil {
			retErr = &IOError{Path: path, Op: "close", Err: err}
		}
	}()

	buf := bufio.NewWriter(file)
	if header != "" {
		if _, err := buf.WriteString(header); err != nil {
			return &IOError{Path: path, Op: "write", Err: err}
		}
	}
	for _, line := range lines {
		if _, err := buf.WriteString(line + terminator); err != nil {
			return &IOError{Path: path, Op: "write", Err: err}
		}
	}
	if err := buf.Flush(); err != nil {
		return &IOError{Path: path, Op: "flush", Err: err}
	}
	return nil
}
