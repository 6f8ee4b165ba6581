package output

import (
	"errors"
	"fmt"
)

// ErrPathExists matches every *PathExistsError via errors.Is.
var ErrPathExists = errors.New("output file already exists")

// PathExistsError refuses to clobber an existing file.
type PathExistsError struct {
	Path string
}

func (e *PathExistsError) Error() string {
	return fmt.Sprintf("%s already exists; rerun with --overwrite to replace it", e.Path)
}

func (e *PathExistsError) Is(target error) bool {
	return target == ErrPathExists
}

// IOError is a file system failure on a specific path.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
