package diskfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDecodeTimeout = errors.New("decode did not complete in time")
	ErrControl       = errors.New("file chooser failed")
	ErrNilControl    = errors.New("no file chooser configured")
)

// FileError is the outcome of one file that produced no result.
type FileError struct {
	Filename string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// PartialError is returned by PickMany next to whatever results did
// complete.
type PartialError struct {
	Total    int
	Failures []*FileError
}

func (e *PartialError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Error())
	}
	return fmt.Sprintf("%d of %d files not read: %s", len(e.Failures), e.Total, strings.Join(names, "; "))
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Pending lists the files that were still being read when the decode
// timeout fired.
func (e *PartialError) Pending() []string {
	var out []string
	for _, f := range e.Failures {
		if errors.Is(f.Err, ErrDecodeTimeout) {
			out = append(out, f.Filename)
		}
	}
	return out
}
