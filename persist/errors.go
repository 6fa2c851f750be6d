package persist

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPersistence matches every *Error.
	ErrPersistence = errors.New("persistence error")
	// ErrFormat reports a blob that is not a network encoding this package can
	// read.
	ErrFormat = errors.New("unrecognised network format")
)

// Error wraps an I/O or decoding failure of a named save or load.
type Error struct {
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s network %q: %v", e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrPersistence
}
