package vec

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is matched by every ShapeError through errors.Is.
var ErrInvalidShape = errors.New("invalid shape")

// ShapeError reports a length mismatch between two vectors.
type ShapeError struct {
	Op       string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid shape: expected length %d, got %d", e.Op, e.Expected, e.Actual)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// CheckLen returns a *ShapeError when len(v) != want.
func CheckLen(op string, want int, v []float64) error {
	if len(v) != want {
		return &ShapeError{Op: op, Expected: want, Actual: len(v)}
	}
	return nil
}
