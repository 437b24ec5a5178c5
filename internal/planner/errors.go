package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrPinnedColumn: the first column can be neither moved nor deleted.
	ErrPinnedColumn = errors.New("the first column is pinned")
	// ErrTitleLength: column title outside 1..MaxColumnTitle.
	ErrTitleLength = fmt.Errorf("column title must be 1-%d characters", MaxColumnTitle)
	// ErrIndexRange: index outside the column or item list.
	ErrIndexRange = errors.New("index out of range")
	// ErrUnknownColumn and ErrUnknownItem: id not present on the board.
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownItem   = errors.New("unknown item")
)

// LoadError means the initial fetch failed and the board is unusable; callers
// should offer a retry.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return "load board: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError is returned before any state is touched.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError is returned when the backing write failed after the local
// change had been applied. Reverted reports whether the board was restored to
// its state before the operation.
type PersistenceError struct {
	Op       string
	Err      error
	Reverted bool
}

func (e *PersistenceError) Error() string {
	if e.Reverted {
		return e.Op + " not saved, change reverted: " + e.Err.Error()
	}
	return e.Op + " partially saved: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func invalid(op string, err error) error { return &ValidationError{Op: op, Err: err} }

// UserMessage turns an operation error into a line fit for a toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var le *LoadError
	var ve *ValidationError
	var pe *PersistenceError
	switch {
	case errors.As(err, &le):
		return "Could not load your planner. Press r to retry."
	case errors.Is(err, ErrPinnedColumn):
		return "The first column stays in place and cannot be deleted."
	case errors.Is(err, ErrTitleLength):
		return fmt.Sprintf("Column title must be between 1 and %d characters.", MaxColumnTitle)
	case errors.As(err, &ve):
		return "Invalid action: " + ve.Err.Error()
	case errors.As(err, &pe):
		if pe.Reverted {
			return "Could not save your change, it was undone. Please try again."
		}
		return "Some changes were not saved. Reload the board and try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}
