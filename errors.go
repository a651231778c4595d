package groupcv

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNGroups is returned when the number of held-out groups is not positive.
	ErrInvalidNGroups = errors.New("n_groups must be positive")

	// ErrInvalidColumn is returned when the group column name is empty.
	ErrInvalidColumn = errors.New("group column name must not be empty")

	// ErrInvalidShuffleMode is returned for an unknown ShuffleMode.
	ErrInvalidShuffleMode = errors.New("invalid shuffle mode")

	// ErrMissingGroups matches every *MissingGroupsError.
	ErrMissingGroups = errors.New("missing groups")

	// ErrInsufficientGroups matches every *InsufficientGroupsError.
	ErrInsufficientGroups = errors.New("insufficient groups")

	// ErrShapeMismatch matches every *ShapeMismatchError.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// MissingGroupsError indicates that no group labels were supplied and the
// dataset has no column with the configured name.
type MissingGroupsError struct {
	Column string
}

func (e *MissingGroupsError) Error() string {
	return fmt.Sprintf("groups must be supplied explicitly or via column %q", e.Column)
}

// Is reports whether target is ErrMissingGroups.
func (e *MissingGroupsError) Is(target error) bool { return target == ErrMissingGroups }

// InsufficientGroupsError indicates there are not more distinct groups than
// the number to hold out, so no fold would keep a non-empty training set.
type InsufficientGroupsError struct {
	Requested int
	Available int
}

func (e *InsufficientGroupsError) Error() string {
	return fmt.Sprintf("cannot hold out %d groups when the total number of groups is %d", e.Requested, e.Available)
}

// Is reports whether target is ErrInsufficientGroups.
func (e *InsufficientGroupsError) Is(target error) bool { return target == ErrInsufficientGroups }

// ShapeMismatchError indicates that dataset, target and groups disagree on
// the number of samples.
type ShapeMismatchError struct {
	// Name is the offending input ("target" or "groups").
	Name     string
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s has %d samples, expected %d", e.Name, e.Actual, e.Expected)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }
