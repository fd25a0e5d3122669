package parser

import (
	"errors"
	"fmt"
)

// ErrMalformedTile is matched by every *MalformedTileError via errors.Is.
var ErrMalformedTile = errors.New("malformed tile")

// MalformedTileError indicates required markup was missing or unreadable.
// Expected names the marker the parser was looking for when it gave up.
type MalformedTileError struct {
	Expected string
	Line     int
	Reason   string
}

func (e *MalformedTileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed tile: line %d: expected %s: %s", e.Line, e.Expected, e.Reason)
	}
	return fmt.Sprintf("malformed tile: expected %s: %s", e.Expected, e.Reason)
}

func (e *MalformedTileError) Is(target error) bool { return target == ErrMalformedTile }

// ErrInvalidTile indicates a parsed tile that violates a grid invariant
type ErrInvalidTile struct {
	MeshCode string
	Reason   string
}

func (e *ErrInvalidTile) Error() string {
	return fmt.Sprintf("invalid tile %s: %s", e.MeshCode, e.Reason)
}

func (e *ErrInvalidTile) Is(target error) bool { return target == ErrMalformedTile }
