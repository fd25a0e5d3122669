package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMeshCode is matched by every *InvalidCodeError via errors.Is.
	ErrInvalidMeshCode = errors.New("invalid mesh code")

	// ErrOutOfRange is matched by every *OutOfRangeError via errors.Is.
	ErrOutOfRange = errors.New("point outside mesh coverage")
)

// InvalidCodeError indicates a code with the wrong digit count or an invalid
// quadrant or trailing digit.
type InvalidCodeError struct {
	Code   string
	Level  Level
	Reason string
}

func (e *InvalidCodeError) Error() string {
	if e.Level != LevelUnknown {
		return fmt.Sprintf("invalid mesh code %q for %v: %s", e.Code, e.Level, e.Reason)
	}
	return fmt.Sprintf("invalid mesh code %q: %s", e.Code, e.Reason)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidMeshCode }

// OutOfRangeError indicates a point the mesh system cannot encode.
type OutOfRangeError struct {
	Point Point
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("point lat=%f lon=%f outside mesh coverage (lat must be in [0,66.67), lon in [100,200))",
		e.Point.Lat, e.Point.Lon)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }
