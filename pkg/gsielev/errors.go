package gsielev

import (
	"errors"
	"fmt"

	"github.com/beetlebugorg/gsielev/internal/parser"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var (
	// ErrConfiguration is matched by *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataNotAvailable is matched by *DataNotAvailableError.
	ErrDataNotAvailable = errors.New("data not available")

	// ErrMalformedTile indicates a tile whose markup could not be decoded.
	ErrMalformedTile = parser.ErrMalformedTile

	// ErrInvalidMeshCode indicates a code with the wrong length or digits.
	ErrInvalidMeshCode = mesh.ErrInvalidMeshCode

	// ErrOutOfRange indicates a point the mesh system cannot encode.
	ErrOutOfRange = mesh.ErrOutOfRange
)

// ConfigurationError indicates the data directory could not be resolved.
// It is returned at construction, before any query runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DataNotAvailableError indicates no archive is provisioned for the Level2
// region containing a query. It is never retried automatically: the archive
// must be downloaded and placed in the data directory.
type DataNotAvailableError struct {
	Code    string // Level2 code, hyphenated (e.g. "5339-45")
	Pattern string // archive name pattern that matched nothing
}

func (e *DataNotAvailableError) Error() string {
	return fmt.Sprintf("archive for code %s is not available (expected %s); download it into the data directory",
		e.Code, e.Pattern)
}

func (e *DataNotAvailableError) Is(target error) bool { return target == ErrDataNotAvailable }
