package gsielev

import (
	"io/fs"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/beetlebugorg/gsielev/internal/parser"
)

// EnvDataDir names the environment variable consulted when no data
// directory is passed explicitly.
const EnvDataDir = "GSIELEV_DATADIR"

// Options configures an Index or a Store.
type Options struct {
	// DataDir is the directory holding the FG-GML-*-DEM*.zip archives.
	// If empty, EnvDataDir is consulted.
	DataDir string

	// FS overrides DataDir with an arbitrary filesystem (archives at its root).
	// Mostly useful for tests.
	FS fs.FS

	// NoDataThreshold marks raw sample values below it as missing.
	// Nil means parser.DefaultNoDataThreshold (-9000).
	NoDataThreshold *float64

	// StrictTiles rejects tiles whose samples overrun their declared grid.
	StrictTiles bool

	// CacheMemory bounds the Store's tile cache in bytes. Zero means unlimited.
	// Ignored by Index, which holds a single tile.
	CacheMemory int64

	// Logger receives load and lookup diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns options that resolve the data directory from the
// environment and use a 256MB tile cache.
func DefaultOptions() Options {
	return Options{
		CacheMemory: 256 * 1024 * 1024,
	}
}

// ResolveDataDir returns explicit if set, otherwise the value of EnvDataDir.
// A missing or non-directory result is a *ConfigurationError.
func ResolveDataDir(explicit string) (string, error) {
	dir := explicit
	if dir == "" {
		dir = os.Getenv(EnvDataDir)
	}
	if dir == "" {
		return "", &ConfigurationError{
			Reason: "set the data directory with a parameter or the environment variable " + EnvDataDir,
		}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", &ConfigurationError{Reason: "data directory: " + err.Error()}
	}
	if !info.IsDir() {
		return "", &ConfigurationError{Reason: "data directory " + dir + " is not a directory"}
	}
	return dir, nil
}

// filesystem resolves the archive filesystem for the options.
func (o Options) filesystem() (fs.FS, error) {
	if o.FS != nil {
		return o.FS, nil
	}
	dir, err := ResolveDataDir(o.DataDir)
	if err != nil {
		return nil, err
	}
	return os.DirFS(dir), nil
}

func (o Options) parser() *parser.Parser {
	opts := parser.DefaultParseOptions()
	if o.NoDataThreshold != nil {
		opts.NoDataThreshold = *o.NoDataThreshold
	}
	opts.Strict = o.StrictTiles
	return parser.NewParserWithOptions(opts)
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// BatchOptions controls parallel batch sampling.
type BatchOptions struct {
	// Workers specifies the number of sampling goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors continues past points whose lookup fails. Failed points get
	// the no-data sample and their errors are collected.
	// When false, the first error stops the batch.
	SkipErrors bool

	// Progress is an optional callback called after each point.
	// Parameters: (done, total).
	Progress func(done, total int)
}

// DefaultBatchOptions returns batch options with sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}
