package gsielev

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// Location identifies where the dataset for a Level3 cell lives.
//
// Archive is set whenever the Level2 region is provisioned. Entry is empty
// when the archive carries no dataset for the cell (open water, or outside
// the surveyed area).
type Location struct {
	Code    string // Level3 code
	Archive string // archive path relative to the data filesystem
	Entry   string // entry name inside the archive
}

// Found reports whether a dataset entry was located.
func (l Location) Found() bool { return l.Entry != "" }

// Locator resolves Level3 codes to archive entries in a data filesystem.
//
// Archives follow the GSI naming FG-GML-{aaaa}-{bb}-DEM{product}.zip and sit at
// the root of the filesystem. When several products cover one region the
// lexically first archive wins.
type Locator struct {
	fsys fs.FS
}

// NewLocator returns a locator over fsys.
func NewLocator(fsys fs.FS) *Locator {
	return &Locator{fsys: fsys}
}

// ArchivePattern returns the glob matching archives for the Level2 region
// containing code.
func ArchivePattern(code string) (string, error) {
	l2, err := mesh.Truncate(code, mesh.Level2)
	if err != nil {
		return "", err
	}
	return "FG-GML-" + mesh.Format(l2) + "-DEM*.zip", nil
}

// EntryPattern returns the regular expression matching dataset entries for
// the Level3 cell containing code.
func EntryPattern(code string) (*regexp.Regexp, error) {
	l3, err := mesh.Truncate(code, mesh.Level3)
	if err != nil {
		return nil, err
	}
	return regexp.Compile(`^.*FG-GML-` + regexp.QuoteMeta(mesh.Format(l3)) + `-.*\.xml$`)
}

// Locate finds the archive and entry for the Level3 cell containing code.
//
// A missing archive is a *DataNotAvailableError. A present archive without a
// matching entry yields a Location whose Found reports false.
func (l *Locator) Locate(code string) (Location, error) {
	l3, err := mesh.Truncate(code, mesh.Level3)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Code: l3}

	pattern, err := ArchivePattern(l3)
	if err != nil {
		return loc, err
	}
	matches, err := fs.Glob(l.fsys, pattern)
	if err != nil {
		return loc, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		l2, _ := mesh.Truncate(l3, mesh.Level2)
		return loc, &DataNotAvailableError{Code: mesh.Format(l2), Pattern: pattern}
	}
	sort.Strings(matches)
	loc.Archive = matches[0]

	entryRe, err := EntryPattern(l3)
	if err != nil {
		return loc, err
	}
	zr, closer, err := l.openArchive(loc.Archive)
	if err != nil {
		return loc, err
	}
	defer closer.Close()

	for _, f := range zr.File {
		if entryRe.MatchString(f.Name) {
			loc.Entry = f.Name
			break
		}
	}
	return loc, nil
}

// Open returns a reader over the dataset entry of loc. The caller must close it.
func (l *Locator) Open(loc Location) (io.ReadCloser, error) {
	if !loc.Found() {
		return nil, fmt.Errorf("no dataset entry for %s", loc.Code)
	}
	zr, closer, err := l.openArchive(loc.Archive)
	if err != nil {
		return nil, err
	}
	f, err := zr.Open(loc.Entry)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open %s in %s: %w", loc.Entry, loc.Archive, err)
	}
	return &entryReader{ReadCloser: f, archive: closer}, nil
}

// openArchive opens name as a zip archive. Files that support random access
// are read in place; anything else is buffered in memory.
func (l *Locator) openArchive(name string) (*zip.Reader, io.Closer, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat archive %s: %w", name, err)
	}

	ra, ok := f.(io.ReaderAt)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("read archive %s: %w", name, err)
		}
		ra = bytes.NewReader(data)
	}

	zr, err := zip.NewReader(ra, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read archive %s: %w", name, err)
	}
	return zr, f, nil
}

// entryReader closes the archive file along with the entry.
type entryReader struct {
	io.ReadCloser
	archive io.Closer
}

func (r *entryReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
