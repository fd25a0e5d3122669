package gsielev

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

const (
	fixtureArchive = "FG-GML-5339-45-DEM5A-20161001.zip"
	fullCell       = "53394536" // 4x3 grid, fully sampled
	partialCell    = "53394537" // 4x3 grid, starts at (1,1)
	waterCell      = "53394535" // no entry in the archive
)

// fullTuples holds one sea-level sample and one missing sample.
var fullTuples = []string{
	"地表面,35.01", "地表面,35.52", "表面,36.00", "地表面,34.90",
	"地表面,33.10", "その他,-9999.", "地表面,32.75", "地表面,32.00",
	"海水面,0.00", "海水面,0.00", "地表面,1.25", "地表面,2.50",
}

var partialTuples = []string{"地表面,12.50", "地表面,13.00", "地表面,14.25"}

// gml renders a compact DEM dataset for code.
func gml(t testing.TB, code string, cols, rows int, tuples []string, startX, startY int) string {
	t.Helper()
	ext, err := mesh.ExtentOf(code)
	if err != nil {
		t.Fatalf("ExtentOf(%s): %v", code, err)
	}
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Dataset>\n<DEM>\n")
	fmt.Fprintf(&b, "<mesh>%s</mesh>\n", code)
	fmt.Fprintf(&b, "<gml:lowerCorner>%.9f %.9f</gml:lowerCorner>\n", ext.MinLat, ext.MinLon)
	fmt.Fprintf(&b, "<gml:upperCorner>%.9f %.9f</gml:upperCorner>\n", ext.MaxLat, ext.MaxLon)
	fmt.Fprintf(&b, "<gml:high>%d %d</gml:high>\n", cols-1, rows-1)
	b.WriteString("<gml:tupleList>\n")
	for _, tu := range tuples {
		b.WriteString(tu)
		b.WriteByte('\n')
	}
	b.WriteString("</gml:tupleList>\n")
	fmt.Fprintf(&b, "<gml:startPoint>%d %d</gml:startPoint>\n", startX, startY)
	b.WriteString("</DEM>\n</Dataset>\n")
	return b.String()
}

// zipArchive packs entries (name -> content) into a zip file.
func zipArchive(t testing.TB, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func entryName(code string) string {
	return "FG-GML-" + mesh.Format(code) + "-DEM5A-20161001.xml"
}

// fixtureFS returns a data filesystem with one archive for Level2 5339-45.
func fixtureFS(t testing.TB) fstest.MapFS {
	t.Helper()
	data := zipArchive(t, map[string]string{
		entryName(fullCell):    gml(t, fullCell, 4, 3, fullTuples, 0, 0),
		entryName(partialCell): gml(t, partialCell, 4, 3, partialTuples, 1, 1),
	})
	return fstest.MapFS{
		fixtureArchive: &fstest.MapFile{Data: data},
		"README.txt":   &fstest.MapFile{Data: []byte("not an archive")},
	}
}

// fixtureDir writes the fixture archive into a temporary directory.
func fixtureDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	data := fixtureFS(t)[fixtureArchive].Data
	if err := os.WriteFile(filepath.Join(dir, fixtureArchive), data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return dir
}

// cellPoint returns the centre of grid cell (col, row) of a cols x rows grid
// laid over the Level3 cell code.
func cellPoint(t testing.TB, code string, cols, rows, col, row int) mesh.Point {
	t.Helper()
	ext, err := mesh.ExtentOf(code)
	if err != nil {
		t.Fatalf("ExtentOf(%s): %v", code, err)
	}
	return mesh.Point{
		Lon: ext.MinLon + (float64(col)+0.5)*ext.Width()/float64(cols),
		Lat: ext.MaxLat - (float64(row)+0.5)*ext.Height()/float64(rows),
	}
}

func newFixtureIndex(t testing.TB) *Index {
	t.Helper()
	idx, err := NewIndex(Options{FS: fixtureFS(t)})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}
