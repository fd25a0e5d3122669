package parser

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultNoDataThreshold is the raw value below which a sample is treated as
// missing. Datasets write -9999 for cells without a measurement.
const DefaultNoDataThreshold = -9000.0

// maxLineSize bounds a single line of the text stream.
const maxLineSize = 1024 * 1024

// ParseOptions configures parsing behavior
type ParseOptions struct {
	// NoDataThreshold: raw values strictly below this are stored as NaN
	// Default: -9000
	NoDataThreshold float64

	// Strict: if true, reject tiles whose samples overrun the Cols x Rows grid
	// Default: false (grid bounds are checked at lookup time instead)
	Strict bool
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		NoDataThreshold: DefaultNoDataThreshold,
		Strict:          false,
	}
}

// state is the marker the parser is currently scanning for. Markers appear
// in a fixed document order, so each state is entered exactly once.
type state int

const (
	seekMeshID state = iota
	seekLowerCorner
	seekUpperCorner
	seekGridHigh
	seekDataStart
	readDataRow
	seekStartPoint
	done
)

func (s state) String() string {
	switch s {
	case seekMeshID:
		return "<mesh>"
	case seekLowerCorner:
		return "<gml:lowerCorner>"
	case seekUpperCorner:
		return "<gml:upperCorner>"
	case seekGridHigh:
		return "<gml:high>"
	case seekDataStart:
		return "<gml:tupleList>"
	case readDataRow:
		return "</gml:tupleList>"
	case seekStartPoint:
		return "<gml:startPoint>"
	default:
		return "end of document"
	}
}

const (
	tupleListStart = "<gml:tupleList>"
	tupleListEnd   = "</gml:tupleList>"
)

// Parser decodes elevation tiles from the GML text format.
//
// The matchers are compiled once per Parser and never modified, so a Parser
// may be shared by concurrent callers.
type Parser struct {
	opts       ParseOptions
	meshID     *regexp.Regexp
	lower      *regexp.Regexp
	upper      *regexp.Regexp
	high       *regexp.Regexp
	startPoint *regexp.Regexp
}

// NewParser creates a parser with default options
func NewParser() *Parser {
	return NewParserWithOptions(DefaultParseOptions())
}

// NewParserWithOptions creates a parser with custom options
func NewParserWithOptions(opts ParseOptions) *Parser {
	return &Parser{
		opts:       opts,
		meshID:     regexp.MustCompile(`<mesh>\s*(\d+)\s*</mesh>`),
		lower:      regexp.MustCompile(`<gml:lowerCorner>\s*(-?[\d.]+)\s+(-?[\d.]+)\s*</gml:lowerCorner>`),
		upper:      regexp.MustCompile(`<gml:upperCorner>\s*(-?[\d.]+)\s+(-?[\d.]+)\s*</gml:upperCorner>`),
		high:       regexp.MustCompile(`<gml:high>\s*(\d+)\s+(\d+)\s*</gml:high>`),
		startPoint: regexp.MustCompile(`<gml:startPoint>\s*(\d+)\s+(\d+)\s*</gml:startPoint>`),
	}
}

// Options returns the options the parser was created with.
func (p *Parser) Options() ParseOptions { return p.opts }

// scan holds the per-call parse state.
type scan struct {
	p      *Parser
	state  state
	line   int
	tile   Tile
	lowLat float64
	lowLon float64
}

// Parse reads one tile from r.
//
// Fields are extracted in document order: mesh id, lower corner, upper
// corner, grid high, tuple list, start point. The stream is read only as far
// as the start point. Reaching the end of the stream first returns a
// *MalformedTileError naming the marker that was never found.
func (p *Parser) Parse(r io.Reader) (*Tile, error) {
	// Byte-order marks are dropped; everything else must be UTF-8.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	s := &scan{p: p, state: seekMeshID}
	for s.state != done && sc.Scan() {
		s.line++
		if err := s.consume(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tile: %w", err)
	}
	if s.state != done {
		return nil, &MalformedTileError{Expected: s.state.String(), Line: s.line, Reason: "unexpected end of stream"}
	}

	tile := s.tile
	if err := ValidateTile(&tile, p.opts.Strict); err != nil {
		return nil, err
	}
	return &tile, nil
}

// consume advances the state machine over one line. A line may hold more
// than one marker, so matching resumes after each match.
func (s *scan) consume(line string) error {
	rest := line
	for s.state != done {
		var (
			n   int
			err error
		)
		switch s.state {
		case seekMeshID:
			n, err = s.match(s.p.meshID, rest, func(m []string) error {
				s.tile.MeshCode = m[1]
				return nil
			})
		case seekLowerCorner:
			n, err = s.match(s.p.lower, rest, func(m []string) error {
				var err error
				s.lowLat, s.lowLon, err = s.latLon(m)
				return err
			})
		case seekUpperCorner:
			n, err = s.match(s.p.upper, rest, func(m []string) error {
				lat, lon, err := s.latLon(m)
				if err != nil {
					return err
				}
				s.tile.Extent.MinLon, s.tile.Extent.MinLat = s.lowLon, s.lowLat
				s.tile.Extent.MaxLon, s.tile.Extent.MaxLat = lon, lat
				return nil
			})
		case seekGridHigh:
			n, err = s.match(s.p.high, rest, func(m []string) error {
				x, y, err := s.intPair(m)
				if err != nil {
					return err
				}
				s.tile.Cols, s.tile.Rows = x+1, y+1
				return nil
			})
		case seekDataStart:
			if i := strings.Index(rest, tupleListStart); i >= 0 {
				n = i + len(tupleListStart)
				s.state = readDataRow
			}
		case readDataRow:
			i := strings.Index(rest, tupleListEnd)
			chunk := rest
			if i >= 0 {
				chunk = rest[:i]
			}
			if err := s.row(chunk); err != nil {
				return err
			}
			if i < 0 {
				return nil
			}
			n = i + len(tupleListEnd)
			s.state = seekStartPoint
		case seekStartPoint:
			n, err = s.match(s.p.startPoint, rest, func(m []string) error {
				x, y, err := s.intPair(m)
				if err != nil {
					return err
				}
				s.tile.StartOffset = y*s.tile.Cols + x
				return nil
			})
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		rest = rest[n:]
	}
	return nil
}

// match runs re against text; on a hit it calls apply, advances the state and
// returns the number of bytes consumed. A miss returns 0.
func (s *scan) match(re *regexp.Regexp, text string, apply func([]string) error) (int, error) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, nil
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	if err := apply(groups); err != nil {
		return 0, err
	}
	s.state++
	return loc[1], nil
}

// latLon decodes a corner. The format writes "lat lon".
func (s *scan) latLon(m []string) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(m[1], 64)
	if err == nil {
		lon, err = strconv.ParseFloat(m[2], 64)
	}
	if err != nil {
		return 0, 0, s.malformed(fmt.Sprintf("bad coordinate: %v", err))
	}
	return lat, lon, nil
}

func (s *scan) intPair(m []string) (x, y int, err error) {
	x, err = strconv.Atoi(m[1])
	if err == nil {
		y, err = strconv.Atoi(m[2])
	}
	if err != nil {
		return 0, 0, s.malformed(fmt.Sprintf("bad integer: %v", err))
	}
	return x, y, nil
}

// row parses one "type,value" tuple. Blank text is skipped.
func (s *scan) row(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	kind, raw, ok := strings.Cut(text, ",")
	if !ok {
		return s.malformed(fmt.Sprintf("tuple %q is not type,value", text))
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return s.malformed(fmt.Sprintf("tuple %q: %v", text, err))
	}
	if value < s.p.opts.NoDataThreshold {
		value = math.NaN()
	}
	s.tile.Samples = append(s.tile.Samples, Sample{Value: value, Type: strings.TrimSpace(kind)})
	return nil
}

func (s *scan) malformed(reason string) error {
	return &MalformedTileError{Expected: s.state.String(), Line: s.line, Reason: reason}
}
