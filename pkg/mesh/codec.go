package mesh

import (
	"fmt"
	"math"
	"strings"
)

// Normalize strips every non-digit character, so "5339-45-36" and
// "5339 4536" both become "53394536".
func Normalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for i := 0; i < len(code); i++ {
		if c := code[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// LevelOf determines the level of a code from its digit count.
//
// A 9-digit code is Integrated2km when its last digit is "5" and Level4 when
// it is one of "1".."4"; anything else is rejected.
func LevelOf(code string) (Level, error) {
	code = Normalize(code)
	switch len(code) {
	case 4:
		return Level1, nil
	case 6:
		return Level2, nil
	case 7:
		return Integrated5km, nil
	case 8:
		return Level3, nil
	case 9:
		switch code[8] {
		case '5':
			return Integrated2km, nil
		case '1', '2', '3', '4':
			return Level4, nil
		}
		return LevelUnknown, &InvalidCodeError{Code: code, Reason: "9-digit code must end in 1-4 or 5"}
	case 10:
		return Level5, nil
	case 11:
		return Level6, nil
	}
	return LevelUnknown, &InvalidCodeError{Code: code, Reason: fmt.Sprintf("unsupported length %d", len(code))}
}

// Validate checks that code is a well-formed code of the given level.
func Validate(code string, level Level) error {
	digits := level.Digits()
	if digits == 0 {
		return &InvalidCodeError{Code: code, Level: level, Reason: "unknown level"}
	}
	if len(code) != digits {
		return &InvalidCodeError{Code: code, Level: level,
			Reason: fmt.Sprintf("expected %d digits, got %d", digits, len(code))}
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return &InvalidCodeError{Code: code, Level: level, Reason: "non-digit character"}
		}
	}
	if len(code) >= 6 {
		// Level2 row and column come from an 8x8 split.
		if code[4] > '7' || code[5] > '7' {
			return &InvalidCodeError{Code: code, Level: level, Reason: "level2 digits must be 0-7"}
		}
	}

	switch level {
	case Level4, Level5, Level6:
		for i := 8; i < digits; i++ {
			if !isQuadrant(code[i]) {
				return &InvalidCodeError{Code: code, Level: level,
					Reason: fmt.Sprintf("quadrant digit %q at position %d must be 1-4", code[i], i)}
			}
		}
	case Integrated2km:
		if code[8] != '5' {
			return &InvalidCodeError{Code: code, Level: level, Reason: "trailing digit must be 5"}
		}
		if (code[6]-'0')%2 != 0 || (code[7]-'0')%2 != 0 {
			return &InvalidCodeError{Code: code, Level: level, Reason: "level3 digits must be even"}
		}
	case Integrated5km:
		if !isQuadrant(code[6]) {
			return &InvalidCodeError{Code: code, Level: level, Reason: "quadrant digit must be 1-4"}
		}
	}
	return nil
}

func isQuadrant(c byte) bool { return c >= '1' && c <= '4' }

// digit returns the integer value of code[i]. The code must already be validated.
func digit(code string, i int) int { return int(code[i] - '0') }

// pair returns the two-digit integer at code[i:i+2].
func pair(code string, i int) int { return digit(code, i)*10 + digit(code, i+1) }

// north and east decode a quadrant digit: 3,4 are the north half, 2,4 the east half.
func north(q byte) int {
	if q == '3' || q == '4' {
		return 1
	}
	return 0
}

func east(q byte) int {
	if q == '2' || q == '4' {
		return 1
	}
	return 0
}

// quadrant is the inverse of north and east.
func quadrant(n, e int) byte { return byte('1' + 2*n + e) }

// scale is the number of Level6 cells along one side of a cell at l.
// Cells are numbered from (100°E, 0°N): cell i of a row spans
// [i*scale/960, (i+1)*scale/960) degrees of latitude and
// [100 + i*scale/640, 100 + (i+1)*scale/640) degrees of longitude.
func scale(l Level) int {
	switch l {
	case Level1:
		return 640
	case Level2:
		return 80
	case Level3:
		return 8
	case Level4:
		return 4
	case Level5:
		return 2
	case Level6:
		return 1
	case Integrated2km:
		return 16
	case Integrated5km:
		return 40
	default:
		return 0
	}
}

// bounds returns the edges of cell i along one axis. Neighbouring cells
// compute their shared edge from the same expression, so they tile exactly.
func bounds(i int, origin, div float64) (lo, hi float64) {
	return origin + float64(i)/div, origin + float64(i+1)/div
}

// cellIndex returns the cell along one axis whose half-open interval holds v.
func cellIndex(v, origin, div float64) int {
	i := int(math.Floor((v - origin) * div))
	for {
		lo, hi := bounds(i, origin, div)
		switch {
		case v < lo:
			i--
		case v >= hi:
			i++
		default:
			return i
		}
	}
}

// ExtentOf returns the bounding extent of a mesh code at any supported level.
func ExtentOf(code string) (Extent, error) {
	code = Normalize(code)
	level, err := LevelOf(code)
	if err != nil {
		return Extent{}, err
	}
	if err := Validate(code, level); err != nil {
		return Extent{}, err
	}

	row, col := pair(code, 0), pair(code, 2)
	switch level {
	case Level1:
		// nothing further
	case Integrated5km:
		row = (row*8+digit(code, 4))*2 + north(code[6])
		col = (col*8+digit(code, 5))*2 + east(code[6])
	default:
		row = row*8 + digit(code, 4)
		col = col*8 + digit(code, 5)
		if level == Level2 {
			break
		}
		row = row*10 + digit(code, 6)
		col = col*10 + digit(code, 7)
		if level == Integrated2km {
			row, col = row/2, col/2
			break
		}
		for i := 8; i < level.Digits(); i++ {
			row = row*2 + north(code[i])
			col = col*2 + east(code[i])
		}
	}

	n := float64(scale(level))
	minLat, maxLat := bounds(row, 0, 960/n)
	minLon, maxLon := bounds(col, 100, 640/n)
	return Extent{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}, nil
}

// Encode returns the code of the cell at level that contains p.
//
// The cell is found by index along each axis and checked against the edges
// ExtentOf reports, so points on a grid line land in the cell to their north
// and east. The integrated grids round the Level3 digit pair down to even
// values and append "5" (Integrated2km), or fold it into a single quadrant
// digit over the Level2 cell (Integrated5km).
func Encode(p Point, level Level) (string, error) {
	n := scale(level)
	if n == 0 {
		return "", &InvalidCodeError{Level: level, Reason: "unknown level"}
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return "", &OutOfRangeError{Point: p}
	}
	if y, x := p.Lat*1.5, p.Lon-100.0; y < 0 || y >= 100 || x < 0 || x >= 100 {
		return "", &OutOfRangeError{Point: p}
	}

	cells := 64000 / n
	row := cellIndex(p.Lat, 0, 960/float64(n))
	col := cellIndex(p.Lon, 100, 640/float64(n))
	if row < 0 || row >= cells || col < 0 || col >= cells {
		return "", &OutOfRangeError{Point: p}
	}

	full := level6Code(row*n, col*n)
	switch level {
	case Integrated2km:
		return full[:8] + "5", nil
	case Integrated5km:
		return full[:6] + string(quadrant(row%2, col%2)), nil
	default:
		return full[:level.Digits()], nil
	}
}

// level6Code spells out the Level6 cell at (row, col).
func level6Code(row, col int) string {
	b := make([]byte, 0, 11)
	b = append(b,
		byte('0'+row/640/10), byte('0'+row/640%10),
		byte('0'+col/640/10), byte('0'+col/640%10),
		byte('0'+row%640/80), byte('0'+col%640/80),
		byte('0'+row%80/8), byte('0'+col%80/8),
		quadrant(row/4%2, col/4%2),
		quadrant(row/2%2, col/2%2),
		quadrant(row%2, col%2))
	return string(b)
}

// Format returns the hyphenated display form of a code: "5339", "5339-45",
// "5339-45-36", "5339-45-36-141". Integrated5km codes render as "5339-45-2".
func Format(code string) string {
	code = Normalize(code)
	var b strings.Builder
	prev := 0
	for _, cut := range []int{4, 6, 8} {
		if len(code) <= cut {
			break
		}
		b.WriteString(code[prev:cut])
		b.WriteByte('-')
		prev = cut
	}
	b.WriteString(code[prev:])
	return b.String()
}

// Truncate returns the prefix of code at a coarser level in the Level1-Level6
// hierarchy. Integrated levels cannot be truncated to.
func Truncate(code string, level Level) (string, error) {
	code = Normalize(code)
	if level < Level1 || level > Level6 {
		return "", &InvalidCodeError{Code: code, Level: level, Reason: "truncation only supports Level1-Level6"}
	}
	from, err := LevelOf(code)
	if err != nil {
		return "", err
	}
	if from < Level1 || from > Level6 || from < level {
		return "", &InvalidCodeError{Code: code, Level: level,
			Reason: fmt.Sprintf("cannot truncate %v code to %v", from, level)}
	}
	return code[:level.Digits()], nil
}
