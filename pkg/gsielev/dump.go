package gsielev

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTextGrid renders the tile grid as fixed-width text for inspection.
//
// Each cell is seven characters wide. A ruled line precedes every tenth row
// and "| " precedes every tenth column. Cells before the start point print
// as "*", cells past the sampled data print blank, and missing samples print
// as "nan".
func WriteTextGrid(w io.Writer, t *Tile) error {
	bw := bufio.NewWriter(w)

	for y := 0; y < t.Rows; y++ {
		if y%10 == 0 {
			for x := 0; x < t.Cols; x++ {
				if x%10 == 0 {
					bw.WriteString("| ")
				}
				bw.WriteString("------ ")
			}
			bw.WriteByte('\n')
		}

		for x := 0; x < t.Cols; x++ {
			if x%10 == 0 {
				bw.WriteString("| ")
			}
			pos := t.FlatIndex(x, y)
			switch {
			case pos < 0:
				bw.WriteString("     * ")
			case pos >= len(t.Samples):
				bw.WriteString("       ")
			case t.Samples[pos].Missing():
				bw.WriteString("   nan ")
			default:
				fmt.Fprintf(bw, "%6.1f ", t.Samples[pos].Value)
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
