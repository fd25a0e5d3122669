package parser

import (
	"fmt"
)

// ValidateTile checks the grid invariants of a parsed tile.
//
// The extent must have positive width and height, and the grid at least one
// row and column. When strict is set the samples must also fit inside the
// grid: 0 <= StartOffset and StartOffset+len(Samples) <= Cols*Rows.
func ValidateTile(tile *Tile, strict bool) error {
	if tile == nil {
		return &ErrInvalidTile{Reason: "tile is nil"}
	}
	if !tile.Extent.IsValid() {
		return &ErrInvalidTile{MeshCode: tile.MeshCode,
			Reason: fmt.Sprintf("degenerate extent %v", tile.Extent)}
	}
	if tile.Cols <= 0 || tile.Rows <= 0 {
		return &ErrInvalidTile{MeshCode: tile.MeshCode,
			Reason: fmt.Sprintf("grid size %dx%d", tile.Cols, tile.Rows)}
	}
	if !strict {
		return nil
	}
	if tile.StartOffset < 0 {
		return &ErrInvalidTile{MeshCode: tile.MeshCode,
			Reason: fmt.Sprintf("negative start offset %d", tile.StartOffset)}
	}
	if end := tile.StartOffset + len(tile.Samples); end > tile.Cols*tile.Rows {
		return &ErrInvalidTile{MeshCode: tile.MeshCode,
			Reason: fmt.Sprintf("%d samples from offset %d overrun %dx%d grid",
				len(tile.Samples), tile.StartOffset, tile.Cols, tile.Rows)}
	}
	return nil
}
