package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var dumpCmd = &cobra.Command{
	Use:   "dump CODE",
	Short: "Print the elevation grid of a tile as text",
	Long: `Decode the tile for the Level3 cell containing CODE and print its grid.

Examples:
  gsielev dump 53394536
  gsielev dump 5339-45-36 -o grid.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := mesh.Truncate(args[0], mesh.Level3)
		if err != nil {
			return err
		}

		idx, err := openIndex()
		if err != nil {
			return err
		}
		tile, err := idx.LoadTile(code)
		if err != nil {
			return err
		}
		if tile == nil {
			return fmt.Errorf("%s: %s", mesh.Format(code), gsielev.NoDataLabel)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %dx%d grid, %d samples from offset %d (%s)\n",
			mesh.Format(tile.MeshCode), tile.Cols, tile.Rows, len(tile.Samples), tile.StartOffset, tile.Entry)

		if path, _ := cmd.Flags().GetString("output"); path != "" {
			return writeGridFile(path, tile)
		}
		return gsielev.WriteTextGrid(cmd.OutOrStdout(), tile)
	},
}

// writeGridFile writes the text grid to path. A failed close is reported,
// since it may be the write that failed.
func writeGridFile(path string, tile *gsielev.Tile) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return gsielev.WriteTextGrid(f, tile)
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringP("output", "o", "", "Write the grid to this file instead of stdout")
}
