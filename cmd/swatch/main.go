// Swatch - a colour palette editor
//
// Swatch generates, edits and exports colour palettes, with lockable
// colours, undo history, shade ramps and colour vision simulation.
package main

import (
	"os"

	"github.com/jmylchreest/swatch/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
