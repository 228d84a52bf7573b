package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] map.json",
	Short: "Find the original position for a generated position",
	Long: `Lookup resolves a generated (line, column) position back to the
original source position recorded in the map. Positions are zero-based.
The token with the greatest position not exceeding the query wins; columns
extend to the end of their line.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Uint32("line", 0, "generated line (zero-based)")
	lookupCmd.Flags().Uint32("col", 0, "generated column (zero-based)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	opts, err := effectiveOptions(cmd)
	if err != nil {
		return err
	}
	setupColor(opts)

	sm, err := loadSourceMap(args[0], opts)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	line, _ := cmd.Flags().GetUint32("line")
	col, _ := cmd.Flags().GetUint32("col")

	table := sm.GenerateLookupTable()
	view, ok := sm.LookupTokenView(table, line, col)
	if !ok {
		return fmt.Errorf("no mapping at %d:%d", line, col)
	}

	source, _ := view.SourceName()
	fmt.Printf("%d:%d -> %s:%d:%d", line, col, source, view.SrcLine, view.SrcCol)
	if name, ok := view.NameString(); ok {
		fmt.Printf(" (%s)", name)
	}
	fmt.Println()
	return nil
}
