package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [flags] map.json",
	Short: "Decode a source map and print summary statistics",
	Long: `Decode parses a Source Map v3 document, validates its mappings and
prints a summary. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().Bool("mappings", false, "also print the re-encoded mappings string")
}

func runDecode(cmd *cobra.Command, args []string) error {
	opts, err := effectiveOptions(cmd)
	if err != nil {
		return err
	}
	setupColor(opts)

	sm, err := loadSourceMap(args[0], opts)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	heading := color.New(color.Bold)
	heading.Fprintln(os.Stdout, args[0])
	if sm.File() != "" {
		fmt.Printf("  file:    %s\n", sm.File())
	}
	if sm.DebugID() != "" {
		fmt.Printf("  debugId: %s\n", sm.DebugID())
	}
	fmt.Printf("  sources: %d\n", len(sm.Sources()))
	fmt.Printf("  names:   %d\n", len(sm.Names()))
	fmt.Printf("  tokens:  %d\n", sm.TokenCount())
	if list := sm.IgnoreList(); len(list) > 0 {
		fmt.Printf("  ignored: %d\n", len(list))
	}

	withMappings, _ := cmd.Flags().GetBool("mappings")
	if withMappings {
		fmt.Printf("  mappings: %s\n", sm.Mappings())
	}
	return nil
}
