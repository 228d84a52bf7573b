// Command srcmap inspects, queries and merges Source Map v3 documents.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "srcmap",
	Short: "Source Map v3 toolbox",
	Long:  `srcmap decodes, inspects, queries and merges Source Map v3 documents`,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(dataurlCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "bypass the decoded-map disk cache")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
