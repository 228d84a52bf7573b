package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dataurlCmd = &cobra.Command{
	Use:   "dataurl [flags] map.json",
	Short: "Render a source map as a base64 data URL",
	Long: `Dataurl re-encodes a source map as a data URL suitable for an inline
//# sourceMappingURL comment. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataURL,
}

func runDataURL(cmd *cobra.Command, args []string) error {
	opts, err := effectiveOptions(cmd)
	if err != nil {
		return err
	}

	sm, err := loadSourceMap(args[0], opts)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	url, err := sm.ToDataURL()
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
