package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"srcmap/internal/sourcemap"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] map.json:offset...",
	Short: "Concatenate source maps into one",
	Long: `Merge combines the maps of concatenated build artifacts into a single
map. Each argument is a map path with the generated-line offset at which its
artifact was placed, e.g. "vendor.js.map:0 app.js.map:120". Source and name
ids are renumbered automatically.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "", "write the merged map to this file (default stdout)")
	mergeCmd.Flags().String("file", "", "set the merged map's \"file\" field")
}

func runMerge(cmd *cobra.Command, args []string) error {
	opts, err := effectiveOptions(cmd)
	if err != nil {
		return err
	}
	setupColor(opts)

	inputs := make([]sourcemap.Input, 0, len(args))
	for _, arg := range args {
		path, offset, err := splitMergeArg(arg)
		if err != nil {
			return err
		}
		sm, err := loadSourceMap(path, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		inputs = append(inputs, sourcemap.Input{Map: sm, LineOffset: offset})
	}

	merged := sourcemap.FromSourceMaps(inputs).Build()
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		merged.SetFile(file)
	}

	doc, err := merged.ToJSON()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		fmt.Println(string(doc))
		return nil
	}
	return os.WriteFile(out, doc, 0o644)
}

// splitMergeArg parses "path:offset"; a bare path means offset 0.
func splitMergeArg(arg string) (string, uint32, error) {
	idx := strings.LastIndexByte(arg, ':')
	if idx < 0 {
		return arg, 0, nil
	}
	offset, err := strconv.ParseUint(arg[idx+1:], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("bad offset in %q: %w", arg, err)
	}
	return arg[:idx], uint32(offset), nil
}
