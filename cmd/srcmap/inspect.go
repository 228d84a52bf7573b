package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"srcmap/internal/sourcemap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] map.json",
	Short: "Show how generated code maps back to its sources",
	Long: `Inspect renders a token-by-token view of a source map against the
generated code: original position and snippet on the left, generated
position and snippet on the right. The generated code is read from the
file named by --code, or from the map's "file" field.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("code", "", "path to the generated code file")
	inspectCmd.Flags().Bool("url", false, "print a source-map-visualization URL instead")
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts, err := effectiveOptions(cmd)
	if err != nil {
		return err
	}
	setupColor(opts)

	sm, err := loadSourceMap(args[0], opts)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	codePath, _ := cmd.Flags().GetString("code")
	if codePath == "" {
		codePath = sm.File()
	}
	if codePath == "" {
		return fmt.Errorf("no generated code: pass --code or set \"file\" in the map")
	}
	code, err := os.ReadFile(codePath)
	if err != nil {
		return err
	}

	vis := sourcemap.NewVisualizer(string(code), sm)

	asURL, _ := cmd.Flags().GetBool("url")
	if asURL {
		url, err := vis.URL()
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	}

	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(os.Stdout, "%s -> %s\n", codePath, args[0])
	fmt.Print(vis.Text())
	return nil
}
