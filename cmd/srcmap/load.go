package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"srcmap/internal/cache"
	"srcmap/internal/config"
	"srcmap/internal/sourcemap"
)

// effectiveOptions merges the config file (searched up from the working
// directory) with the root command's persistent flags.
func effectiveOptions(cmd *cobra.Command) (config.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultOptions(), err
	}
	cfg, _, err := config.Load(wd)
	if err != nil {
		return config.DefaultOptions(), err
	}

	var cli config.MergeOptions
	if flag := cmd.Root().PersistentFlags().Lookup("color"); flag != nil && flag.Changed {
		v := flag.Value.String()
		cli.Color = &v
	}
	cli.NoCache, _ = cmd.Root().PersistentFlags().GetBool("no-cache")

	return cfg.Merge(cli), nil
}

// setupColor applies the color option to the fatih/color global switch.
func setupColor(opts config.Options) {
	switch opts.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

// readInput reads a document from path, or from stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadSourceMap reads and decodes one source map document, going through the
// disk cache when it is enabled. Stdin input is never cached. Cache failures
// fall back to decoding; a broken cache must not break the command.
func loadSourceMap(path string, opts config.Options) (*sourcemap.SourceMap, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	if !opts.CacheEnabled || path == "-" {
		return sourcemap.FromJSON(data)
	}

	dc, err := cache.Open("srcmap", opts.CacheDir)
	if err != nil {
		return sourcemap.FromJSON(data)
	}

	key := cache.Key(data)
	if sm, ok, err := dc.Get(key); err == nil && ok {
		return sm, nil
	}

	sm, err := sourcemap.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := dc.Put(key, sm); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
	}
	return sm, nil
}
