package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/drws/seedfetch/internal/config"
	"github.com/drws/seedfetch/internal/fetcher"
)

// runPromote copies the extracted dataset file to the canonical name and
// best-effort deletes the original.
func runPromote(args []string) int {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)

	cfgPath := fs.String("config", "", "Path to YAML config file")
	dir := fs.String("dir", "", "Data directory (default: ./data)")
	datasetFile := fs.String("dataset", "", "Expected extracted dataset file name")
	canonicalFile := fs.String("out", "", "Canonical output file name (default: init.sql)")
	keep := fs.Bool("keep", false, "Keep the original extracted dataset file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: seedfetch promote [options]

Copy the extracted dataset file's bytes to the canonical file name.
The original is then deleted; its absence after promotion is not an error.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return ExitInvalidArgs
	}

	cfg = cfg.Merge(config.Config{
		DataDir:       *dir,
		DatasetFile:   *datasetFile,
		CanonicalFile: *canonicalFile,
		KeepDataset:   *keep,
	})

	opts := fetcherOptions(cfg)

	if err := fetcher.Promote(opts.DatasetPath(), opts.CanonicalPath(), cfg.BufferSize); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	if !cfg.KeepDataset {
		if err := fetcher.Cleanup(opts.DatasetPath()); err != nil {
			fmt.Fprintf(os.Stderr, "[seedfetch] warning: cleanup %s: %v\n", opts.DatasetPath(), err)
		}
	}

	fmt.Fprintf(os.Stderr, "[seedfetch] Promoted %s -> %s\n", opts.DatasetPath(), opts.CanonicalPath())
	return ExitSuccess
}
