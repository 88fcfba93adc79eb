package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/drws/seedfetch/internal/config"
	"github.com/drws/seedfetch/internal/fetcher"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitNetworkError    = 3
	ExitArchiveError    = 4
	ExitFilesystemError = 5
	ExitStorageError    = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "download":
		return runDownload(cmdArgs)
	case "extract":
		return runExtract(cmdArgs)
	case "promote":
		return runPromote(cmdArgs)
	case "publish":
		return runPublish(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: seedfetch <command> [options]

Commands:
  fetch     Run the full pipeline: download, extract, promote, cleanup
  download  Download the dataset archive into the data directory
  extract   Extract an already-downloaded archive
  promote   Copy the extracted dataset file to the canonical name
  publish   Upload the canonical file and manifest to object storage

Run 'seedfetch <command> -h' for command-specific help.

With no flags, 'seedfetch fetch' downloads the demo dataset from
edu.postgrespro.com into ./data and produces ./data/init.sql.`)
}

// loadConfig resolves configuration: defaults, then the optional YAML file,
// then environment variables. Flag overrides are merged by each command.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()

	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// exitCodeFor maps a pipeline error to its exit code.
func exitCodeFor(err error) int {
	var netErr *fetcher.NetworkError
	if errors.As(err, &netErr) {
		return ExitNetworkError
	}
	var archiveErr *fetcher.ArchiveError
	if errors.As(err, &archiveErr) {
		return ExitArchiveError
	}
	var fsErr *fetcher.FilesystemError
	if errors.As(err, &fsErr) {
		return ExitFilesystemError
	}
	return ExitGeneralError
}
