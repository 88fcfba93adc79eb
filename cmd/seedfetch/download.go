package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/drws/seedfetch/internal/config"
	"github.com/drws/seedfetch/internal/fetcher"
	"github.com/drws/seedfetch/internal/progress"
)

// runDownload performs only the directory-creation and download steps,
// leaving the archive unextracted.
func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	cfgPath := fs.String("config", "", "Path to YAML config file")
	url := fs.String("url", "", "Archive URL (default: the demo-small-en archive)")
	dir := fs.String("dir", "", "Data directory (default: ./data)")
	archiveName := fs.String("archive", "", "Local archive file name")
	showProgress := fs.Bool("progress", false, "Show download progress")
	retryAttempts := fs.Int("retry-attempts", 0, "Max download retry attempts (0 uses the configured default)")
	retryBackoff := fs.Duration("retry-backoff", 0, "Initial retry backoff")
	retryMaxBackoff := fs.Duration("retry-max-backoff", 0, "Max retry backoff")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: seedfetch download [options]

Download the dataset archive into the data directory without extracting it.
Any prior copy of the archive is overwritten.

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
		URL:         *url,
		DataDir:     *dir,
		ArchiveName: *archiveName,
		Progress:    *showProgress,
		Retry: config.RetryConfig{
			Attempts:   *retryAttempts,
			Backoff:    *retryBackoff,
			MaxBackoff: *retryMaxBackoff,
		},
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[seedfetch] Received interrupt, shutting down...")
		cancel()
	}()

	opts := fetcherOptions(cfg)

	if err := fetcher.EnsureDataDir(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	if cfg.Progress {
		var totalSize int64
		if info, err := fetcher.GetFileInfo(ctx, cfg.URL, opts.HTTPOptions); err == nil {
			totalSize = info.Size
		}
		reporter := progress.NewReporter(progress.Options{
			TotalSize: totalSize,
			SourceURL: cfg.URL,
		})
		reporter.Start()
		defer reporter.Stop()
		opts.Progress = reporter
	}

	manifest, err := fetcher.Download(ctx, cfg.URL, opts.ArchivePath(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Fprintf(os.Stderr, "[seedfetch] Downloaded %s -> %s\n",
		progress.FormatBytes(manifest.Size), opts.ArchivePath())
	return ExitSuccess
}
