package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/drws/seedfetch/internal/config"
	"github.com/drws/seedfetch/internal/fetcher"
	fetchhttp "github.com/drws/seedfetch/internal/http"
	"github.com/drws/seedfetch/internal/progress"
)

// runFetch executes the full pipeline: ensure the data directory, download
// the archive, extract it, promote the dataset file to the canonical name,
// and delete the original. With publish configured, the canonical file and
// its manifest are uploaded afterwards.
func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	cfgPath := fs.String("config", "", "Path to YAML config file")
	url := fs.String("url", "", "Archive URL (default: the demo-small-en archive)")
	dir := fs.String("dir", "", "Data directory (default: ./data)")
	archiveName := fs.String("archive", "", "Local archive file name")
	datasetFile := fs.String("dataset", "", "Expected extracted dataset file name")
	canonicalFile := fs.String("out", "", "Canonical output file name (default: init.sql)")
	bufferSize := fs.String("buffer-size", "", "Copy buffer size (e.g. 4MB)")
	showProgress := fs.Bool("progress", false, "Show download progress")
	keep := fs.Bool("keep", false, "Keep the original extracted dataset file")
	retryAttempts := fs.Int("retry-attempts", 0, "Max download retry attempts (0 uses the configured default)")
	retryBackoff := fs.Duration("retry-backoff", 0, "Initial retry backoff")
	retryMaxBackoff := fs.Duration("retry-max-backoff", 0, "Max retry backoff")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: seedfetch fetch [options]

Download the dataset archive, extract it, and promote the dataset file to
the canonical name for the database bootstrap to consume. All options
default to the published demo archive's constants.

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

	override := config.Config{
		URL:           *url,
		DataDir:       *dir,
		ArchiveName:   *archiveName,
		DatasetFile:   *datasetFile,
		CanonicalFile: *canonicalFile,
		Progress:      *showProgress,
		KeepDataset:   *keep,
		Retry: config.RetryConfig{
			Attempts:   *retryAttempts,
			Backoff:    *retryBackoff,
			MaxBackoff: *retryMaxBackoff,
		},
	}
	if *bufferSize != "" {
		size, err := progress.ParseBytes(*bufferSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid buffer size: %v\n", err)
			return ExitInvalidArgs
		}
		override.BufferSize = size
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[seedfetch] Received interrupt, shutting down...")
		cancel()
	}()

	opts := fetcherOptions(cfg)

	// Setup progress reporter
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

	manifest, err := fetcher.Run(ctx, cfg.URL, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Fprintf(os.Stderr, "[seedfetch] Fetched %s (%s) -> %s\n",
		cfg.URL, progress.FormatBytes(manifest.Size), opts.CanonicalPath())

	if cfg.Publish.Bucket != "" {
		object := cfg.Publish.Object
		if object == "" {
			object = cfg.CanonicalFile
		}
		if code := publishCanonical(ctx, cfg.Publish.Bucket, object, opts.CanonicalPath(), cfg.URL, manifest.SourceETag); code != ExitSuccess {
			return code
		}
	}

	return ExitSuccess
}

// fetcherOptions translates config into pipeline options.
func fetcherOptions(cfg config.Config) fetcher.Options {
	return fetcher.Options{
		DataDir:       cfg.DataDir,
		ArchiveName:   cfg.ArchiveName,
		DatasetFile:   cfg.DatasetFile,
		CanonicalFile: cfg.CanonicalFile,
		BufferSize:    cfg.BufferSize,
		KeepDataset:   cfg.KeepDataset,
		HTTPOptions: fetchhttp.Options{
			RetryAttempts:   cfg.Retry.Attempts,
			RetryBackoff:    cfg.Retry.Backoff,
			RetryMaxBackoff: cfg.Retry.MaxBackoff,
			Timeout:         0, // downloads may be long-running
		},
	}
}

// publishCanonical uploads the canonical file and its manifest to the bucket.
func publishCanonical(ctx context.Context, bucketURL, object, srcPath, sourceURL, sourceETag string) int {
	manifest, err := fetcher.FileManifest(srcPath, sourceURL, sourceETag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFilesystemError
	}

	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bkt.Close()

	if err := fetcher.Publish(ctx, bkt, object, srcPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[seedfetch] Published: %s/%s\n", bucketURL, object)
	return ExitSuccess
}
