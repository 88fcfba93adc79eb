package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/drws/seedfetch/internal/config"
)

// runPublish uploads the canonical file and a provenance manifest to an
// object-storage bucket.
func runPublish(args []string) int {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)

	cfgPath := fs.String("config", "", "Path to YAML config file")
	dir := fs.String("dir", "", "Data directory (default: ./data)")
	canonicalFile := fs.String("file", "", "Canonical file name to publish (default: init.sql)")
	bucket := fs.String("bucket", "", "Destination bucket URL (required unless configured)")
	object := fs.String("object", "", "Destination object path (default: the canonical file name)")
	sourceURL := fs.String("source-url", "", "Source URL recorded in the manifest")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: seedfetch publish [options]

Upload the canonical dataset file to an object-storage bucket (s3://,
gs://, file://) together with a JSON manifest recording its provenance,
for consumers that do not share the local filesystem.

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
		CanonicalFile: *canonicalFile,
		Publish: config.PublishConfig{
			Bucket: *bucket,
			Object: *object,
		},
	})
	if *sourceURL != "" {
		cfg.URL = *sourceURL
	}

	if cfg.Publish.Bucket == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	dest := cfg.Publish.Object
	if dest == "" {
		dest = cfg.CanonicalFile
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	srcPath := filepath.Join(cfg.DataDir, cfg.CanonicalFile)
	return publishCanonical(ctx, cfg.Publish.Bucket, dest, srcPath, cfg.URL, "")
}
