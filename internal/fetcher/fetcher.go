package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/drws/seedfetch/internal/archive"
	fetchhttp "github.com/drws/seedfetch/internal/http"
	"github.com/drws/seedfetch/internal/progress"
)

// Options configures the fetch pipeline.
type Options struct {
	// DataDir is the local output directory.
	DataDir string

	// ArchiveName is the file name the downloaded archive is stored under
	// inside DataDir.
	ArchiveName string

	// DatasetFile is the name of the extracted dataset file expected to
	// appear in DataDir after extraction.
	DatasetFile string

	// CanonicalFile is the name the dataset file is promoted to.
	CanonicalFile string

	// BufferSize is the copy buffer size for download and promotion.
	BufferSize int64

	// Progress is an optional progress reporter fed by the download step.
	Progress *progress.Reporter

	// KeepDataset skips the cleanup step, leaving the original extracted
	// dataset file in place.
	KeepDataset bool

	// HTTPOptions configures the HTTP client.
	HTTPOptions fetchhttp.Options

	// Output is where operational messages (the cleanup warning) are
	// written. Default: os.Stderr
	Output io.Writer
}

func (o *Options) applyDefaults() {
	if o.DataDir == "" {
		o.DataDir = "data"
	}
	if o.ArchiveName == "" {
		o.ArchiveName = "demo-small-en.zip"
	}
	if o.DatasetFile == "" {
		o.DatasetFile = "demo-small-en-20170815.sql"
	}
	if o.CanonicalFile == "" {
		o.CanonicalFile = "init.sql"
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 4 * 1024 * 1024
	}
	if o.Output == nil {
		o.Output = os.Stderr
	}
}

// ArchivePath returns the local path the archive is downloaded to.
func (o Options) ArchivePath() string {
	return filepath.Join(o.DataDir, o.ArchiveName)
}

// DatasetPath returns the path of the extracted dataset file.
func (o Options) DatasetPath() string {
	return filepath.Join(o.DataDir, o.DatasetFile)
}

// CanonicalPath returns the path of the canonical output file.
func (o Options) CanonicalPath() string {
	return filepath.Join(o.DataDir, o.CanonicalFile)
}

// GetFileInfo fetches metadata about the remote archive.
func GetFileInfo(ctx context.Context, url string, httpOpts fetchhttp.Options) (*fetchhttp.FileInfo, error) {
	client := fetchhttp.NewClient(httpOpts)
	return client.Head(ctx, url)
}

// EnsureDataDir creates dir and any missing parents. Succeeds silently if
// the directory already exists.
func EnsureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Path: dir, Err: err}
	}
	return nil
}

// Download issues an HTTP GET for url and streams the body to dest,
// truncating any existing file. The archive's size and digest are recorded
// in the returned manifest.
func Download(ctx context.Context, url, dest string, opts Options) (*Manifest, error) {
	opts.applyDefaults()

	client := fetchhttp.NewClient(opts.HTTPOptions)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("create %s: %w", dest, err)}
	}

	written, digest, err := copyAndDigest(f, resp.Body, opts.BufferSize, opts.Progress)
	if err != nil {
		f.Close()
		return nil, &NetworkError{URL: url, Err: err}
	}

	if err := f.Close(); err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("close %s: %w", dest, err)}
	}

	if resp.ContentLength > 0 && written != resp.ContentLength {
		return nil, &NetworkError{
			URL: url,
			Err: fmt.Errorf("short body: got %d bytes, expected %d", written, resp.ContentLength),
		}
	}

	return &Manifest{
		SourceURL:  url,
		SourceETag: resp.ETag,
		Size:       written,
		SHA256:     digest,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Extract decompresses the archive at archivePath into destDir,
// preserving entry names.
func Extract(archivePath, destDir string) ([]string, error) {
	names, err := archive.ExtractZip(archivePath, destDir)
	if err != nil {
		return nil, &ArchiveError{Path: archivePath, Err: err}
	}
	return names, nil
}

// Promote copies the bytes of src into dst, truncating any existing file.
// The source must exist; dst is neither created nor modified when it does not.
func Promote(src, dst string, bufferSize int64) error {
	if bufferSize <= 0 {
		bufferSize = 4 * 1024 * 1024
	}

	in, err := os.Open(src)
	if err != nil {
		return &FilesystemError{Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &FilesystemError{Path: dst, Err: err}
	}

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		return &FilesystemError{Path: dst, Err: err}
	}

	if err := out.Close(); err != nil {
		return &FilesystemError{Path: dst, Err: err}
	}

	return nil
}

// Cleanup deletes the file at path, best-effort. A missing file is success.
// Any other failure is returned for the caller to log; it is not meant to
// fail the pipeline.
func Cleanup(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Run executes the full pipeline: ensure the data directory, download the
// archive, extract it, promote the dataset file to the canonical name, and
// best-effort delete the original. The first failing step aborts the run;
// only the final cleanup is non-fatal.
func Run(ctx context.Context, url string, opts Options) (*Manifest, error) {
	opts.applyDefaults()

	if err := EnsureDataDir(opts.DataDir); err != nil {
		return nil, err
	}

	manifest, err := Download(ctx, url, opts.ArchivePath(), opts)
	if err != nil {
		return nil, err
	}

	if _, err := Extract(opts.ArchivePath(), opts.DataDir); err != nil {
		return nil, err
	}

	if err := Promote(opts.DatasetPath(), opts.CanonicalPath(), opts.BufferSize); err != nil {
		return nil, err
	}

	if !opts.KeepDataset {
		if err := Cleanup(opts.DatasetPath()); err != nil {
			fmt.Fprintf(opts.Output, "[seedfetch] warning: cleanup %s: %v\n", opts.DatasetPath(), err)
		}
	}

	return manifest, nil
}

// copyAndDigest streams src to dst through a fixed buffer, computing the
// SHA256 digest and feeding the progress reporter as bytes arrive.
func copyAndDigest(dst io.Writer, src io.Reader, bufferSize int64, reporter *progress.Reporter) (int64, string, error) {
	buf := make([]byte, bufferSize)
	hash := sha256.New()
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			hash.Write(buf[:n])
			nw, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, "", fmt.Errorf("write: %w", writeErr)
			}
			written += int64(nw)
			if reporter != nil {
				reporter.Add(int64(nw))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, "", fmt.Errorf("read: %w", readErr)
		}
	}

	return written, hex.EncodeToString(hash.Sum(nil)), nil
}
