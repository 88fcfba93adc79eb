package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gocloud.dev/blob"
)

// Manifest records the provenance of a fetched dataset: where it came from,
// what the server said about it, and what was actually received.
type Manifest struct {
	SourceURL  string    `json:"source_url"`
	SourceETag string    `json:"source_etag,omitempty"`
	Size       int64     `json:"size"`
	SHA256     string    `json:"sha256"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// FileManifest builds a manifest for an existing local file, computing its
// size and SHA256 digest.
func FileManifest(path, sourceURL, sourceETag string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, f)
	if err != nil {
		return nil, fmt.Errorf("digest %s: %w", path, err)
	}

	return &Manifest{
		SourceURL:  sourceURL,
		SourceETag: sourceETag,
		Size:       size,
		SHA256:     hex.EncodeToString(hash.Sum(nil)),
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// ManifestObject returns the bucket object name the manifest is stored
// under when publishing object.
func ManifestObject(object string) string {
	return object + ".manifest.json"
}

// Publish writes the file at srcPath to the bucket under object, followed
// by the JSON manifest under ManifestObject(object). The manifest is
// written last so its presence marks a complete publish.
func Publish(ctx context.Context, bucket *blob.Bucket, object, srcPath string, m *Manifest) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	w, err := bucket.NewWriter(ctx, object, nil)
	if err != nil {
		return fmt.Errorf("create object %s: %w", object, err)
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("write object %s: %w", object, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", object, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := bucket.WriteAll(ctx, ManifestObject(object), data, nil); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// ReadManifest reads and decodes a published manifest from the bucket.
func ReadManifest(ctx context.Context, bucket *blob.Bucket, object string) (*Manifest, error) {
	data, err := bucket.ReadAll(ctx, ManifestObject(object))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &m, nil
}
