// Package fetcher implements the download-extract-promote pipeline.
//
// The pipeline is strictly sequential:
//
//  1. EnsureDataDir creates the output directory (idempotent).
//  2. Download streams the archive to the data directory, truncating any
//     prior copy, and records size and SHA256 in a Manifest.
//  3. Extract unzips the archive into the data directory.
//  4. Promote copies the expected dataset file to the canonical name.
//  5. Cleanup deletes the original dataset file, best-effort.
//
// Run composes the five steps; each is also callable on its own. The first
// failing step aborts the pipeline with a typed error (NetworkError,
// ArchiveError, FilesystemError) extractable with errors.As. Only the
// cleanup step is non-fatal: a missing file is success and any other
// deletion failure is logged as a warning.
//
// Publish optionally uploads the canonical file plus its manifest to a
// gocloud.dev blob bucket for consumers that do not share the local
// filesystem.
package fetcher
