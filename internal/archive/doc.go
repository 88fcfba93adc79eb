// Package archive extracts ZIP archives into a local directory.
//
// Entry names are preserved relative to the destination directory.
// Names that would escape the destination (absolute paths or ".."
// traversal) are rejected before anything is written for that entry.
package archive
