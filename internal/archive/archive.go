package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts all entries of the ZIP archive at archivePath into
// destDir, preserving entry names. Directory entries are created; file
// entries keep their stored mode. Entry names that would escape destDir
// are rejected.
//
// Returns the extracted file names (archive order, directories excluded).
func ExtractZip(archivePath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	var extracted []string
	for _, entry := range r.File {
		target, err := entryPath(destDir, entry.Name)
		if err != nil {
			return nil, err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("create directory %s: %w", entry.Name, err)
			}
			continue
		}

		if err := extractFile(entry, target); err != nil {
			return nil, err
		}
		extracted = append(extracted, entry.Name)
	}

	return extracted, nil
}

// entryPath resolves an archive entry name inside destDir, rejecting names
// that climb out of it.
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))

	prefix := filepath.Clean(destDir) + string(os.PathSeparator)
	if target != filepath.Clean(destDir) && !strings.HasPrefix(target, prefix) {
		return "", fmt.Errorf("illegal entry path: %s", name)
	}

	return target, nil
}

// extractFile writes a single archive entry to target, truncating any
// existing file.
func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", entry.Name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", entry.Name, err)
	}

	return nil
}
