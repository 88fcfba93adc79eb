package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeZip builds a ZIP archive from the given name->content map and writes
// it to a file in dir, returning the archive path.
func writeZip(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	path := filepath.Join(dir, "test.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestExtractZip(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := writeZip(t, tmpDir, map[string]string{
		"demo-small-en-20170815.sql": "CREATE TABLE bookings (id int);\n",
		"README.txt":                 "demo database\n",
	})

	destDir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	extracted, err := ExtractZip(archivePath, destDir)
	if err != nil {
		t.Fatalf("ExtractZip: %v", err)
	}

	if len(extracted) != 2 {
		t.Fatalf("expected 2 extracted files, got %d: %v", len(extracted), extracted)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "demo-small-en-20170815.sql"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "CREATE TABLE bookings (id int);\n" {
		t.Errorf("content mismatch: %q", string(data))
	}
}

func TestExtractZipNestedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := writeZip(t, tmpDir, map[string]string{
		"sql/schema/tables.sql": "CREATE TABLE t (id int);\n",
		"sql/data/rows.sql":     "INSERT INTO t VALUES (1);\n",
	})

	destDir := filepath.Join(tmpDir, "out")
	if _, err := ExtractZip(archivePath, destDir); err != nil {
		t.Fatalf("ExtractZip: %v", err)
	}

	for _, rel := range []string{"sql/schema/tables.sql", "sql/data/rows.sql"} {
		if _, err := os.Stat(filepath.Join(destDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}
}

func TestExtractZipOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	destDir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stale := filepath.Join(destDir, "file.sql")
	if err := os.WriteFile(stale, []byte("stale content from a previous run"), 0644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	archivePath := writeZip(t, tmpDir, map[string]string{
		"file.sql": "fresh\n",
	})

	if _, err := ExtractZip(archivePath, destDir); err != nil {
		t.Fatalf("ExtractZip: %v", err)
	}

	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "fresh\n" {
		t.Errorf("expected stale file truncated and replaced, got %q", string(data))
	}
}

func TestExtractZipInvalidArchive(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "broken.zip")
	if err := os.WriteFile(archivePath, []byte("this is not a zip file"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ExtractZip(archivePath, tmpDir); err == nil {
		t.Error("expected error for invalid archive")
	}
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := writeZip(t, tmpDir, map[string]string{
		"../escape.sql": "DROP TABLE everything;\n",
	})

	destDir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := ExtractZip(archivePath, destDir); err == nil {
		t.Fatal("expected error for traversal entry")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "escape.sql")); !os.IsNotExist(err) {
		t.Error("traversal entry must not be written outside the destination")
	}
}
