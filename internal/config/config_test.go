package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.URL != "https://edu.postgrespro.com/demo-small-en.zip" {
		t.Errorf("unexpected default URL: %s", cfg.URL)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data dir 'data', got %s", cfg.DataDir)
	}
	if cfg.ArchiveName != "demo-small-en.zip" {
		t.Errorf("unexpected default archive name: %s", cfg.ArchiveName)
	}
	if cfg.DatasetFile != "demo-small-en-20170815.sql" {
		t.Errorf("unexpected default dataset file: %s", cfg.DatasetFile)
	}
	if cfg.CanonicalFile != "init.sql" {
		t.Errorf("expected canonical file 'init.sql', got %s", cfg.CanonicalFile)
	}
	if cfg.BufferSize != 4*1024*1024 {
		t.Errorf("expected default buffer size 4MB, got %d", cfg.BufferSize)
	}
	if cfg.Retry.Attempts != 5 {
		t.Errorf("expected default retry attempts 5, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != time.Second {
		t.Errorf("expected default retry backoff 1s, got %v", cfg.Retry.Backoff)
	}
	if cfg.Retry.MaxBackoff != 30*time.Second {
		t.Errorf("expected default retry max backoff 30s, got %v", cfg.Retry.MaxBackoff)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
url: https://example.com/demo-big-en.zip
data_dir: /var/lib/seed
dataset_file: demo-big-en-20170815.sql
buffer_size: 8MB
progress: true
keep_dataset: true
retry:
  attempts: 10
  backoff: 2s
  max_backoff: 60s
publish:
  bucket: s3://seed-bucket
  object: datasets/init.sql
`
	// Create temp file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.URL != "https://example.com/demo-big-en.zip" {
		t.Errorf("unexpected URL: %s", cfg.URL)
	}
	if cfg.DataDir != "/var/lib/seed" {
		t.Errorf("unexpected data dir: %s", cfg.DataDir)
	}
	if cfg.DatasetFile != "demo-big-en-20170815.sql" {
		t.Errorf("unexpected dataset file: %s", cfg.DatasetFile)
	}
	// Unset keys keep their defaults
	if cfg.ArchiveName != "demo-small-en.zip" {
		t.Errorf("expected default archive name preserved, got %s", cfg.ArchiveName)
	}
	if cfg.CanonicalFile != "init.sql" {
		t.Errorf("expected default canonical file preserved, got %s", cfg.CanonicalFile)
	}
	if cfg.BufferSize != 8*1024*1024 {
		t.Errorf("expected buffer size 8MB, got %d", cfg.BufferSize)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
	if !cfg.KeepDataset {
		t.Error("expected keep_dataset true")
	}
	if cfg.Retry.Attempts != 10 {
		t.Errorf("expected retry attempts 10, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != 2*time.Second {
		t.Errorf("expected retry backoff 2s, got %v", cfg.Retry.Backoff)
	}
	if cfg.Retry.MaxBackoff != 60*time.Second {
		t.Errorf("expected retry max backoff 60s, got %v", cfg.Retry.MaxBackoff)
	}
	if cfg.Publish.Bucket != "s3://seed-bucket" {
		t.Errorf("unexpected publish bucket: %s", cfg.Publish.Bucket)
	}
	if cfg.Publish.Object != "datasets/init.sql" {
		t.Errorf("unexpected publish object: %s", cfg.Publish.Object)
	}
}

func TestLoadFromYAMLZeroRetries(t *testing.T) {
	yamlContent := `
retry:
  attempts: 0
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	// An explicit zero disables retries rather than falling back to the default
	if cfg.Retry.Attempts != 0 {
		t.Errorf("expected retry attempts 0, got %d", cfg.Retry.Attempts)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEEDFETCH_URL", "https://example.com/other.zip")
	t.Setenv("SEEDFETCH_DATA_DIR", "/tmp/seed")
	t.Setenv("SEEDFETCH_BUFFER_SIZE", "1MB")
	t.Setenv("SEEDFETCH_PROGRESS", "true")
	t.Setenv("SEEDFETCH_RETRY_ATTEMPTS", "3")
	t.Setenv("SEEDFETCH_RETRY_BACKOFF", "500ms")
	t.Setenv("SEEDFETCH_RETRY_MAX_BACKOFF", "10s")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.URL != "https://example.com/other.zip" {
		t.Errorf("unexpected URL: %s", cfg.URL)
	}
	if cfg.DataDir != "/tmp/seed" {
		t.Errorf("unexpected data dir: %s", cfg.DataDir)
	}
	if cfg.BufferSize != 1024*1024 {
		t.Errorf("expected buffer size 1MB, got %d", cfg.BufferSize)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
	if cfg.Retry.Attempts != 3 {
		t.Errorf("expected retry attempts 3, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != 500*time.Millisecond {
		t.Errorf("expected retry backoff 500ms, got %v", cfg.Retry.Backoff)
	}
	if cfg.Retry.MaxBackoff != 10*time.Second {
		t.Errorf("expected retry max backoff 10s, got %v", cfg.Retry.MaxBackoff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "missing archive name",
			mutate:  func(c *Config) { c.ArchiveName = "" },
			wantErr: true,
		},
		{
			name:    "missing dataset file",
			mutate:  func(c *Config) { c.DatasetFile = "" },
			wantErr: true,
		},
		{
			name:    "missing canonical file",
			mutate:  func(c *Config) { c.CanonicalFile = "" },
			wantErr: true,
		},
		{
			name:    "invalid buffer size",
			mutate:  func(c *Config) { c.BufferSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative retry attempts",
			mutate:  func(c *Config) { c.Retry.Attempts = -1 },
			wantErr: true,
		},
		{
			name:    "zero retry attempts allowed",
			mutate:  func(c *Config) { c.Retry.Attempts = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	override := Config{
		URL:     "https://example.com/demo-big-en.zip",
		DataDir: "/srv/seed",
		// Leave other fields at zero values
	}

	merged := base.Merge(override)

	// Should use override values
	if merged.URL != "https://example.com/demo-big-en.zip" {
		t.Errorf("expected URL overridden, got %s", merged.URL)
	}
	if merged.DataDir != "/srv/seed" {
		t.Errorf("expected DataDir overridden, got %s", merged.DataDir)
	}

	// Should keep base values for non-overridden fields
	if merged.DatasetFile != base.DatasetFile {
		t.Errorf("expected DatasetFile preserved, got %s", merged.DatasetFile)
	}
	if merged.CanonicalFile != "init.sql" {
		t.Errorf("expected CanonicalFile preserved, got %s", merged.CanonicalFile)
	}
	if merged.BufferSize != base.BufferSize {
		t.Errorf("expected BufferSize preserved, got %d", merged.BufferSize)
	}
	if merged.Retry.Attempts != 5 {
		t.Errorf("expected retry attempts preserved, got %d", merged.Retry.Attempts)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
