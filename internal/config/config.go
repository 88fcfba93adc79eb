package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drws/seedfetch/internal/progress"
)

// Default dataset constants matching the published demo archive.
const (
	DefaultURL           = "https://edu.postgrespro.com/demo-small-en.zip"
	DefaultDataDir       = "data"
	DefaultArchiveName   = "demo-small-en.zip"
	DefaultDatasetFile   = "demo-small-en-20170815.sql"
	DefaultCanonicalFile = "init.sql"
)

// Config defines configuration for the seedfetch CLI.
type Config struct {
	URL           string        `yaml:"url"`
	DataDir       string        `yaml:"data_dir"`
	ArchiveName   string        `yaml:"archive_name"`
	DatasetFile   string        `yaml:"dataset_file"`
	CanonicalFile string        `yaml:"canonical_file"`
	BufferSize    int64         `yaml:"buffer_size"`
	Progress      bool          `yaml:"progress"`
	KeepDataset   bool          `yaml:"keep_dataset"`
	Retry         RetryConfig   `yaml:"retry"`
	Publish       PublishConfig `yaml:"publish"`
}

// RetryConfig defines retry behavior for the download step.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// PublishConfig defines the optional object-storage destination for the
// canonical file.
type PublishConfig struct {
	Bucket string `yaml:"bucket"`
	Object string `yaml:"object"`
}

// Default returns a Config with sensible defaults. A zero-flag invocation
// reproduces the reference pipeline exactly.
func Default() Config {
	return Config{
		URL:           DefaultURL,
		DataDir:       DefaultDataDir,
		ArchiveName:   DefaultArchiveName,
		DatasetFile:   DefaultDatasetFile,
		CanonicalFile: DefaultCanonicalFile,
		BufferSize:    4 * 1024 * 1024, // 4MB
		Retry: RetryConfig{
			Attempts:   5,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string byte sizes and durations.
type yamlConfig struct {
	URL           string          `yaml:"url"`
	DataDir       string          `yaml:"data_dir"`
	ArchiveName   string          `yaml:"archive_name"`
	DatasetFile   string          `yaml:"dataset_file"`
	CanonicalFile string          `yaml:"canonical_file"`
	BufferSize    string          `yaml:"buffer_size"`
	Progress      bool            `yaml:"progress"`
	KeepDataset   bool            `yaml:"keep_dataset"`
	Retry         yamlRetryConfig `yaml:"retry"`
	Publish       PublishConfig   `yaml:"publish"`
}

type yamlRetryConfig struct {
	Attempts   *int   `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.DataDir != "" {
		cfg.DataDir = yc.DataDir
	}
	if yc.ArchiveName != "" {
		cfg.ArchiveName = yc.ArchiveName
	}
	if yc.DatasetFile != "" {
		cfg.DatasetFile = yc.DatasetFile
	}
	if yc.CanonicalFile != "" {
		cfg.CanonicalFile = yc.CanonicalFile
	}
	if yc.BufferSize != "" {
		size, err := progress.ParseBytes(yc.BufferSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse buffer_size: %w", err)
		}
		cfg.BufferSize = size
	}
	cfg.Progress = yc.Progress
	cfg.KeepDataset = yc.KeepDataset
	if yc.Retry.Attempts != nil {
		cfg.Retry.Attempts = *yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}
	if yc.Publish.Bucket != "" {
		cfg.Publish.Bucket = yc.Publish.Bucket
	}
	if yc.Publish.Object != "" {
		cfg.Publish.Object = yc.Publish.Object
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SEEDFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SEEDFETCH_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("SEEDFETCH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SEEDFETCH_ARCHIVE_NAME"); v != "" {
		c.ArchiveName = v
	}
	if v := os.Getenv("SEEDFETCH_DATASET_FILE"); v != "" {
		c.DatasetFile = v
	}
	if v := os.Getenv("SEEDFETCH_CANONICAL_FILE"); v != "" {
		c.CanonicalFile = v
	}
	if v := os.Getenv("SEEDFETCH_BUFFER_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse SEEDFETCH_BUFFER_SIZE: %w", err)
		}
		c.BufferSize = size
	}
	if v := os.Getenv("SEEDFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("SEEDFETCH_KEEP_DATASET"); v != "" {
		c.KeepDataset = v == "true" || v == "1"
	}
	if v := os.Getenv("SEEDFETCH_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SEEDFETCH_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("SEEDFETCH_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SEEDFETCH_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("SEEDFETCH_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SEEDFETCH_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}
	if v := os.Getenv("SEEDFETCH_PUBLISH_BUCKET"); v != "" {
		c.Publish.Bucket = v
	}
	if v := os.Getenv("SEEDFETCH_PUBLISH_OBJECT"); v != "" {
		c.Publish.Object = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if c.ArchiveName == "" {
		return errors.New("config: archive_name is required")
	}
	if c.DatasetFile == "" {
		return errors.New("config: dataset_file is required")
	}
	if c.CanonicalFile == "" {
		return errors.New("config: canonical_file is required")
	}
	if c.BufferSize <= 0 {
		return errors.New("config: buffer_size must be positive")
	}
	if c.Retry.Attempts < 0 {
		return errors.New("config: retry.attempts must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.DataDir != "" {
		c.DataDir = override.DataDir
	}
	if override.ArchiveName != "" {
		c.ArchiveName = override.ArchiveName
	}
	if override.DatasetFile != "" {
		c.DatasetFile = override.DatasetFile
	}
	if override.CanonicalFile != "" {
		c.CanonicalFile = override.CanonicalFile
	}
	if override.BufferSize != 0 {
		c.BufferSize = override.BufferSize
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.KeepDataset {
		c.KeepDataset = override.KeepDataset
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	if override.Publish.Bucket != "" {
		c.Publish.Bucket = override.Publish.Bucket
	}
	if override.Publish.Object != "" {
		c.Publish.Object = override.Publish.Object
	}
	return c
}
