// Package config defines configuration structures for the seedfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (SEEDFETCH_ prefix)
//   - YAML configuration file
//
// All knobs default to the published demo archive's constants, so a
// zero-configuration run fetches demo-small-en.zip into ./data and
// produces ./data/init.sql.
//
// # Structure
//
//	type Config struct {
//	    URL           string
//	    DataDir       string
//	    ArchiveName   string
//	    DatasetFile   string
//	    CanonicalFile string
//	    BufferSize    int64
//	    Progress      bool
//	    KeepDataset   bool
//	    Retry         RetryConfig
//	    Publish       PublishConfig
//	}
package config
