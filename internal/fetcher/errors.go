package fetcher

import "fmt"

// NetworkError reports a failure of the download step: connection failure,
// a non-success HTTP status, or a failure writing the response body.
//
// Use errors.As to extract this error and inspect the failing URL.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ArchiveError reports an invalid or corrupt archive, or a failure writing
// extracted entries.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// FilesystemError reports a directory creation, copy, or missing-file
// failure outside the download and extraction steps.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
