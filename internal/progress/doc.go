// Package progress provides progress reporting for downloads.
//
// This package outputs human-readable progress information to stderr,
// including completion percentage, transfer speed, and ETA.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalSize: totalBytes,
//	    SourceURL: url,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as bytes arrive
//	reporter.Add(n)
//
// # Output Format
//
//	[seedfetch] Downloading: https://edu.postgrespro.com/demo-small-en.zip
//	[seedfetch] Total size: 21.06 MB
//	[seedfetch] Progress: 45.2% | 9.52 MB / 21.06 MB | Speed: 1.2 MB/s | ETA: 9s
package progress
