// Package splendir scans directory trees: it lists files with metadata and
// content digests, builds sorted trees, and aggregates size statistics, all
// under one traversal policy.
//
// # Core API
//
// The main entry point is DirectoryScanner, configured by a ScannerConfig:
//
//	cfg := splendir.DefaultScannerConfig().
//		WithHashes(true, true, false).
//		WithMaxDepth(4)
//	scanner := splendir.NewDirectoryScanner(cfg)
//
// # Scan Shapes
//
// A flat listing with digests (hashing runs on a worker pool):
//
//	records, err := scanner.ScanDetailed("/data", nil)
//
// A tree with case-insensitively ordered children:
//
//	tree, err := scanner.ScanTree("/data", nil)
//
// Aggregate counts and a size histogram:
//
//	stats, err := scanner.ScanStats("/data", nil)
//
// # Progress and Cancellation
//
// Every scan accepts a ProgressCallback. A ProgressReporter stores the latest
// value for a polling UI. A CancellationToken shared through the config stops
// a running scan, which then fails with ErrCancelled:
//
//	token := splendir.NewCancellationToken()
//	scanner := splendir.NewDirectoryScanner(cfg.WithCancellation(token))
//	go func() { <-stop; token.Cancel() }()
//	_, err := scanner.ScanDetailed("/data", reporter.Callback())
//	if errors.Is(err, splendir.ErrCancelled) { ... }
//
// # Filtering
//
// Dotfiles, virtual filesystems (procfs, sysfs, tmpfs below the root...),
// other devices when StayOnFilesystem is set, and user ignore patterns are
// excluded identically by all three scan shapes.
//
// # Configuration
//
// LoadConfig reads an ini file; Config.ScannerConfig turns it into a policy.
// Diagnostics go through a zap logger installed with SetLogger:
//
//	splendir.SetLogger(logger)
//	splendir.SetDebugFlags("scan,mounts")
//	splendir.SetVerboseLevel(2)
package splendir
