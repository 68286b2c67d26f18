package splendir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DirectoryScanner runs detailed, tree and statistics scans under one
// ScannerConfig. A scanner may be reused; each scan builds its own mount
// table and filter.
type DirectoryScanner struct {
	config ScannerConfig
	prober VolumeProber

	mu         sync.Mutex
	lastMounts *MountTable
}

// ScannerOption customises a DirectoryScanner
type ScannerOption func(*DirectoryScanner)

// WithVolumeProber replaces the platform prober used to discover virtual mounts
func WithVolumeProber(p VolumeProber) ScannerOption {
	return func(s *DirectoryScanner) {
		s.prober = p
	}
}

// NewDirectoryScanner creates a scanner for cfg
func NewDirectoryScanner(cfg ScannerConfig, opts ...ScannerOption) *DirectoryScanner {
	s := &DirectoryScanner{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.prober == nil {
		s.prober = NewVolumeProber()
	}
	return s
}

// Config returns a copy of the scanner's configuration
func (s *DirectoryScanner) Config() ScannerConfig {
	return s.config
}

// SkippedPaths returns the virtual mounts and mount-boundary paths excluded
// by the most recent scan.
func (s *DirectoryScanner) SkippedPaths() []string {
	s.mu.Lock()
	mt := s.lastMounts
	s.mu.Unlock()
	return mt.SkippedPaths()
}

// validateRoot resolves root to an absolute directory path
func validateRoot(root string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", nil, newScanError(KindIO, root, err)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, classifyError(abs, err)
	}
	if !info.IsDir() {
		return "", nil, newScanError(KindNotADirectory, abs, nil)
	}
	return abs, info, nil
}

// prepare validates the root and builds the per-scan walker
func (s *DirectoryScanner) prepare(root string) (*walker, walkEntry, error) {
	abs, info, err := validateRoot(root)
	if err != nil {
		return nil, walkEntry{}, err
	}

	if s.config.Ignore != nil {
		if err := s.config.Ignore.LoadIgnorePatterns(); err != nil {
			return nil, walkEntry{}, fmt.Errorf("failed to load ignore patterns: %w", err)
		}
	}

	var mounts *MountTable
	if s.config.SkipVirtualFilesystems || s.config.StayOnFilesystem {
		mounts, err = NewMountTable(abs, s.prober)
		if err != nil {
			return nil, walkEntry{}, classifyError(abs, err)
		}
	}
	s.mu.Lock()
	s.lastMounts = mounts
	s.mu.Unlock()

	w := &walker{
		root:   abs,
		cfg:    s.config,
		filter: NewEntryFilter(abs, s.config, mounts),
	}
	return w, w.rootEntry(info), nil
}
