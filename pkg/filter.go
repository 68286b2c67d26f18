package splendir

import (
	"os"
	"path/filepath"
	"strings"
)

// ExclusionReason names the rule that rejected an entry.
type ExclusionReason string

const (
	Included          ExclusionReason = ""
	ExcludedDotfile   ExclusionReason = "dotfile"
	ExcludedVirtualFS ExclusionReason = "virtual filesystem"
	ExcludedMount     ExclusionReason = "mount boundary"
	ExcludedIgnored   ExclusionReason = "ignore pattern"
)

// EntryFilter decides whether a walked entry is part of the scan. All three
// scan shapes consult the same filter so their results agree.
type EntryFilter struct {
	root   string
	cfg    ScannerConfig
	mounts *MountTable
}

// NewEntryFilter builds a filter for an absolute, cleaned root. mounts may be
// nil when neither virtual-filesystem skipping nor StayOnFilesystem is on.
func NewEntryFilter(root string, cfg ScannerConfig, mounts *MountTable) *EntryFilter {
	return &EntryFilter{
		root:   filepath.Clean(root),
		cfg:    cfg,
		mounts: mounts,
	}
}

// Include reports whether the entry at path (rel relative to the root) is kept.
func (f *EntryFilter) Include(path, rel string, info os.FileInfo) bool {
	return f.Check(path, rel, info) == Included
}

// Check applies the rules in order and returns the first that excludes the
// entry, or Included.
func (f *EntryFilter) Check(path, rel string, info os.FileInfo) ExclusionReason {
	if !f.cfg.IncludeDotfiles && hasDotComponent(rel) {
		return ExcludedDotfile
	}

	if f.cfg.SkipVirtualFilesystems && f.mounts != nil {
		if mount, ok := f.mounts.Excludes(path); ok {
			f.mounts.RecordSkip(mount)
			return ExcludedVirtualFS
		}
	}

	if f.cfg.StayOnFilesystem && f.mounts != nil && info != nil {
		if same, known := f.mounts.SameDevice(info); known && !same {
			f.mounts.RecordSkip(path)
			return ExcludedMount
		}
	}

	if f.cfg.Ignore != nil && f.cfg.Ignore.ShouldIgnore(rel) {
		return ExcludedIgnored
	}

	return Included
}

// hasDotComponent reports whether any component of a relative path is hidden.
func hasDotComponent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
