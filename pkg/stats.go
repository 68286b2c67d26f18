package splendir

import (
	"fmt"
	"strconv"
)

// HistogramBuckets is the number of size buckets in DirectoryStats
const HistogramBuckets = 13

var bucketLabels = [HistogramBuckets]string{
	"0 B",
	"1-9 B",
	"10-99 B",
	"100-999 B",
	"1-9.99 KB",
	"10-99.9 KB",
	"100-999 KB",
	"1-9.99 MB",
	"10-99.9 MB",
	"100-999 MB",
	"1-9.99 GB",
	"10-99.9 GB",
	"100 GB+",
}

// DirectoryStats aggregates counts and sizes for a directory tree. The root
// itself is not counted.
type DirectoryStats struct {
	FileCount      int
	DirectoryCount int
	TotalSize      int64
	// Histogram counts files by decimal order of magnitude, see BucketFor
	Histogram [HistogramBuckets]int
}

// BucketFor returns the histogram bucket for a file size: 0 for empty files,
// otherwise the number of decimal digits, capped at the last bucket.
func BucketFor(size int64) int {
	if size <= 0 {
		return 0
	}
	digits := len(strconv.FormatInt(size, 10))
	if digits >= HistogramBuckets-1 {
		return HistogramBuckets - 1
	}
	return digits
}

// BucketLabel returns the display label of a histogram bucket
func BucketLabel(bucket int) string {
	if bucket < 0 || bucket >= HistogramBuckets {
		return ""
	}
	return bucketLabels[bucket]
}

// TotalItems is FileCount + DirectoryCount
func (s *DirectoryStats) TotalItems() int {
	return s.FileCount + s.DirectoryCount
}

// FormatSize renders TotalSize with binary units
func (s *DirectoryStats) FormatSize() string {
	return FormatFileSize(s.TotalSize)
}

func (s *DirectoryStats) add(e walkEntry) {
	if e.isDir {
		s.DirectoryCount++
		return
	}
	size := e.info.Size()
	s.FileCount++
	s.TotalSize += size
	s.Histogram[BucketFor(size)]++
}

func (s *DirectoryStats) String() string {
	return fmt.Sprintf("%d files, %d directories, %s", s.FileCount, s.DirectoryCount, s.FormatSize())
}

// ScanStats walks root with the same filter as the other scans and folds the
// retained regular files and directories into a DirectoryStats. Entries are
// collected first so progress has a fixed denominator: the number of entries
// retained after filtering.
func (s *DirectoryScanner) ScanStats(root string, progress ProgressCallback) (*DirectoryStats, error) {
	defer VerboseEnter()()

	w, rootEntry, err := s.prepare(root)
	if err != nil {
		return nil, err
	}

	emitter := newProgressEmitter(progress, s.config.Cancel)
	emitter.emit(0, "Counting entries...")

	var entries []walkEntry
	err = w.walk(rootEntry, func(e walkEntry) {
		if e.isDir || e.isRegular() {
			entries = append(entries, e)
		}
	})
	if err != nil {
		return nil, err
	}

	stats := &DirectoryStats{}
	total := len(entries)
	for i, e := range entries {
		if i%statsProgressStride == 0 {
			if w.cancelled() {
				return nil, cancelledError(w.root)
			}
			emitter.emit(float64(i)/float64(total), fmt.Sprintf("Analyzing: %d/%d", i, total))
		}
		stats.add(e)
	}

	if w.cancelled() {
		return nil, cancelledError(w.root)
	}
	emitter.emit(1.0, StatusComplete)
	return stats, nil
}
