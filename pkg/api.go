package splendir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// This file holds the convenience entry points built on DirectoryScanner

// ScanDirectoryDetailed runs a detailed scan with the default configuration
func ScanDirectoryDetailed(path string) ([]FileRecord, error) {
	return NewDirectoryScanner(DefaultScannerConfig()).ScanDetailed(path, nil)
}

// ScanDirectoryTree builds a tree with the default configuration
func ScanDirectoryTree(path string) (*TreeNode, error) {
	return NewDirectoryScanner(DefaultScannerConfig()).ScanTree(path, nil)
}

// ScanDirectoryQuick runs a detailed scan without any hashing
func ScanDirectoryQuick(path string) ([]FileRecord, error) {
	cfg := DefaultScannerConfig().WithHashes(false, false, false)
	return NewDirectoryScanner(cfg).ScanDetailed(path, nil)
}

// ScanDirectoryStats aggregates statistics with the default configuration
func ScanDirectoryStats(path string) (*DirectoryStats, error) {
	return NewDirectoryScanner(DefaultScannerConfig()).ScanStats(path, nil)
}

// ScanWithOptions runs a detailed scan with a caller-supplied configuration
func ScanWithOptions(path string, cfg ScannerConfig, progress ProgressCallback) ([]FileRecord, error) {
	return NewDirectoryScanner(cfg).ScanDetailed(path, progress)
}

// ScannerPresets are ready-made configurations for common jobs
var ScannerPresets = struct {
	// Fast skips hashing and stops three levels down
	Fast func() ScannerConfig
	// Complete includes dotfiles, follows symlinks and computes every digest
	Complete func() ScannerConfig
	// Security includes dotfiles and computes every digest without following symlinks
	Security func() ScannerConfig
	// GUIPreview is a shallow, hash-free scan for interactive previews
	GUIPreview func() ScannerConfig
}{
	Fast: func() ScannerConfig {
		return DefaultScannerConfig().WithHashes(false, false, false).WithMaxDepth(3)
	},
	Complete: func() ScannerConfig {
		return DefaultScannerConfig().
			WithDotfiles(true).
			WithFollowSymlinks(true).
			WithHashes(true, true, true).
			WithFormat(true, true)
	},
	Security: func() ScannerConfig {
		return DefaultScannerConfig().
			WithDotfiles(true).
			WithFollowSymlinks(false).
			WithHashes(true, true, true)
	},
	GUIPreview: func() ScannerConfig {
		return DefaultScannerConfig().WithHashes(false, false, false).WithMaxDepth(5)
	},
}

// DirectoryAnalysis combines statistics, the tree and per-type counts
type DirectoryAnalysis struct {
	Path           string
	Stats          *DirectoryStats
	Tree           *TreeNode
	FileTypeCounts map[FileType]int
}

// AnalyzeDirectory runs a stats and a tree scan with the same policy. A
// negative maxDepth selects AnalysisMaxDepth.
func AnalyzeDirectory(path string, includeHidden bool, maxDepth int, progress ProgressCallback) (*DirectoryAnalysis, error) {
	if maxDepth < 0 {
		maxDepth = AnalysisMaxDepth
	}
	cfg := DefaultScannerConfig().
		WithDotfiles(includeHidden).
		WithMaxDepth(maxDepth).
		WithHashes(false, false, false)
	return AnalyzeWith(NewDirectoryScanner(cfg), path, progress)
}

// AnalyzeWith runs the analysis using an existing scanner
func AnalyzeWith(s *DirectoryScanner, path string, progress ProgressCallback) (*DirectoryAnalysis, error) {
	reporter := &ProgressReporter{}
	forward := func(phase ProgressCallback) ProgressCallback {
		return func(f float64, status string) {
			phase(f, status)
			if progress != nil {
				frac, msg, _ := reporter.Get()
				progress(frac, msg)
			}
		}
	}

	stats, err := s.ScanStats(path, forward(reporter.PhaseCallback(0, 0.5, "Phase 1/2")))
	if err != nil {
		return nil, err
	}
	tree, err := s.ScanTree(path, forward(reporter.PhaseCallback(0.5, 0.5, "Phase 2/2")))
	if err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(path)
	return &DirectoryAnalysis{
		Path:           abs,
		Stats:          stats,
		Tree:           tree,
		FileTypeCounts: CountFilesByType(tree),
	}, nil
}

// Summary renders the analysis as a short multi-line report
func (a *DirectoryAnalysis) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s\n", a.Path)
	fmt.Fprintf(&b, "Total: %d files, %d directories\n", a.Stats.FileCount, a.Stats.DirectoryCount)
	fmt.Fprintf(&b, "Total size: %s\n\n", a.Stats.FormatSize())

	b.WriteString("File types:\n")
	type typeCount struct {
		t FileType
		n int
	}
	var counts []typeCount
	for t, n := range a.FileTypeCounts {
		if t != FileTypeDirectory {
			counts = append(counts, typeCount{t, n})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].n != counts[j].n {
			return counts[i].n > counts[j].n
		}
		return counts[i].t < counts[j].t
	})
	for _, c := range counts {
		fmt.Fprintf(&b, "  %s: %d\n", c.t, c.n)
	}
	return b.String()
}

// FilesByType returns the tree nodes of one category in pre-order
func (a *DirectoryAnalysis) FilesByType(t FileType) []*TreeNode {
	var out []*TreeNode
	a.Tree.Walk(func(n *TreeNode, _ int) {
		if ClassifyFile(n.Name, n.IsDirectory) == t {
			out = append(out, n)
		}
	})
	return out
}

// ScanResults holds the output of all three scan shapes over one root
type ScanResults struct {
	Files []FileRecord
	Tree  *TreeNode
	Stats *DirectoryStats
}

// ScanAll runs the detailed, tree and stats scans in sequence, reporting
// through reporter as three weighted phases.
func (s *DirectoryScanner) ScanAll(root string, reporter *ProgressReporter) (*ScanResults, error) {
	if reporter == nil {
		reporter = &ProgressReporter{}
	}
	res := &ScanResults{}

	files, err := s.ScanDetailed(root, reporter.PhaseCallback(0, 0.4, "Phase 1/3"))
	if err != nil {
		return nil, fmt.Errorf("detailed scan failed: %w", err)
	}
	res.Files = files

	tree, err := s.ScanTree(root, reporter.PhaseCallback(0.4, 0.3, "Phase 2/3"))
	if err != nil {
		return nil, fmt.Errorf("tree scan failed: %w", err)
	}
	res.Tree = tree

	stats, err := s.ScanStats(root, reporter.PhaseCallback(0.7, 0.3, "Phase 3/3"))
	if err != nil {
		return nil, fmt.Errorf("stats scan failed: %w", err)
	}
	res.Stats = stats
	return res, nil
}

// QuickDirectoryCount counts the regular files and directories directly
// inside path, without filtering or recursion.
func QuickDirectoryCount(path string) (files, dirs int, err error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, 0, classifyError(path, err)
	}
	for _, e := range entries {
		switch {
		case e.IsDir():
			dirs++
		case e.Type().IsRegular():
			files++
		}
	}
	return files, dirs, nil
}
