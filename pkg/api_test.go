package splendir

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFile(t *testing.T) {
	testCases := []struct {
		name     string
		isDir    bool
		expected FileType
	}{
		{"src", true, FileTypeDirectory},
		{"main.go", false, FileTypeSourceCode},
		{"PHOTO.JPG", false, FileTypeImage},
		{"backup.tar.gz", false, FileTypeArchive},
		{"config.yaml", false, FileTypeConfig},
		{"notes.md", false, FileTypeDocument},
		{"song.flac", false, FileTypeAudio},
		{"clip.mkv", false, FileTypeVideo},
		{"install.sh", false, FileTypeExecutable},
		{"Makefile", false, FileTypeOther},
		{"data.unknownext", false, FileTypeOther},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyFile(tc.name, tc.isDir), tc.name)
	}

	for _, ft := range AllFileTypes {
		assert.NotEmpty(t, ft.String())
		assert.True(t, strings.HasPrefix(ft.ColorCode(), "\x1b["))
	}
	assert.Equal(t, "\x1b[1;34msrc\x1b[0m", Colorize("src", true))
}

func sampleTree() *TreeNode {
	return &TreeNode{Name: "root", IsDirectory: true, Children: []*TreeNode{
		{Name: "a.go"},
		{Name: "docs", IsDirectory: true, Children: []*TreeNode{
			{Name: "guide.pdf"},
			{Name: "logo.png"},
		}},
		{Name: "b.go"},
	}}
}

func TestCountAndFilterTreeByType(t *testing.T) {
	tree := sampleTree()
	counts := CountFilesByType(tree)
	assert.Equal(t, 2, counts[FileTypeDirectory])
	assert.Equal(t, 2, counts[FileTypeSourceCode])
	assert.Equal(t, 1, counts[FileTypeDocument])
	assert.Equal(t, 1, counts[FileTypeImage])
	assert.Empty(t, CountFilesByType(nil))

	filtered := FilterTreeByType(tree, FileTypeSourceCode)
	assert.Equal(t, 4, filtered.CountNodes())
	assert.Equal(t, "docs", filtered.Children[1].Name)
	assert.Empty(t, filtered.Children[1].Children)
	assert.Equal(t, 6, tree.CountNodes(), "the original tree is untouched")
	assert.Nil(t, FilterTreeByType(nil))

	var depths []int
	tree.Walk(func(_ *TreeNode, depth int) { depths = append(depths, depth) })
	assert.Equal(t, []int{0, 1, 1, 2, 2, 1}, depths)
}

func TestBucketFor(t *testing.T) {
	testCases := []struct {
		size   int64
		bucket int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{9, 1},
		{10, 2},
		{999, 3},
		{1000, 4},
		{1_500_000, 7},
		{99_999_999_999, 11},
		{100_000_000_000, 12},
		{1 << 50, 12},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.bucket, BucketFor(tc.size), "size %d", tc.size)
	}
	assert.Equal(t, "0 B", BucketLabel(0))
	assert.Equal(t, "100 GB+", BucketLabel(HistogramBuckets-1))
	assert.Empty(t, BucketLabel(HistogramBuckets))
}

func TestAnalyzeDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":       "package main",
		"util.go":       "package main",
		"docs/a.pdf":    "%PDF",
		"img/logo.png":  "png",
		".hidden/x.txt": "x",
	})

	var mu sync.Mutex
	var fractions []float64
	analysis, err := AnalyzeDirectory(root, false, -1, func(f float64, _ string) {
		mu.Lock()
		fractions = append(fractions, f)
		mu.Unlock()
	})
	require.NoError(t, err)

	abs, _ := filepath.Abs(root)
	assert.Equal(t, abs, analysis.Path)
	assert.Equal(t, 4, analysis.Stats.FileCount)
	assert.Equal(t, 2, analysis.Stats.DirectoryCount)
	assert.Equal(t, 2, analysis.FileTypeCounts[FileTypeSourceCode])
	assert.Len(t, analysis.FilesByType(FileTypeImage), 1)

	summary := analysis.Summary()
	assert.Contains(t, summary, "Total: 4 files, 2 directories")
	assert.Contains(t, summary, "Source Code: 2")

	require.NotEmpty(t, fractions)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}

	withHidden, err := AnalyzeDirectory(root, true, -1, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, withHidden.Stats.FileCount)
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a", "d/b.txt": "bb"})

	reporter := &ProgressReporter{}
	res, err := NewDirectoryScanner(DefaultScannerConfig()).ScanAll(root, reporter)
	require.NoError(t, err)

	assert.Len(t, res.Files, 2)
	assert.Equal(t, 4, res.Tree.CountNodes())
	assert.Equal(t, 2, res.Stats.FileCount)
	assert.EqualValues(t, 3, res.Stats.TotalSize)

	f, status, ok := reporter.Get()
	assert.True(t, ok)
	assert.InDelta(t, 1.0, f, 1e-9)
	assert.Equal(t, "Phase 3/3: "+StatusComplete, status)

	_, err = NewDirectoryScanner(DefaultScannerConfig()).ScanAll(filepath.Join(root, "nope"), nil)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestPresetsAndConvenience(t *testing.T) {
	fast := ScannerPresets.Fast()
	assert.False(t, fast.DigestSet().Any())
	assert.Equal(t, 3, fast.MaxDepth)

	complete := ScannerPresets.Complete()
	assert.True(t, complete.IncludeDotfiles && complete.FollowSymlinks)
	assert.True(t, complete.CalculateMD5 && complete.CalculateSHA256 && complete.CalculateSHA512)
	assert.True(t, complete.CalculateFormat && complete.CalculateMIME)

	security := ScannerPresets.Security()
	assert.False(t, security.FollowSymlinks)
	assert.True(t, security.IncludeDotfiles)

	assert.Equal(t, 5, ScannerPresets.GUIPreview().MaxDepth)

	root := t.TempDir()
	writeTree(t, root, map[string]string{"one.txt": "1", "sub/two.txt": "2", "sub/deeper/": ""})

	files, dirs, err := QuickDirectoryCount(root)
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, dirs)

	_, _, err = QuickDirectoryCount(filepath.Join(root, "nope"))
	assert.ErrorIs(t, err, ErrPathNotFound)

	stats, err := ScanDirectoryStats(root)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)
	assert.Equal(t, 2, stats.DirectoryCount)

	tree, err := ScanDirectoryTree(root)
	require.NoError(t, err)
	assert.Equal(t, 5, tree.CountNodes())

	records, err := ScanDirectoryDetailed(root)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = ScanWithOptions(root, DefaultScannerConfig().WithMaxDepth(0), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
