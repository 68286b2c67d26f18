package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	splendir "github.com/mattkeenan/splendir/pkg"
)

func testTree() *splendir.TreeNode {
	return &splendir.TreeNode{Name: "project", IsDirectory: true, Children: []*splendir.TreeNode{
		{Name: "README.md"},
		{Name: "src", IsDirectory: true, Children: []*splendir.TreeNode{
			{Name: "main.go"},
			{Name: "util.go"},
		}},
		{Name: "go.mod"},
	}}
}

func TestTreeFormatterUnicode(t *testing.T) {
	got := newTreeFormatter(false, false).Format(testTree())
	expected := strings.Join([]string{
		"project",
		"├─── README.md",
		"├─── src",
		"│   ├─── main.go",
		"│   └─── util.go",
		"└─── go.mod",
		"",
	}, "\n")
	if got != expected {
		t.Errorf("Unexpected tree output:\n%s\nExpected:\n%s", got, expected)
	}
}

func TestTreeFormatterASCII(t *testing.T) {
	got := newTreeFormatter(false, true).Format(testTree())
	if !strings.Contains(got, "|   `--- util.go\n") {
		t.Errorf("Expected ASCII connectors in output:\n%s", got)
	}
	if strings.ContainsAny(got, "├└│") {
		t.Errorf("ASCII output must not contain box drawing characters:\n%s", got)
	}
}

func TestTreeFormatterColor(t *testing.T) {
	got := newTreeFormatter(true, false).Format(testTree())
	if !strings.Contains(got, splendir.Colorize("src", true)) {
		t.Errorf("Expected colorized directory name in output:\n%q", got)
	}
	if !strings.HasPrefix(got, splendir.Colorize("project", true)+"\n") {
		t.Errorf("Expected colorized root first:\n%q", got)
	}
}

func TestWriteRecords(t *testing.T) {
	root := filepath.FromSlash("/data")
	records := []splendir.FileRecord{
		{
			Name:     "a.txt",
			Path:     filepath.Join(root, "a.txt"),
			Size:     1536,
			Modified: time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local),
			SHA256:   "abc123",
			MD5:      splendir.NotCalculated,
		},
		{
			Name:   "b.bin",
			Path:   filepath.Join(root, "sub", "b.bin"),
			Size:   10,
			SHA256: "def456",
		},
	}
	cfg := splendir.DefaultScannerConfig()

	var buf bytes.Buffer
	if err := writeRecords(&buf, records, root, cfg); err != nil {
		t.Fatalf("writeRecords failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"PATH", "SHA256", "a.txt", "sub/b.bin", "1.5 KiB", "2024-03-01 12:30:00", "Unknown", "abc123", "2 files"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MD5") {
		t.Errorf("MD5 column should be omitted when not calculated:\n%s", out)
	}
}

func TestWriteStats(t *testing.T) {
	stats := &splendir.DirectoryStats{FileCount: 1234, DirectoryCount: 5, TotalSize: 2048}
	stats.Histogram[splendir.BucketFor(2048)] = 1234

	var buf bytes.Buffer
	writeStats(&buf, stats)
	out := buf.String()

	for _, want := range []string{"Files:       1,234", "Directories: 5", "2.0 KiB", "1-9.99 KB"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0 B ") {
		t.Errorf("Empty buckets should be omitted:\n%s", out)
	}
}

func TestWriteVolumeInfo(t *testing.T) {
	var buf bytes.Buffer
	writeVolumeInfo(&buf, &splendir.VolumeInfo{FilesystemType: splendir.FSNTFS, MountPoint: "/win"})
	out := buf.String()

	for _, want := range []string{"Filesystem:  NTFS", "Mount point: /win", "Label:       (none)", "MFT support: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}
