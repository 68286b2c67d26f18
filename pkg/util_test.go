package splendir

import (
	"path/filepath"
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		valid    bool
	}{
		{"8K", 8 * 1024, true},
		{"8k", 8 * 1024, true},
		{"2M", 2 * 1024 * 1024, true},
		{"1G", 1024 * 1024 * 1024, true},
		{"64KiB", 64 * 1024, true},
		{"1.5K", 1536, true},
		{"512", 512, true},
		{"512B", 512, true},
		{" 4 MB ", 4 * 1024 * 1024, true},
		{"", 0, false},
		{"K", 0, false},
		{"10X", 0, false},
		{"0", 0, false},
	}

	for _, tc := range testCases {
		got, err := ParseHumanSize(tc.input)
		if tc.valid {
			if err != nil {
				t.Errorf("ParseHumanSize(%q) unexpected error: %v", tc.input, err)
				continue
			}
			if got != tc.expected {
				t.Errorf("ParseHumanSize(%q) = %d, expected %d", tc.input, got, tc.expected)
			}
		} else if err == nil {
			t.Errorf("ParseHumanSize(%q) should fail, got %d", tc.input, got)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{-10, "0 B"},
	}

	for _, tc := range testCases {
		if got := FormatFileSize(tc.size); got != tc.expected {
			t.Errorf("FormatFileSize(%d) = %q, expected %q", tc.size, got, tc.expected)
		}
	}
}

func TestIsPathUnder(t *testing.T) {
	root := filepath.FromSlash("/data/root")
	testCases := []struct {
		child    string
		under    bool
		contains bool
	}{
		{"/data/root/a", true, true},
		{"/data/root/a/b", true, true},
		{"/data/root", false, true},
		{"/data/root/", false, true},
		{"/data/rootfs", false, false},
		{"/data", false, false},
		{"/other/root/a", false, false},
	}

	for _, tc := range testCases {
		child := filepath.FromSlash(tc.child)
		if got := isPathUnder(child, root); got != tc.under {
			t.Errorf("isPathUnder(%q, %q) = %v, expected %v", child, root, got, tc.under)
		}
		if got := isPathContained(child, root); got != tc.contains {
			t.Errorf("isPathContained(%q, %q) = %v, expected %v", child, root, got, tc.contains)
		}
	}
}
