package splendir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasDotComponent(t *testing.T) {
	testCases := map[string]bool{
		"file.txt":          false,
		".hidden":           true,
		"dir/.hidden":       true,
		".dir/file":         true,
		"a/b/c":             false,
		"..":                false,
		".":                 false,
		"a/..weird/b":       true,
		"archive.tar.gz":    false,
		"some.dir/file.txt": false,
	}
	for rel, expected := range testCases {
		assert.Equal(t, expected, hasDotComponent(filepath.FromSlash(rel)), rel)
	}
}

func TestEntryFilterOrder(t *testing.T) {
	root := t.TempDir()
	proc := filepath.Join(root, "proc")
	require.NoError(t, os.MkdirAll(proc, 0755))
	info, err := os.Stat(proc)
	require.NoError(t, err)

	mounts, err := NewMountTable(root, &fakeProber{mounts: []string{proc, filepath.Join(root, ".virt")}})
	require.NoError(t, err)
	ignore, err := NewIgnoreManagerFromPatterns(`^build$`, `\.tmp$`)
	require.NoError(t, err)

	cfg := DefaultScannerConfig().WithIgnore(ignore)
	f := NewEntryFilter(root, cfg, mounts)

	assert.Equal(t, ExcludedVirtualFS, f.Check(proc, "proc", info))
	assert.Equal(t, ExcludedDotfile, f.Check(filepath.Join(root, ".virt"), ".virt", info),
		"the dotfile rule runs before the mount rule")
	assert.Equal(t, ExcludedIgnored, f.Check(filepath.Join(root, "build"), "build", info))
	assert.Equal(t, ExcludedIgnored, f.Check(filepath.Join(root, "src", "x.tmp"), filepath.Join("src", "x.tmp"), info))
	assert.Equal(t, Included, f.Check(filepath.Join(root, "src"), "src", info))
	assert.True(t, f.Include(filepath.Join(root, "src"), "src", info))

	// .virt was rejected as a dotfile, so only proc is recorded as skipped
	assert.Equal(t, []string{proc}, mounts.SkippedPaths())

	withDots := NewEntryFilter(root, cfg.WithDotfiles(true), mounts)
	assert.Equal(t, ExcludedVirtualFS, withDots.Check(filepath.Join(root, ".virt"), ".virt", info))
}

func TestEntryFilterWithoutMounts(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultScannerConfig().WithStayOnFilesystem(true)
	f := NewEntryFilter(root, cfg, nil)
	assert.Equal(t, Included, f.Check(filepath.Join(root, "x"), "x", nil))
}

func TestIgnoreManagerFile(t *testing.T) {
	dir := t.TempDir()
	im := NewIgnoreManager(dir)

	// the first load creates a commented, pattern-free file
	require.NoError(t, im.LoadIgnorePatterns())
	assert.False(t, im.HasPatterns())
	_, err := os.Stat(im.GetIgnoreFilePath())
	require.NoError(t, err)

	require.NoError(t, im.AddPattern(`(^|/)target$`))
	require.NoError(t, im.SaveIgnorePatterns())

	reloaded := NewIgnoreManager(dir)
	assert.True(t, reloaded.HasPatterns())
	assert.True(t, reloaded.ShouldIgnore("target"))
	assert.True(t, reloaded.ShouldIgnore(filepath.Join("crate", "target")))
	assert.False(t, reloaded.ShouldIgnore("targets"))

	require.Error(t, im.AddPattern(`(unclosed`))

	var nilManager *IgnoreManager
	assert.False(t, nilManager.ShouldIgnore("anything"))
	assert.False(t, nilManager.HasPatterns())
}

func TestIgnoreManagerInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore"), []byte("# comment\n\nok$\n[bad\n"), 0644))

	err := NewIgnoreManager(dir).LoadIgnorePatterns()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
}
