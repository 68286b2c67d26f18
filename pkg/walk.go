package splendir

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// walkEntry is one directory child that survived filtering.
type walkEntry struct {
	path string
	rel  string
	name string
	// info describes the symlink target when symlinks are followed,
	// otherwise the entry itself
	info      os.FileInfo
	depth     int
	isDir     bool
	isSymlink bool // a symlink that was not followed
	// ancestors holds the directories from the root down to this one,
	// used to break symlink loops
	ancestors []os.FileInfo
}

func (e walkEntry) isRegular() bool {
	return !e.isSymlink && e.info.Mode().IsRegular()
}

// walker lists directories for one scan: it owns the validated root, the
// filter and the cancellation token.
type walker struct {
	root   string
	cfg    ScannerConfig
	filter *EntryFilter
}

func (w *walker) cancelled() bool {
	return w.cfg.Cancel.IsCancelled()
}

// rootEntry describes the scan root itself at depth 0
func (w *walker) rootEntry(info os.FileInfo) walkEntry {
	return walkEntry{
		path:      w.root,
		rel:       ".",
		name:      filepath.Base(w.root),
		info:      info,
		depth:     0,
		isDir:     true,
		ancestors: []os.FileInfo{info},
	}
}

// listChildren reads dir and returns the children that pass the filter, in
// directory order. Children that vanish or cannot be resolved are logged and
// dropped; only a failure to read dir itself is returned.
func (w *walker) listChildren(dir walkEntry) ([]walkEntry, error) {
	entries, err := os.ReadDir(dir.path)
	if err != nil {
		return nil, err
	}

	children := make([]walkEntry, 0, len(entries))
	for _, de := range entries {
		name := de.Name()
		path := filepath.Join(dir.path, name)
		rel := name
		if dir.rel != "." {
			rel = filepath.Join(dir.rel, name)
		}

		info, err := de.Info()
		if err != nil {
			Logger().Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			continue
		}

		child := walkEntry{
			path:  path,
			rel:   rel,
			name:  name,
			info:  info,
			depth: dir.depth + 1,
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !w.cfg.FollowSymlinks {
				child.isSymlink = true
			} else {
				target, err := os.Stat(path)
				if err != nil {
					Logger().Warn("Skipping broken symlink", zap.String("path", path), zap.Error(err))
					continue
				}
				if target.IsDir() && isAncestor(target, dir.ancestors) {
					Logger().Warn("Skipping symlink loop", zap.String("path", path))
					continue
				}
				child.info = target
			}
		}
		child.isDir = !child.isSymlink && child.info.IsDir()

		if reason := w.filter.Check(path, rel, child.info); reason != Included {
			debugLog("scan", "excluded entry", zap.String("path", path), zap.String("reason", string(reason)))
			continue
		}

		if child.isDir {
			child.ancestors = append(append(make([]os.FileInfo, 0, len(dir.ancestors)+1), dir.ancestors...), child.info)
		}
		children = append(children, child)
	}
	return children, nil
}

// canDescend reports whether a directory entry is within the depth limit.
func (w *walker) canDescend(e walkEntry) bool {
	return e.isDir && w.cfg.depthAllowed(e.depth)
}

// walk visits every retained entry below root in depth-first order, calling
// visit for each. Subdirectories that cannot be read are logged and skipped;
// a root listing failure or cancellation is returned.
func (w *walker) walk(root walkEntry, visit func(walkEntry)) error {
	stack := []walkEntry{root}
	for len(stack) > 0 {
		if w.cancelled() {
			return cancelledError(w.root)
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := w.listChildren(dir)
		if err != nil {
			if dir.depth == 0 {
				return classifyError(dir.path, fmt.Errorf("failed to read directory: %w", err))
			}
			Logger().Warn("Error reading directory", zap.String("path", dir.path), zap.Error(err))
			continue
		}

		for i := len(children) - 1; i >= 0; i-- {
			if w.canDescend(children[i]) {
				stack = append(stack, children[i])
			}
		}
		for _, c := range children {
			visit(c)
		}
	}
	return nil
}

func isAncestor(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}
