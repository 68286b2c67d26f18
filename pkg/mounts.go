package splendir

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// virtualFSTypes are pseudo filesystems whose contents are not real files.
var virtualFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"devfs":       true,
	"tmpfs":       true,
	"ramfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"securityfs":  true,
	"debugfs":     true,
	"tracefs":     true,
	"configfs":    true,
	"fusectl":     true,
	"pstore":      true,
	"bpf":         true,
	"mqueue":      true,
	"hugetlbfs":   true,
	"autofs":      true,
	"binfmt_misc": true,
	"efivarfs":    true,
	"rpc_pipefs":  true,
	"nsfs":        true,
	"selinuxfs":   true,
}

// IsVirtualFSType reports whether a filesystem type name is a pseudo filesystem
func IsVirtualFSType(fsType string) bool {
	return virtualFSTypes[strings.ToLower(fsType)]
}

// parseMounts reads the /proc/mounts line format:
// "device mountpoint fstype options dump pass", with octal escapes in paths.
func parseMounts(r io.Reader) ([]mountEntry, error) {
	var entries []mountEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, mountEntry{
			Device:     unescapeMountField(fields[0]),
			MountPoint: unescapeMountField(fields[1]),
			FSType:     fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading mount table: %w", err)
	}
	return entries, nil
}

// unescapeMountField decodes the \040-style octal escapes the kernel uses
// for whitespace and backslashes in mount paths.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// virtualMountPoints filters parsed entries down to pseudo filesystem mounts.
func virtualMountPoints(entries []mountEntry) []string {
	var out []string
	for _, e := range entries {
		if IsVirtualFSType(e.FSType) {
			out = append(out, e.MountPoint)
		}
	}
	return out
}

// MountTable is the per-scan view of mounts relevant to the scan root: the
// root's device id and the virtual mount points lying strictly below it. It
// also accumulates the mount points that actually caused an exclusion.
type MountTable struct {
	root          string
	rootDev       uint64
	rootDevKnown  bool
	virtualMounts []string

	mu      sync.Mutex
	skipped map[string]struct{}
}

// NewMountTable builds the table for root. Virtual mounts that contain the
// root (such as a tmpfs holding the whole scan) never exclude anything.
func NewMountTable(root string, prober VolumeProber) (*MountTable, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root %s: %w", root, err)
	}

	mt := &MountTable{
		root:    filepath.Clean(abs),
		skipped: make(map[string]struct{}),
	}

	if info, err := os.Stat(mt.root); err == nil {
		mt.rootDev, mt.rootDevKnown = deviceID(info)
	}

	var candidates []string
	if prober != nil {
		mounts, err := prober.VirtualMounts()
		if err != nil {
			debugLog("mounts", "virtual mount discovery failed, using fallback paths only")
		}
		candidates = append(candidates, mounts...)
	}
	candidates = append(candidates, virtualFallbackPaths...)

	seen := make(map[string]bool)
	for _, m := range candidates {
		m = filepath.Clean(m)
		if seen[m] || !isPathUnder(m, mt.root) {
			continue
		}
		seen[m] = true
		mt.virtualMounts = append(mt.virtualMounts, m)
	}
	sort.Strings(mt.virtualMounts)

	VerboseLog(2, "mount table for %s: %d virtual mount(s) below root", mt.root, len(mt.virtualMounts))
	return mt, nil
}

// Root returns the absolute scan root
func (mt *MountTable) Root() string {
	return mt.root
}

// VirtualMounts returns the virtual mount points below the root
func (mt *MountTable) VirtualMounts() []string {
	return append([]string(nil), mt.virtualMounts...)
}

// Excludes reports whether path is at or under a virtual mount below the
// root, returning the responsible mount point.
func (mt *MountTable) Excludes(path string) (string, bool) {
	if mt == nil {
		return "", false
	}
	for _, m := range mt.virtualMounts {
		if isPathContained(path, m) {
			return m, true
		}
	}
	return "", false
}

// SameDevice compares the device of info with the root's. known is false
// when either id cannot be determined, in which case the rule does not apply.
func (mt *MountTable) SameDevice(info os.FileInfo) (same bool, known bool) {
	if mt == nil || !mt.rootDevKnown {
		return true, false
	}
	dev, ok := deviceID(info)
	if !ok {
		return true, false
	}
	return dev == mt.rootDev, true
}

// RecordSkip notes a mount point or path that was excluded
func (mt *MountTable) RecordSkip(path string) {
	if mt == nil {
		return
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.skipped[path] = struct{}{}
}

// SkippedPaths returns the recorded exclusions in sorted order
func (mt *MountTable) SkippedPaths() []string {
	if mt == nil {
		return nil
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([]string, 0, len(mt.skipped))
	for p := range mt.skipped {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
