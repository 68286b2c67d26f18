//go:build linux

package splendir

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// virtualFallbackPaths are excluded even when the mount table is unreadable.
var virtualFallbackPaths = []string{"/proc", "/sys", "/dev", "/run"}

type linuxProber struct {
	mountsFiles []string
	labelDir    string
}

// NewVolumeProber returns the prober for the running platform
func NewVolumeProber() VolumeProber {
	return &linuxProber{
		mountsFiles: []string{"/proc/self/mounts", "/proc/mounts"},
		labelDir:    "/dev/disk/by-label",
	}
}

func (p *linuxProber) readMounts() ([]mountEntry, error) {
	var lastErr error
	for _, name := range p.mountsFiles {
		f, err := os.Open(name)
		if err != nil {
			lastErr = err
			continue
		}
		entries, err := parseMounts(f)
		f.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return entries, nil
	}
	return nil, fmt.Errorf("no readable mount table: %w", lastErr)
}

func (p *linuxProber) VirtualMounts() ([]string, error) {
	entries, err := p.readMounts()
	if err != nil {
		return nil, err
	}
	return virtualMountPoints(entries), nil
}

func (p *linuxProber) ProbeVolume(path string) (*VolumeInfo, error) {
	entries, err := p.readMounts()
	if err != nil {
		VerboseLog(1, "filesystem detection failed for %s: %v", path, err)
		return unknownVolume(path, "detection failed"), nil
	}
	entry, ok := longestMountMatch(entries, path)
	if !ok {
		return unknownVolume(path, "detection failed"), nil
	}
	vi := classifyLinuxMount(entry)
	vi.Label = p.lookupLabel(entry.Device)
	return vi, nil
}

// lookupLabel resolves a block device to its name under /dev/disk/by-label.
func (p *linuxProber) lookupLabel(device string) string {
	if !strings.HasPrefix(device, "/dev/") {
		return ""
	}
	target, err := filepath.EvalSymlinks(device)
	if err != nil {
		return ""
	}
	links, err := os.ReadDir(p.labelDir)
	if err != nil {
		return ""
	}
	for _, link := range links {
		resolved, err := filepath.EvalSymlinks(filepath.Join(p.labelDir, link.Name()))
		if err != nil || resolved != target {
			continue
		}
		return unescapeUdevLabel(link.Name())
	}
	return ""
}

// unescapeUdevLabel decodes udev's \xNN escapes ("My\x20Disk").
func unescapeUdevLabel(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
