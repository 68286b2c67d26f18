//go:build darwin

package splendir

import (
	"context"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"
)

var virtualFallbackPaths = []string{"/dev", "/System/Volumes/VM", "/private/var/vm"}

// diskutilTimeout bounds the label lookup subprocess
const diskutilTimeout = 3 * time.Second

type darwinProber struct{}

// NewVolumeProber returns the prober for the running platform
func NewVolumeProber() VolumeProber {
	return darwinProber{}
}

func (darwinProber) VirtualMounts() ([]string, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, err
	}
	buf := make([]unix.Statfs_t, n)
	n, err = unix.Getfsstat(buf, unix.MNT_NOWAIT)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, st := range buf[:n] {
		if IsVirtualFSType(unix.ByteSliceToString(st.Fstypename[:])) {
			out = append(out, unix.ByteSliceToString(st.Mntonname[:]))
		}
	}
	return out, nil
}

func (darwinProber) ProbeVolume(path string) (*VolumeInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		VerboseLog(1, "statfs failed for %s: %v", path, err)
		return unknownVolume(path, "detection failed"), nil
	}

	typeName := unix.ByteSliceToString(st.Fstypename[:])
	fsType, remote := classifyDarwinType(typeName)
	vi := &VolumeInfo{
		FilesystemType: fsType,
		TypeName:       typeName,
		MountPoint:     unix.ByteSliceToString(st.Mntonname[:]),
		IsRemote:       remote || st.Flags&unix.MNT_LOCAL == 0,
	}
	vi.Label = diskutilVolumeName(vi.MountPoint)
	return vi, nil
}

// diskutilVolumeName asks diskutil for the volume name; empty on any failure.
func diskutilVolumeName(mountPoint string) string {
	ctx, cancel := context.WithTimeout(context.Background(), diskutilTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "diskutil", "info", "-plist", mountPoint).Output()
	if err != nil {
		return ""
	}
	name, _ := extractPlistString(string(out), "VolumeName")
	return name
}
