//go:build windows

package splendir

import (
	"golang.org/x/sys/windows"
)

var virtualFallbackPaths []string

type windowsProber struct{}

// NewVolumeProber returns the prober for the running platform
func NewVolumeProber() VolumeProber {
	return windowsProber{}
}

// VirtualMounts is empty: Windows has no pseudo filesystems mounted into the tree.
func (windowsProber) VirtualMounts() ([]string, error) {
	return nil, nil
}

func (windowsProber) ProbeVolume(path string) (*VolumeInfo, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	rootBuf := make([]uint16, windows.MAX_PATH+1)
	if err := windows.GetVolumePathName(pathPtr, &rootBuf[0], uint32(len(rootBuf))); err != nil {
		VerboseLog(1, "GetVolumePathName failed for %s: %v", path, err)
		return unknownVolume(path, "detection failed"), nil
	}
	root := windows.UTF16ToString(rootBuf)

	labelBuf := make([]uint16, windows.MAX_PATH+1)
	fsBuf := make([]uint16, windows.MAX_PATH+1)
	var serial, maxComponent, flags uint32
	if err := windows.GetVolumeInformation(&rootBuf[0], &labelBuf[0], uint32(len(labelBuf)),
		&serial, &maxComponent, &flags, &fsBuf[0], uint32(len(fsBuf))); err != nil {
		VerboseLog(1, "GetVolumeInformation failed for %s: %v", root, err)
		return unknownVolume(root, "detection failed"), nil
	}

	fsName := windows.UTF16ToString(fsBuf)
	return &VolumeInfo{
		FilesystemType: classifyWindowsType(fsName),
		TypeName:       fsName,
		MountPoint:     root,
		Label:          windows.UTF16ToString(labelBuf),
		IsRemote:       windows.GetDriveType(&rootBuf[0]) == windows.DRIVE_REMOTE,
	}, nil
}
