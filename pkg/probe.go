package splendir

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FilesystemType identifies the kind of volume a path lives on.
type FilesystemType int

const (
	FSUnknown FilesystemType = iota
	FSNTFS
	FSFAT32
	FSExFAT
	FSReFS
	FSExt
	FSBtrfs
	FSXFS
	FSZFS
	FSAPFS
	FSHFSPlus
	FSNetwork
)

var filesystemTypeNames = map[FilesystemType]string{
	FSUnknown: "Unknown",
	FSNTFS:    "NTFS",
	FSFAT32:   "FAT32",
	FSExFAT:   "exFAT",
	FSReFS:    "ReFS",
	FSExt:     "ext2/3/4",
	FSBtrfs:   "Btrfs",
	FSXFS:     "XFS",
	FSZFS:     "ZFS",
	FSAPFS:    "APFS",
	FSHFSPlus: "HFS+",
	FSNetwork: "Network",
}

func (t FilesystemType) String() string {
	if name, ok := filesystemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FilesystemType(%d)", int(t))
}

// SupportsMFT reports whether the volume exposes an NTFS master file table
func (t FilesystemType) SupportsMFT() bool {
	return t == FSNTFS
}

// VolumeInfo describes the volume containing a probed path.
type VolumeInfo struct {
	FilesystemType FilesystemType
	// TypeName is the raw name reported by the platform ("ext4", "apfs", "NTFS")
	// or, for FSUnknown, a short reason such as "detection failed".
	TypeName   string
	MountPoint string
	Label      string
	IsRemote   bool
}

// DisplayType is the label shown to users; unknown types show the raw name.
func (v *VolumeInfo) DisplayType() string {
	if v.FilesystemType == FSUnknown && v.TypeName != "" {
		return v.TypeName
	}
	return v.FilesystemType.String()
}

func (v *VolumeInfo) String() string {
	s := fmt.Sprintf("%s on %s", v.DisplayType(), v.MountPoint)
	if v.Label != "" {
		s += fmt.Sprintf(" (%s)", v.Label)
	}
	if v.IsRemote {
		s += " [remote]"
	}
	return s
}

// VolumeProber is the platform strategy behind DetectFilesystem and the
// virtual mount discovery used by MountTable.
type VolumeProber interface {
	// ProbeVolume describes the volume containing path
	ProbeVolume(path string) (*VolumeInfo, error)
	// VirtualMounts lists mount points of pseudo filesystems (procfs, sysfs...)
	VirtualMounts() ([]string, error)
}

// DetectFilesystem probes the volume containing path with the platform prober.
func DetectFilesystem(path string) (*VolumeInfo, error) {
	return DetectFilesystemWith(NewVolumeProber(), path)
}

// DetectFilesystemWith probes using an explicit prober.
func DetectFilesystemWith(prober VolumeProber, path string) (*VolumeInfo, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, classifyError(path, err)
	}
	info, err := prober.ProbeVolume(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to probe volume for %s: %w", abs, err)
	}
	return info, nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// mountEntry is one row of a mount table
type mountEntry struct {
	Device     string
	MountPoint string
	FSType     string
}

// longestMountMatch returns the entry whose mount point is the deepest
// ancestor-or-self of path.
func longestMountMatch(entries []mountEntry, path string) (mountEntry, bool) {
	var best mountEntry
	found := false
	for _, e := range entries {
		if !isPathContained(path, e.MountPoint) {
			continue
		}
		if !found || len(e.MountPoint) >= len(best.MountPoint) {
			best = e
			found = true
		}
	}
	return best, found
}

var linuxRemoteTypes = map[string]bool{
	"nfs": true, "nfs4": true, "cifs": true, "smb": true, "smb3": true,
	"smbfs": true, "fuse.sshfs": true, "9p": true, "ceph": true, "glusterfs": true,
}

// classifyLinuxMount maps a /proc/mounts row onto a VolumeInfo.
func classifyLinuxMount(e mountEntry) *VolumeInfo {
	vi := &VolumeInfo{
		TypeName:   e.FSType,
		MountPoint: e.MountPoint,
		IsRemote:   linuxRemoteTypes[e.FSType] || strings.Contains(e.Device, ":"),
	}

	switch e.FSType {
	case "ntfs", "ntfs3", "ntfs-3g", "fuseblk":
		// fuseblk is usually ntfs-3g but only when backed by a block device
		if strings.HasPrefix(e.Device, "/dev/") {
			vi.FilesystemType = FSNTFS
		}
	case "vfat", "fat32", "msdos":
		vi.FilesystemType = FSFAT32
	case "exfat":
		vi.FilesystemType = FSExFAT
	case "ext2", "ext3", "ext4":
		vi.FilesystemType = FSExt
	case "btrfs":
		vi.FilesystemType = FSBtrfs
	case "xfs":
		vi.FilesystemType = FSXFS
	case "zfs":
		vi.FilesystemType = FSZFS
	case "apfs":
		vi.FilesystemType = FSAPFS
	case "hfsplus":
		vi.FilesystemType = FSHFSPlus
	case "nfs", "nfs4", "cifs", "smb", "smb3", "smbfs":
		vi.FilesystemType = FSNetwork
	}
	return vi
}

// classifyDarwinType maps a statfs f_fstypename onto a FilesystemType.
func classifyDarwinType(fsType string) (FilesystemType, bool) {
	switch strings.ToLower(fsType) {
	case "apfs":
		return FSAPFS, false
	case "hfs":
		return FSHFSPlus, false
	case "ntfs":
		return FSNTFS, false
	case "msdos":
		return FSFAT32, false
	case "exfat":
		return FSExFAT, false
	case "nfs", "smbfs", "afpfs", "webdav":
		return FSNetwork, true
	default:
		return FSUnknown, false
	}
}

// classifyWindowsType maps a GetVolumeInformation filesystem name.
func classifyWindowsType(fsName string) FilesystemType {
	switch strings.ToUpper(fsName) {
	case "NTFS":
		return FSNTFS
	case "FAT32", "FAT":
		return FSFAT32
	case "EXFAT":
		return FSExFAT
	case "REFS":
		return FSReFS
	default:
		return FSUnknown
	}
}

// extractPlistString pulls a <string> value following <key>key</key>.
func extractPlistString(plist, key string) (string, bool) {
	keyTag := "<key>" + key + "</key>"
	pos := strings.Index(plist, keyTag)
	if pos < 0 {
		return "", false
	}
	rest := plist[pos+len(keyTag):]
	start := strings.Index(rest, "<string>")
	if start < 0 {
		return "", false
	}
	// the value must belong to this key, not a later one
	if next := strings.Index(rest, "<key>"); next >= 0 && next < start {
		return "", false
	}
	rest = rest[start+len("<string>"):]
	end := strings.Index(rest, "</string>")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func unknownVolume(mountPoint, reason string) *VolumeInfo {
	return &VolumeInfo{FilesystemType: FSUnknown, TypeName: reason, MountPoint: mountPoint}
}
