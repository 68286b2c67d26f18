//go:build !linux && !darwin && !windows

package splendir

var virtualFallbackPaths = []string{"/proc", "/dev"}

type fallbackProber struct{}

// NewVolumeProber returns the prober for the running platform
func NewVolumeProber() VolumeProber {
	return fallbackProber{}
}

func (fallbackProber) VirtualMounts() ([]string, error) {
	return nil, nil
}

func (fallbackProber) ProbeVolume(path string) (*VolumeInfo, error) {
	return unknownVolume(path, "unsupported platform"), nil
}
