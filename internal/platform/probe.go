package platform

import (
	"os/exec"
	"sync"
)

// External executables probed at runtime
const (
	FFmpegCommand = "ffmpeg"
	YTDLPCommand  = "yt-dlp"
)

// ToolAvailable reports whether an executable named name is on PATH.
// It never fails: any lookup error means the tool is absent.
func ToolAvailable(name string) bool {
	if name == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

// CapabilityProbe caches the availability of one executable for the
// lifetime of the process.
type CapabilityProbe struct {
	name      string
	once      sync.Once
	available bool
}

// NewCapabilityProbe creates a probe for the executable name
func NewCapabilityProbe(name string) *CapabilityProbe {
	return &CapabilityProbe{name: name}
}

// Name returns the probed executable name
func (p *CapabilityProbe) Name() string {
	return p.name
}

// Available reports whether the executable is installed. The lookup runs once.
func (p *CapabilityProbe) Available() bool {
	p.once.Do(func() {
		p.available = ToolAvailable(p.name)
	})
	return p.available
}
