// Package kernel builds the kernel candidate catalog and scores candidates
// against the fused machine context.
package kernel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shahar-caura/nephyra/internal/pkgmgr"
)

// Variant is the coarse kernel classification used for scoring.
type Variant string

const (
	Standard Variant = "Standard"
	LTS      Variant = "LTS"
	Zen      Variant = "Zen"
	RealTime Variant = "RealTime"
	Hardened Variant = "Hardened"
	Mainline Variant = "Mainline"
)

// GPUType is the detected or preferred graphics vendor. The zero value means unknown.
type GPUType string

const (
	GPUNone       GPUType = ""
	GPUNvidia     GPUType = "nvidia"
	GPUAMD        GPUType = "amd"
	GPUIntel      GPUType = "intel"
	GPUIntegrated GPUType = "integrated"
)

// GPUTypes lists the accepted non-empty GPU values.
var GPUTypes = []GPUType{GPUNvidia, GPUAMD, GPUIntel, GPUIntegrated}

// ParseGPUType validates a user-supplied GPU type.
func ParseGPUType(s string) (GPUType, error) {
	g := GPUType(strings.ToLower(strings.TrimSpace(s)))
	if g == GPUNone || slices.Contains(GPUTypes, g) {
		return g, nil
	}
	return GPUNone, fmt.Errorf("unknown gpu type %q (want nvidia, amd, intel or integrated)", s)
}

// Use-case tags.
const (
	UseDev      = "dev"
	UseGaming   = "gaming"
	UseServer   = "server"
	UseSecurity = "security"
	UseAudio    = "audio"
	UseDesktop  = "desktop"
	UseBattery  = "battery"
)

// Context is the fused view of the machine used for scoring. It is rebuilt
// on every run from live detection plus the preference record.
type Context struct {
	CurrentKernel      string         `json:"current_kernel"`
	PackageManager     pkgmgr.Manager `json:"package_manager"`
	GPU                GPUType        `json:"gpu"`
	UseCases           []string       `json:"use_cases"`
	HasNvidiaDriver    bool           `json:"has_nvidia_driver"`
	HasAudioHardware   bool           `json:"has_audio_hardware"`
	ProblematicKernels []string       `json:"problematic_kernels,omitempty"`
}

// HasUseCase reports whether tag is among the context's use-cases.
func (c Context) HasUseCase(tag string) bool {
	return slices.Contains(c.UseCases, tag)
}

// HasAnyUseCase reports whether any of tags is among the use-cases.
func (c Context) HasAnyUseCase(tags ...string) bool {
	for _, t := range tags {
		if c.HasUseCase(t) {
			return true
		}
	}
	return false
}

// Candidate is a kernel package eligible for scoring.
type Candidate struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
	Installed   bool    `json:"installed"`
	Running     bool    `json:"running,omitempty"`
}

// Scored pairs a candidate with its score and explanation.
type Scored struct {
	Candidate   Candidate `json:"candidate"`
	Score       int       `json:"score"`
	Explanation string    `json:"explanation"`
}
