// Package detect probes the running machine for the facts the kernel
// recommendation needs. Every probe is best effort: a missing tool or file
// yields the unknown value, never an error.
package detect

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/shahar-caura/nephyra/internal/probe"
)

// UnknownKernel is reported when the running kernel cannot be determined.
const UnknownKernel = "Unknown"

// Facts is the raw, un-merged output of live detection.
type Facts struct {
	CurrentKernel    string
	PackageManager   pkgmgr.Manager
	GPU              kernel.GPUType
	UseCases         []string
	HasNvidiaDriver  bool
	HasAudioHardware bool
}

// useCaseMarkers maps each use-case tag to the tools that imply it, in the
// order tags are reported.
var useCaseMarkers = []struct {
	tag   string
	tools []string
}{
	{kernel.UseAudio, []string{"ardour", "jackd"}},
	{kernel.UseDev, []string{"gcc", "clang", "rustc"}},
	{kernel.UseGaming, []string{"steam"}},
	{kernel.UseServer, []string{"nginx", "apache2", "httpd"}},
	{kernel.UseSecurity, []string{"firejail", "apparmor_status"}},
}

// InferUseCases returns the tags whose marker tools resolve, or exactly
// [desktop] when none do.
func InferUseCases(r probe.ToolResolver) []string {
	var tags []string
	for _, m := range useCaseMarkers {
		for _, tool := range m.tools {
			if r.Has(tool) {
				tags = append(tags, m.tag)
				break
			}
		}
	}
	if len(tags) == 0 {
		return []string{kernel.UseDesktop}
	}
	return tags
}

var (
	displayClass = regexp.MustCompile(`(?i)(vga compatible controller|3d controller|display controller)`)
	atiWord      = regexp.MustCompile(`\bati\b`)
)

// ParseGPU picks the GPU vendor from a PCI listing. Only display-class
// devices are considered; vendors are tried in the order nvidia, amd/ati,
// intel, integrated.
func ParseGPU(lspci string) kernel.GPUType {
	var display []string
	for _, line := range strings.Split(lspci, "\n") {
		if displayClass.MatchString(line) {
			display = append(display, strings.ToLower(line))
		}
	}
	joined := strings.Join(display, "\n")

	switch {
	case strings.Contains(joined, "nvidia"):
		return kernel.GPUNvidia
	case strings.Contains(joined, "amd"), atiWord.MatchString(joined):
		return kernel.GPUAMD
	case strings.Contains(joined, "intel"):
		return kernel.GPUIntel
	case strings.Contains(joined, "integrated"):
		return kernel.GPUIntegrated
	default:
		return kernel.GPUNone
	}
}

// HasNvidiaDriver reports whether a loaded-module listing mentions nvidia.
func HasNvidiaDriver(lsmod string) bool {
	return strings.Contains(lsmod, "nvidia")
}

// HasAudioHardware reports whether a PCI listing mentions an audio device.
func HasAudioHardware(lspci string) bool {
	return strings.Contains(strings.ToLower(lspci), "audio")
}

// Detector runs the live probes.
type Detector struct {
	Runner   probe.Runner
	Resolver probe.ToolResolver
	Logger   *slog.Logger
}

// New creates a Detector.
func New(runner probe.Runner, resolver probe.ToolResolver, logger *slog.Logger) *Detector {
	return &Detector{Runner: runner, Resolver: resolver, Logger: logger}
}

// CurrentKernel returns `uname -r`, or UnknownKernel.
func (d *Detector) CurrentKernel(ctx context.Context) string {
	out := strings.TrimSpace(probe.OutputOrEmpty(ctx, d.Runner, "uname", "-r"))
	if out == "" {
		return UnknownKernel
	}
	return out
}

// Detect runs every probe in sequence.
func (d *Detector) Detect(ctx context.Context) Facts {
	lspci := probe.OutputOrEmpty(ctx, d.Runner, "lspci")
	lsmod := probe.OutputOrEmpty(ctx, d.Runner, "lsmod")

	f := Facts{
		CurrentKernel:    d.CurrentKernel(ctx),
		PackageManager:   pkgmgr.Detect(d.Resolver),
		GPU:              ParseGPU(lspci),
		UseCases:         InferUseCases(d.Resolver),
		HasNvidiaDriver:  HasNvidiaDriver(lsmod),
		HasAudioHardware: HasAudioHardware(lspci),
	}

	d.Logger.Debug("detected context",
		"kernel", f.CurrentKernel,
		"package_manager", f.PackageManager,
		"gpu", f.GPU,
		"use_cases", f.UseCases,
		"nvidia_driver", f.HasNvidiaDriver,
		"audio_hardware", f.HasAudioHardware,
	)
	return f
}
