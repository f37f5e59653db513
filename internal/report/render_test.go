package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shahar-caura/nephyra/internal/hardware"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"linux-zen", "linux-zen"},
		{"linux-cachyos-eevdf-lto", "linux-cachyos-eevdf-lto"},
		{"6.15.2-2-cachyos-eevdf-lto", "linux-cachyos-eevdf-lto"},
		{"6.9.1-arch1-1", "linux-arch1-1"},
		{"6.6.30-1-lts", "linux-lts"},
		{"6.9.1-1", "linux-6.9.1-1"},
		{"linux", "linux"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageBaseName(tt.in))
		})
	}
}

func TestInstallCommand(t *testing.T) {
	zen := kernel.Candidate{Name: "linux-zen", Variant: kernel.Zen}

	gaming := kernel.Context{PackageManager: pkgmgr.Pacman, UseCases: []string{"gaming"}}
	assert.Equal(t, "sudo pacman -S linux-zen", InstallCommand(zen, gaming))

	dev := kernel.Context{PackageManager: pkgmgr.Apt, UseCases: []string{"dev"}}
	assert.Equal(t, "sudo apt install linux-zen linux-zen-headers", InstallCommand(zen, dev))

	server := kernel.Context{PackageManager: pkgmgr.Pacman, UseCases: []string{"server"}}
	assert.Equal(t, "sudo pacman -S linux-zen linux-zen-headers", InstallCommand(zen, server))

	assert.Empty(t, InstallCommand(zen, kernel.Context{UseCases: []string{"dev"}}), "no package manager")

	installed := zen
	installed.Installed = true
	assert.Empty(t, InstallCommand(installed, gaming))
}

func ranked() []kernel.Scored {
	return []kernel.Scored{
		{Candidate: kernel.Candidate{Name: "linux-cachyos-eevdf-lto", Version: "6.9.1-2", Variant: kernel.Standard},
			Score: 6, Explanation: "EEVDF recommended for desktop/gaming/dev on AMD/Intel" + kernel.HeadersNote},
		{Candidate: kernel.Candidate{Name: "6.9.1-arch1-1", Variant: kernel.Standard, Installed: true, Running: true, Description: "installed kernel"},
			Score: 0, Explanation: "no special advantage for this context."},
		{Candidate: kernel.Candidate{Name: "linux-zen", Variant: kernel.Zen},
			Score: -4, Explanation: "no special advantage for this context. WARNING: Zen causes overheating"},
		{Candidate: kernel.Candidate{Name: "linux-rt", Variant: kernel.RealTime},
			Score: -8, Explanation: "no special advantage for this context."},
	}
}

func TestRecommendations_TopThreeWithInstallCommands(t *testing.T) {
	var buf bytes.Buffer
	ctx := kernel.Context{
		CurrentKernel:  "6.9.1-arch1-1",
		PackageManager: pkgmgr.Pacman,
		GPU:            kernel.GPUAMD,
		UseCases:       []string{"gaming", "dev"},
	}

	NewRenderer(&buf).Recommendations(ranked(), ctx, DefaultTop)
	out := buf.String()

	assert.Contains(t, out, "Kernel recommendations")
	assert.Contains(t, out, "gpu amd")
	assert.Contains(t, out, "use-cases gaming,dev")
	assert.Contains(t, out, "1. linux-cachyos-eevdf-lto  score 6  [Standard]  available")
	assert.Contains(t, out, "Install: sudo pacman -S linux-cachyos-eevdf-lto linux-cachyos-eevdf-lto-headers")
	assert.Contains(t, out, "2. 6.9.1-arch1-1  score 0  [Standard]  installed, running")
	assert.Contains(t, out, "3. linux-zen  score -4  [Zen]  available")
	assert.Contains(t, out, "WARNING: Zen causes overheating")
	assert.Contains(t, out, "NOTE: dev use-case detected")
	assert.NotContains(t, out, "linux-rt")
	assert.Equal(t, 2, strings.Count(out, "Install:"), "installed kernel gets no install command")
}

func TestRecommendations_NoPackageManager(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Recommendations(ranked(), kernel.Context{UseCases: []string{"desktop"}}, 2)
	out := buf.String()

	assert.NotContains(t, out, "Install:")
	assert.Contains(t, out, "gpu unknown")
	assert.Contains(t, out, "package manager none")
}

func TestRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Recommendations(nil, kernel.Context{}, DefaultTop)
	assert.Contains(t, buf.String(), "No kernel candidates found.")
}

func TestKernelStatus(t *testing.T) {
	s := KernelStatus{
		Current:        "6.9.1-arch1-1",
		Installed:      []string{"6.6.30-1-lts", "6.9.1-arch1-1"},
		Manager:        pkgmgr.Pacman,
		HeadersPackage: "linux-arch1-1-headers",
	}

	var buf bytes.Buffer
	NewRenderer(&buf).KernelStatus(s)
	out := buf.String()
	assert.Contains(t, out, "Running kernel: 6.9.1-arch1-1")
	assert.Contains(t, out, "  - 6.6.30-1-lts")
	assert.Contains(t, out, "  * 6.9.1-arch1-1 (running)")
	assert.Contains(t, out, "'linux-arch1-1-headers' is NOT installed")
	assert.Contains(t, out, "sudo pacman -S linux-arch1-1-headers")

	s.HeadersInstalled = true
	buf.Reset()
	NewRenderer(&buf).KernelStatus(s)
	assert.Contains(t, buf.String(), "is installed.")

	s.Manager = pkgmgr.None
	buf.Reset()
	NewRenderer(&buf).KernelStatus(s)
	assert.Contains(t, buf.String(), "Could not detect package manager")
}

func TestKernelSummary(t *testing.T) {
	got := KernelSummary(KernelStatus{Current: "b", Installed: []string{"a", "b"}})
	assert.Equal(t, "Kernel: b\nInstalled Kernels:\n  - a\n  * b (running)", got)
}

func TestSystem(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.System("Kernel: x", "Bootloader: GRUB")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Nephyra System Report", lines[0])
	assert.Equal(t, separator, lines[1])
	assert.Equal(t, "Kernel: x", lines[2])
	assert.Equal(t, "For detailed info, run: nephyra <command>", lines[5])
	assert.Same(t, &buf, r.Writer().(*bytes.Buffer))
}

func TestHardware(t *testing.T) {
	var buf bytes.Buffer
	info := hardware.Info{
		CPU:     hardware.CPU{Model: "Test CPU", CPUs: "8", ThreadsPerCore: "2"},
		Memory:  &hardware.Memory{TotalKiB: 16 * 1024 * 1024, AvailableKiB: 512 * 1024},
		Kernel:  "6.9.1-arch1-1",
		Storage: []hardware.Device{{Name: "sda", Size: "1T", Type: "disk"}},
	}
	NewRenderer(&buf).Hardware(info, "hardware_info.log")
	out := buf.String()

	assert.Contains(t, out, "CPU: Test CPU")
	assert.Contains(t, out, "RAM: Total: 16.00 GiB, Available: 512.00 MiB")
	assert.Contains(t, out, "  - sda: 1T [disk] mounted at ")
	assert.Contains(t, out, "dumped to hardware_info.log")

	buf.Reset()
	NewRenderer(&buf).Hardware(hardware.Info{Kernel: "x"}, "")
	assert.Contains(t, buf.String(), "RAM: Information unavailable")
	assert.NotContains(t, buf.String(), "dumped to")
}

func TestPowerAndBootloader(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Power(hardware.Power{
		Batteries: []hardware.Battery{{Index: 0, Status: "Full", Capacity: "100", Health: "Good"}},
		AC:        hardware.ACConnected,
	})
	r.Bootloader(hardware.Bootloader{Type: "GRUB", ConfigPath: "/boot/grub/grub.cfg"})
	out := buf.String()

	assert.Contains(t, out, "Battery 0:")
	assert.Contains(t, out, "  Capacity : 100%")
	assert.Contains(t, out, "AC Adapter: Connected (Charging)")
	assert.Contains(t, out, "- Type: GRUB")
	assert.Contains(t, out, "- Config Path: /boot/grub/grub.cfg")
	assert.NotContains(t, out, "- Extra:")

	buf.Reset()
	NewRenderer(&buf).Power(hardware.Power{})
	assert.Contains(t, buf.String(), "Battery: Not detected")
	assert.NotContains(t, buf.String(), "AC Adapter")
}

func TestPackages(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).Packages(&pkgmgr.CheckResult{
		Manager:     pkgmgr.Pacman,
		HasOrphans:  true,
		OrphanLabel: "Orphaned packages",
		OrphanText:  "libfoo\nlibbar",
	})
	out := buf.String()
	assert.Contains(t, out, "Package manager: pacman")
	assert.Contains(t, out, "Orphaned packages:\nlibfoo\nlibbar")
	assert.Contains(t, out, "All packages up to date.")

	buf.Reset()
	NewRenderer(&buf).Packages(&pkgmgr.CheckResult{Manager: pkgmgr.Dnf, HasUpdates: true, UpdateText: "kernel.x86_64 6.9"})
	assert.Contains(t, buf.String(), "No orphaned packages detected.")
	assert.Contains(t, buf.String(), "Available updates:\nkernel.x86_64 6.9")
}
