package hardware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shahar-caura/nephyra/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lscpuOutput = `Architecture:            x86_64
  CPU op-mode(s):        32-bit, 64-bit
CPU(s):                  16
  On-line CPU(s) list:   0-15
Vendor ID:               AuthenticAMD
  Model name:            AMD Ryzen 7 5800H with Radeon Graphics
    Thread(s) per core:  2
`

const meminfoOutput = `MemTotal:       32768000 kB
MemFree:         1024000 kB
MemAvailable:     786432 kB
Buffers:          204800 kB
`

const lsblkOutput = `NAME          SIZE TYPE MOUNTPOINT
sda         465.8G disk
├─sda1        512M part /boot
└─sda2      465.3G part /
nvme0n1     931.5G disk
└─nvme0n1p1 931.5G part /home/user data
`

func TestParseCPU(t *testing.T) {
	got := ParseCPU(lscpuOutput)
	assert.Equal(t, CPU{Model: "AMD Ryzen 7 5800H with Radeon Graphics", CPUs: "16", ThreadsPerCore: "2"}, got)

	flat := "Model name: Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz\nCPU(s): 8\nThread(s) per core: 2\n"
	assert.Equal(t, CPU{Model: "Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz", CPUs: "8", ThreadsPerCore: "2"}, ParseCPU(flat))

	assert.Equal(t, CPU{Model: Unknown, CPUs: Unknown, ThreadsPerCore: Unknown}, ParseCPU(""))
}

func TestParseMeminfo(t *testing.T) {
	m, ok := ParseMeminfo(meminfoOutput)
	require.True(t, ok)
	assert.Equal(t, Memory{TotalKiB: 32768000, AvailableKiB: 786432}, m)

	_, ok = ParseMeminfo("MemTotal: 1024 kB\n")
	assert.False(t, ok, "MemAvailable is required")

	_, ok = ParseMeminfo("MemTotal: lots kB\nMemAvailable: 1 kB\n")
	assert.False(t, ok)
}

func TestFormatMemKiB(t *testing.T) {
	tests := []struct {
		kib  uint64
		want string
	}{
		{1024 * 1024, "1.00 GiB"},
		{32768000, "31.25 GiB"},
		{786432, "768.00 MiB"},
		{512, "0.50 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMemKiB(tt.kib))
	}
}

func TestParseStorage(t *testing.T) {
	want := []Device{
		{Name: "sda", Size: "465.8G", Type: "disk"},
		{Name: "├─sda1", Size: "512M", Type: "part", Mountpoint: "/boot"},
		{Name: "└─sda2", Size: "465.3G", Type: "part", Mountpoint: "/"},
		{Name: "nvme0n1", Size: "931.5G", Type: "disk"},
		{Name: "└─nvme0n1p1", Size: "931.5G", Type: "part", Mountpoint: "/home/user data"},
	}
	if diff := cmp.Diff(want, ParseStorage(lsblkOutput)); diff != "" {
		t.Errorf("ParseStorage mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "sda: 465.8G [disk] mounted at ", want[0].String())
	assert.Nil(t, ParseStorage(""))
	assert.Nil(t, ParseStorage("garbage without header\n"))
}

func newTestCollector(t *testing.T, runner probe.Runner) *Collector {
	t.Helper()
	meminfo := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(meminfo, []byte(meminfoOutput), 0o644))

	c := NewCollector(runner, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.MeminfoPath = meminfo
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC) }
	return c
}

func TestCollect(t *testing.T) {
	runner := probe.NewFakeRunner(map[string]string{
		"lscpu":                             "Model name: Test CPU\nCPU(s): 4\nThread(s) per core: 1\n",
		"lsblk -o NAME,SIZE,TYPE,MOUNTPOINT": lsblkOutput,
		"uname -r":                          "6.9.1-arch1-1\n",
		"lspci -v":                          "00:02.0 VGA compatible controller: Intel\n",
	})
	c := newTestCollector(t, runner)

	info := c.Collect(context.Background())
	assert.Equal(t, "Test CPU", info.CPU.Model)
	assert.Equal(t, "6.9.1-arch1-1", info.Kernel)
	require.NotNil(t, info.Memory)
	assert.Len(t, info.Storage, 5)
	assert.Equal(t, "CPU: Test CPU (4 CPUs, 1 threads per core)\nRAM: Total: 31.25 GiB, Available: 768.00 MiB", info.Summary())

	logPath := filepath.Join(t.TempDir(), "hardware_info.log")
	require.NoError(t, c.AppendLog(logPath, info))
	require.NoError(t, c.AppendLog(logPath, info))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	log := string(data)
	assert.Equal(t, 2, strings.Count(log, "===== Hardware Info Log at 2025-06-01 12:30:00 ====="), "log is appended")
	assert.Contains(t, log, "[lscpu output]\nModel name: Test CPU")
	assert.Contains(t, log, "\n[lsblk output]\nNAME")
	assert.Contains(t, log, "\n[uname -r output]\n6.9.1-arch1-1")
	assert.Contains(t, log, "\n[lspci -v output]\n00:02.0")
}

func TestCollect_ProbeFailures(t *testing.T) {
	runner := probe.NewFakeRunner(nil)
	runner.Errors["lscpu"] = errors.New("lscpu: exit status 1")
	c := newTestCollector(t, runner)
	c.MeminfoPath = filepath.Join(t.TempDir(), "missing")

	info := c.Collect(context.Background())
	assert.Equal(t, Unknown, info.CPU.Model)
	assert.Equal(t, Unknown, info.Kernel)
	assert.Nil(t, info.Memory)
	assert.Empty(t, info.Storage)
	assert.Contains(t, info.Summary(), "RAM: Information unavailable")

	logPath := filepath.Join(t.TempDir(), "hardware_info.log")
	require.NoError(t, c.AppendLog(logPath, info))
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[lscpu error] lscpu: exit status 1")
	assert.Contains(t, string(data), "[lspci -v error]")
}

func TestAppendLog_Unwritable(t *testing.T) {
	c := newTestCollector(t, probe.NewFakeRunner(nil))
	err := c.AppendLog(filepath.Join(t.TempDir(), "missing", "dir", "hw.log"), Info{})
	assert.Error(t, err)
}

func writeAttr(t *testing.T, root, dev, name, value string) {
	t.Helper()
	dir := filepath.Join(root, "class", "power_supply", dev)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if name != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o644))
	}
}

func TestReadPower(t *testing.T) {
	root := t.TempDir()
	writeAttr(t, root, "BAT0", "status", "Discharging")
	writeAttr(t, root, "BAT0", "capacity", "85")
	writeAttr(t, root, "AC", "online", "0")

	p := ReadPower(root)
	require.Len(t, p.Batteries, 1)
	assert.Equal(t, Battery{Index: 0, Status: "Discharging", Capacity: "85", Health: Unknown}, p.Batteries[0])
	assert.Equal(t, ACDisconnected, p.AC)
	assert.Equal(t, "Power: Battery 0: Discharging, 85%; AC Disconnected (On battery)", p.Summary())
}

func TestReadPower_SecondBatteryAndACStates(t *testing.T) {
	root := t.TempDir()
	writeAttr(t, root, "BAT1", "status", "Charging")
	writeAttr(t, root, "AC", "online", "1")

	p := ReadPower(root)
	require.Len(t, p.Batteries, 1)
	assert.Equal(t, 1, p.Batteries[0].Index)
	assert.Equal(t, ACConnected, p.AC)

	writeAttr(t, root, "AC", "online", "maybe")
	assert.Equal(t, Unknown, ReadPower(root).AC)
}

func TestReadPower_NothingPresent(t *testing.T) {
	p := ReadPower(t.TempDir())
	assert.Empty(t, p.Batteries)
	assert.Empty(t, p.AC)
	assert.Equal(t, "Power: Battery not detected", p.Summary())
}

func TestDetectBootloader(t *testing.T) {
	touch := func(root, path string) {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	t.Run("first marker wins", func(t *testing.T) {
		root := t.TempDir()
		touch(root, "/boot/loader/loader.conf")
		touch(root, "/boot/grub/grub.cfg")

		b := DetectBootloader(root)
		assert.Equal(t, "GRUB", b.Type)
		assert.Equal(t, "Bootloader: GRUB (Config: /boot/grub/grub.cfg)", b.Summary())
	})

	t.Run("systemd-boot", func(t *testing.T) {
		root := t.TempDir()
		touch(root, "/boot/loader/loader.conf")
		assert.Equal(t, "systemd-boot", DetectBootloader(root).Type)
	})

	t.Run("u-boot extra info", func(t *testing.T) {
		root := t.TempDir()
		touch(root, "/boot/boot.scr")
		b := DetectBootloader(root)
		assert.Equal(t, "U-Boot", b.Type)
		assert.Equal(t, "Bootloader: U-Boot (Config: /boot/boot.scr) [U-Boot script detected. Kernel parsing not implemented.]", b.Summary())
	})

	t.Run("unknown", func(t *testing.T) {
		b := DetectBootloader(t.TempDir())
		assert.Equal(t, Bootloader{Type: Unknown}, b)
		assert.Equal(t, "Bootloader: Unknown", b.Summary())
	})
}
