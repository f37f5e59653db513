// Package hardware gathers CPU, memory, storage, power and bootloader facts
// for the diagnostic commands.
package hardware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shahar-caura/nephyra/internal/probe"
)

// Unknown is reported for any field a probe could not fill.
const Unknown = "Unknown"

// CPU is the subset of lscpu output shown to the user.
type CPU struct {
	Model          string `json:"model"`
	CPUs           string `json:"cpus"`
	ThreadsPerCore string `json:"threads_per_core"`
}

// ParseCPU extracts the model name, logical CPU count and threads per core
// from lscpu output. Keys may be indented. Missing fields are Unknown.
func ParseCPU(lscpu string) CPU {
	cpu := CPU{Model: Unknown, CPUs: Unknown, ThreadsPerCore: Unknown}
	for _, line := range strings.Split(lscpu, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Model name":
			cpu.Model = value
		case "CPU(s)":
			cpu.CPUs = value
		case "Thread(s) per core":
			cpu.ThreadsPerCore = value
		}
	}
	return cpu
}

// Memory holds /proc/meminfo totals in KiB.
type Memory struct {
	TotalKiB     uint64 `json:"total_kib"`
	AvailableKiB uint64 `json:"available_kib"`
}

// ParseMeminfo reads MemTotal and MemAvailable. Both must be present and
// non-zero.
func ParseMeminfo(text string) (Memory, bool) {
	var m Memory
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		var dst *uint64
		switch fields[0] {
		case "MemTotal:":
			dst = &m.TotalKiB
		case "MemAvailable:":
			dst = &m.AvailableKiB
		default:
			continue
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return Memory{}, false
		}
		*dst = n
	}
	if m.TotalKiB == 0 || m.AvailableKiB == 0 {
		return Memory{}, false
	}
	return m, true
}

// FormatMemKiB renders kib in GiB when at least 1 GiB, else MiB.
func FormatMemKiB(kib uint64) string {
	if kib >= 1024*1024 {
		return fmt.Sprintf("%.2f GiB", float64(kib)/1024/1024)
	}
	return fmt.Sprintf("%.2f MiB", float64(kib)/1024)
}

// Device is one lsblk row.
type Device struct {
	Name       string `json:"name"`
	Size       string `json:"size"`
	Type       string `json:"type"`
	Mountpoint string `json:"mountpoint,omitempty"`
}

func (d Device) String() string {
	return fmt.Sprintf("%s: %s [%s] mounted at %s", d.Name, d.Size, d.Type, d.Mountpoint)
}

// ParseStorage parses `lsblk -o NAME,SIZE,TYPE,MOUNTPOINT` by the header's
// column positions. SIZE is right aligned, so it is taken as the last token
// before the TYPE column. Rows missing a name, size or type are skipped.
func ParseStorage(lsblk string) []Device {
	lines := strings.Split(lsblk, "\n")
	header := lines[0]
	typePos := strings.Index(header, "TYPE")
	mountPos := strings.Index(header, "MOUNTPOINT")
	if typePos < 0 || mountPos < typePos {
		return nil
	}

	var devices []Device
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Tree glyphs are multi-byte but occupy one column each.
		row := []rune(line)
		left := strings.TrimSpace(runeSlice(row, 0, typePos))
		typ := strings.TrimSpace(runeSlice(row, typePos, mountPos))
		mount := strings.TrimSpace(runeSlice(row, mountPos, len(row)))

		i := strings.LastIndexAny(left, " \t")
		if i < 0 {
			continue
		}
		d := Device{
			Name:       strings.TrimSpace(left[:i]),
			Size:       strings.TrimSpace(left[i+1:]),
			Type:       typ,
			Mountpoint: mount,
		}
		if d.Name == "" || d.Size == "" || d.Type == "" {
			continue
		}
		devices = append(devices, d)
	}
	return devices
}

func runeSlice(r []rune, from, to int) string {
	from = min(from, len(r))
	to = min(to, len(r))
	return string(r[from:to])
}

// probeOutput is the raw output of one probe, kept for the log dump.
type probeOutput struct {
	label  string
	output string
	err    error
}

// Info is the collected hardware overview.
type Info struct {
	CPU     CPU      `json:"cpu"`
	Memory  *Memory  `json:"memory,omitempty"`
	Kernel  string   `json:"kernel"`
	Storage []Device `json:"storage"`

	raw []probeOutput
}

// Summary is the short form used in the system report.
func (i Info) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CPU: %s (%s CPUs, %s threads per core)\n", i.CPU.Model, i.CPU.CPUs, i.CPU.ThreadsPerCore)
	if i.Memory != nil {
		fmt.Fprintf(&sb, "RAM: Total: %s, Available: %s", FormatMemKiB(i.Memory.TotalKiB), FormatMemKiB(i.Memory.AvailableKiB))
	} else {
		sb.WriteString("RAM: Information unavailable")
	}
	return sb.String()
}

// Collector runs the hardware probes.
type Collector struct {
	Runner      probe.Runner
	Logger      *slog.Logger
	MeminfoPath string

	// now is overridable for testing.
	now func() time.Time
}

// NewCollector creates a Collector reading memory from /proc/meminfo.
func NewCollector(runner probe.Runner, logger *slog.Logger) *Collector {
	return &Collector{
		Runner:      runner,
		Logger:      logger,
		MeminfoPath: "/proc/meminfo",
		now:         time.Now,
	}
}

// Collect runs lscpu, lsblk, uname -r and lspci -v and parses what the
// summary needs. Probe failures leave the matching fields Unknown.
func (c *Collector) Collect(ctx context.Context) Info {
	var info Info

	info.CPU = ParseCPU(c.probe(ctx, &info, "lscpu", "lscpu"))

	if data, err := os.ReadFile(c.MeminfoPath); err == nil {
		if m, ok := ParseMeminfo(string(data)); ok {
			info.Memory = &m
		}
	} else {
		c.Logger.Debug("reading meminfo", "path", c.MeminfoPath, "error", err)
	}

	if lsblk := c.probe(ctx, &info, "lsblk", "lsblk", "-o", "NAME,SIZE,TYPE,MOUNTPOINT"); lsblk != "" {
		info.Storage = ParseStorage(lsblk)
	}

	info.Kernel = strings.TrimSpace(c.probe(ctx, &info, "uname -r", "uname", "-r"))
	if info.Kernel == "" {
		info.Kernel = Unknown
	}

	c.probe(ctx, &info, "lspci -v", "lspci", "-v")
	return info
}

// probe runs one command, records its raw output on info and returns the
// output, or "" on failure.
func (c *Collector) probe(ctx context.Context, info *Info, label, name string, args ...string) string {
	out, err := c.Runner.Output(ctx, name, args...)
	info.raw = append(info.raw, probeOutput{label: label, output: out, err: err})
	if err != nil {
		c.Logger.Debug("hardware probe failed", "cmd", label, "error", err)
		return ""
	}
	return out
}

// AppendLog appends the raw probe outputs of info to path under a
// timestamped header.
func (c *Collector) AppendLog(path string, info Info) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "===== Hardware Info Log at %s =====\n", c.now().Format("2006-01-02 15:04:05"))
	for i, p := range info.raw {
		if p.err != nil {
			fmt.Fprintf(&sb, "[%s error] %v\n", p.label, p.err)
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s output]\n%s", p.label, p.output)
	}
	sb.WriteString("\n")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening hardware log: %w", err)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return fmt.Errorf("writing hardware log: %w", err)
	}
	return f.Close()
}
