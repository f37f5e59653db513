package report

import (
	"fmt"

	"github.com/shahar-caura/nephyra/internal/hardware"
)

// Hardware prints the CPU, memory, kernel and storage overview. logPath is
// where the raw dump went, or "" if it could not be written.
func (r *Renderer) Hardware(info hardware.Info, logPath string) {
	fmt.Fprintln(r.w, r.s.title.Render("Hardware"))
	fmt.Fprintf(r.w, "CPU: %s\n", info.CPU.Model)
	fmt.Fprintf(r.w, "CPU(s): %s, Threads per core: %s\n", info.CPU.CPUs, info.CPU.ThreadsPerCore)
	if info.Memory != nil {
		fmt.Fprintf(r.w, "RAM: Total: %s, Available: %s\n",
			hardware.FormatMemKiB(info.Memory.TotalKiB), hardware.FormatMemKiB(info.Memory.AvailableKiB))
	} else {
		fmt.Fprintln(r.w, "RAM: Information unavailable")
	}
	fmt.Fprintf(r.w, "Kernel Version: %s\n", info.Kernel)

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Storage Devices:")
	if len(info.Storage) == 0 {
		fmt.Fprintln(r.w, r.s.dim.Render("  (none found)"))
	}
	for _, d := range info.Storage {
		fmt.Fprintf(r.w, "  - %s\n", d)
	}

	if logPath != "" {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, r.s.dim.Render("Detailed hardware info dumped to "+logPath))
	}
}

// Power prints battery and AC adapter state.
func (r *Renderer) Power(p hardware.Power) {
	fmt.Fprintln(r.w, r.s.title.Render("Power Status"))
	if len(p.Batteries) == 0 {
		fmt.Fprintln(r.w, "Battery: Not detected")
	}
	for _, b := range p.Batteries {
		fmt.Fprintf(r.w, "Battery %d:\n", b.Index)
		fmt.Fprintf(r.w, "  Status   : %s\n", b.Status)
		fmt.Fprintf(r.w, "  Capacity : %s%%\n", b.Capacity)
		fmt.Fprintf(r.w, "  Health   : %s\n", b.Health)
	}
	if p.AC != "" {
		fmt.Fprintf(r.w, "AC Adapter: %s\n", p.AC)
	}
}

// Bootloader prints the detected bootloader.
func (r *Renderer) Bootloader(b hardware.Bootloader) {
	fmt.Fprintln(r.w, r.s.title.Render("Bootloader Information"))
	fmt.Fprintf(r.w, "- Type: %s\n", b.Type)
	if b.ConfigPath != "" {
		fmt.Fprintf(r.w, "- Config Path: %s\n", b.ConfigPath)
	}
	if b.Extra != "" {
		fmt.Fprintf(r.w, "- Extra: %s\n", b.Extra)
	}
}
