package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shahar-caura/nephyra/internal/pkgmgr"
)

// KernelStatus is the running/installed kernel overview.
type KernelStatus struct {
	Current          string
	Installed        []string
	Manager          pkgmgr.Manager
	HeadersPackage   string
	HeadersInstalled bool
}

// KernelStatus prints the running kernel, installed kernels and the
// headers package state.
func (r *Renderer) KernelStatus(s KernelStatus) {
	fmt.Fprintln(r.w, r.s.title.Render("Kernel"))
	fmt.Fprintf(r.w, "Running kernel: %s\n", r.s.name.Render(s.Current))

	fmt.Fprintln(r.w, "Installed kernels:")
	if len(s.Installed) == 0 {
		fmt.Fprintln(r.w, r.s.dim.Render("  (none found)"))
	}
	for _, k := range s.Installed {
		if k == s.Current {
			fmt.Fprintf(r.w, "  * %s %s\n", k, r.s.ok.Render("(running)"))
		} else {
			fmt.Fprintf(r.w, "  - %s\n", k)
		}
	}

	switch {
	case s.Manager == pkgmgr.None:
		fmt.Fprintln(r.w, r.s.warning.Render("Could not detect package manager; cannot check headers package."))
	case s.HeadersInstalled:
		fmt.Fprintf(r.w, "Kernel headers package '%s' is installed.\n", s.HeadersPackage)
	default:
		fmt.Fprintln(r.w, r.s.warning.Render(fmt.Sprintf("Kernel headers package '%s' is NOT installed.", s.HeadersPackage)))
		fmt.Fprintln(r.w, "Try installing it with:")
		fmt.Fprintf(r.w, "    %s\n", r.s.command.Render(pkgmgr.HeadersHint(s.Manager, s.HeadersPackage)))
	}
}

// KernelSummary is the short plain-text form used in the system report.
func KernelSummary(s KernelStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Kernel: %s\nInstalled Kernels:", s.Current)
	for _, k := range s.Installed {
		if k == s.Current {
			fmt.Fprintf(&sb, "\n  * %s (running)", k)
		} else {
			fmt.Fprintf(&sb, "\n  - %s", k)
		}
	}
	return sb.String()
}

const separator = "-----------------------------------"

// System prints the combined report from pre-rendered section summaries.
func (r *Renderer) System(sections ...string) {
	fmt.Fprintln(r.w, r.s.title.Render("Nephyra System Report"))
	fmt.Fprintln(r.w, separator)
	for _, s := range sections {
		fmt.Fprintln(r.w, s)
	}
	fmt.Fprintln(r.w, separator)
	fmt.Fprintln(r.w, "For detailed info, run: nephyra <command>")
}

// Writer returns the underlying writer.
func (r *Renderer) Writer() io.Writer { return r.w }
