// Package report renders recommendations and diagnostic summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
)

// DefaultTop is how many recommendations are shown.
const DefaultTop = 3

// PackageBaseName derives the installable package name for a kernel id.
// "linux" and names starting with "linux-" are used verbatim; otherwise the
// suffix from the first letter onward is prefixed with "linux-"
// ("6.15.2-2-cachyos-eevdf-lto" becomes "linux-cachyos-eevdf-lto").
func PackageBaseName(id string) string {
	if id == "linux" || strings.HasPrefix(id, "linux-") {
		return id
	}
	if i := strings.IndexFunc(id, unicode.IsLetter); i >= 0 {
		return "linux-" + id[i:]
	}
	return "linux-" + id
}

// InstallPackages lists the packages to install for c: the base package,
// plus its headers when the dev or server use-case is active.
func InstallPackages(c kernel.Candidate, ctx kernel.Context) []string {
	base := PackageBaseName(c.Name)
	pkgs := []string{base}
	if ctx.HasAnyUseCase(kernel.UseDev, kernel.UseServer) {
		pkgs = append(pkgs, base+"-headers")
	}
	return pkgs
}

// InstallCommand returns the install command for an uninstalled candidate,
// or "" when the candidate is installed or no package manager is known.
func InstallCommand(c kernel.Candidate, ctx kernel.Context) string {
	if c.Installed || ctx.PackageManager == pkgmgr.None {
		return ""
	}
	return pkgmgr.InstallCommand(ctx.PackageManager, InstallPackages(c, ctx)...)
}

type styles struct {
	title   lipgloss.Style
	name    lipgloss.Style
	dim     lipgloss.Style
	warning lipgloss.Style
	command lipgloss.Style
	ok      lipgloss.Style
}

// Renderer writes styled output to one writer.
type Renderer struct {
	w io.Writer
	s styles
}

// NewRenderer creates a Renderer whose color profile follows w.
func NewRenderer(w io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		w: w,
		s: styles{
			title:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
			name:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
			dim:     lr.NewStyle().Foreground(lipgloss.Color("240")),
			warning: lr.NewStyle().Foreground(lipgloss.Color("208")),
			command: lr.NewStyle().Foreground(lipgloss.Color("42")),
			ok:      lr.NewStyle().Foreground(lipgloss.Color("42")),
		},
	}
}

// Recommendations prints the top n ranked candidates.
func (r *Renderer) Recommendations(ranked []kernel.Scored, ctx kernel.Context, n int) {
	fmt.Fprintln(r.w, r.s.title.Render("Kernel recommendations"))
	fmt.Fprintln(r.w, r.s.dim.Render(contextLine(ctx)))
	fmt.Fprintln(r.w)

	top := kernel.Top(ranked, n)
	if len(top) == 0 {
		fmt.Fprintln(r.w, "No kernel candidates found.")
		return
	}

	for i, sc := range top {
		c := sc.Candidate
		status := "available"
		switch {
		case c.Running:
			status = "installed, running"
		case c.Installed:
			status = "installed"
		}

		fmt.Fprintf(r.w, "%d. %s  score %d  [%s]  %s\n",
			i+1, r.s.name.Render(c.Name), sc.Score, c.Variant, r.s.dim.Render(status))
		if c.Description != "" {
			fmt.Fprintf(r.w, "   %s\n", r.s.dim.Render(c.Description))
		}
		r.explanation(sc.Explanation)

		if cmd := InstallCommand(c, ctx); cmd != "" {
			fmt.Fprintf(r.w, "   Install: %s\n", r.s.command.Render(cmd))
		}
		fmt.Fprintln(r.w)
	}
}

func (r *Renderer) explanation(text string) {
	main, warning, hasWarning := strings.Cut(text, " WARNING: ")
	var note string
	if hasWarning {
		warning, note, _ = strings.Cut(warning, "\n")
	} else {
		main, note, _ = strings.Cut(main, "\n")
	}

	fmt.Fprintf(r.w, "   %s\n", main)
	if hasWarning {
		fmt.Fprintf(r.w, "   %s\n", r.s.warning.Render("WARNING: "+warning))
	}
	for _, line := range strings.Split(note, "\n") {
		if line != "" {
			fmt.Fprintf(r.w, "   %s\n", line)
		}
	}
}

func contextLine(ctx kernel.Context) string {
	gpu := string(ctx.GPU)
	if gpu == "" {
		gpu = "unknown"
	}
	parts := []string{
		"running " + ctx.CurrentKernel,
		"gpu " + gpu,
		"use-cases " + strings.Join(ctx.UseCases, ","),
		"package manager " + ctx.PackageManager.String(),
	}
	if ctx.HasNvidiaDriver {
		parts = append(parts, "nvidia driver loaded")
	}
	if ctx.HasAudioHardware {
		parts = append(parts, "audio hardware present")
	}
	return strings.Join(parts, " | ")
}
