package report

import (
	"fmt"

	"github.com/shahar-caura/nephyra/internal/pkgmgr"
)

// Packages prints orphan and update findings.
func (r *Renderer) Packages(res *pkgmgr.CheckResult) {
	fmt.Fprintln(r.w, r.s.title.Render("Package Check"))
	fmt.Fprintf(r.w, "Package manager: %s\n\n", res.Manager)

	if res.HasOrphans {
		fmt.Fprintf(r.w, "%s:\n%s\n", r.s.warning.Render(res.OrphanLabel), res.OrphanText)
	} else {
		fmt.Fprintln(r.w, r.s.ok.Render("No orphaned packages detected."))
	}

	fmt.Fprintln(r.w)
	if res.HasUpdates {
		fmt.Fprintf(r.w, "%s\n%s\n", r.s.warning.Render("Available updates:"), res.UpdateText)
	} else {
		fmt.Fprintln(r.w, r.s.ok.Render("All packages up to date."))
	}
}
