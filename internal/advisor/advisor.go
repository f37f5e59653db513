// Package advisor wires detection, preferences, the kernel catalog and
// scoring into one recommendation run.
package advisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shahar-caura/nephyra/internal/detect"
	"github.com/shahar-caura/nephyra/internal/history"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/shahar-caura/nephyra/internal/prefs"
	"github.com/shahar-caura/nephyra/internal/report"
)

// Detector produces live machine facts.
type Detector interface {
	Detect(ctx context.Context) detect.Facts
}

// PreferenceStore loads and saves the preference record.
type PreferenceStore interface {
	Load() prefs.Record
	Save(rec prefs.Record) error
}

// PackageSource answers package manager queries.
type PackageSource interface {
	kernel.InfoSource
	SearchKernels(ctx context.Context, m pkgmgr.Manager) string
	IsInstalled(ctx context.Context, m pkgmgr.Manager, pkg string) bool
}

// Sources holds the wired collaborators for a run.
type Sources struct {
	Detector Detector
	Prefs    PreferenceStore
	Packages PackageSource
}

// Options controls catalog assembly.
type Options struct {
	ModulesDir    string
	Enhance       bool
	InfoCacheSize int
}

// Result is the outcome of one recommendation run.
type Result struct {
	Context         kernel.Context  `json:"context"`
	PreferredKernel string          `json:"preferred_kernel,omitempty"`
	Ranked          []kernel.Scored `json:"recommendations"`
}

// Advisor runs recommendations. It is safe to reuse across runs; package
// metadata lookups are cached between them.
type Advisor struct {
	src    Sources
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	enhancers map[pkgmgr.Manager]*kernel.Enhancer
}

// New creates an Advisor.
func New(src Sources, opts Options, logger *slog.Logger) *Advisor {
	return &Advisor{
		src:       src,
		opts:      opts,
		logger:    logger,
		enhancers: make(map[pkgmgr.Manager]*kernel.Enhancer),
	}
}

// Recommend detects, merges preferences, builds the catalog and ranks it.
// The merged record is saved only when merging changed it, so a run over
// an up-to-date record leaves the preference file untouched. Probe and
// persistence failures degrade the result but never fail the run.
func (a *Advisor) Recommend(ctx context.Context) Result {
	stored := a.src.Prefs.Load()
	rec := stored
	facts := a.src.Detector.Detect(ctx)
	kctx := prefs.Merge(&rec, facts)
	if !rec.Equal(stored) {
		if err := a.src.Prefs.Save(rec); err != nil {
			a.logger.Debug("saving preferences", "error", err)
		}
	}

	installed, err := kernel.InstalledKernels(a.opts.ModulesDir)
	if err != nil {
		a.logger.Debug("listing installed kernels", "error", err)
	}
	listing := a.src.Packages.SearchKernels(ctx, kctx.PackageManager)

	cands := kernel.BuildCatalog(installed, kctx.CurrentKernel, listing)
	if e := a.enhancer(kctx.PackageManager); e != nil {
		cands = e.EnhanceAll(ctx, cands)
	}

	ranked := kernel.Rank(cands, kctx)
	a.logger.Debug("ranked candidates", "count", len(ranked), "installed", len(installed))

	return Result{
		Context:         kctx,
		PreferredKernel: rec.PreferredKernel,
		Ranked:          ranked,
	}
}

// enhancer returns the cached Enhancer for m, or nil when enhancement is
// off or no package manager is known.
func (a *Advisor) enhancer(m pkgmgr.Manager) *kernel.Enhancer {
	if !a.opts.Enhance || m == pkgmgr.None {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.enhancers[m]; ok {
		return e
	}
	e, err := kernel.NewEnhancer(a.src.Packages, m, a.opts.InfoCacheSize, a.logger)
	if err != nil {
		a.logger.Warn("package metadata enhancement disabled", "error", err)
		return nil
	}
	a.enhancers[m] = e
	return e
}

// KernelStatus reports the running and installed kernels and whether the
// running kernel's headers package is installed.
func (a *Advisor) KernelStatus(ctx context.Context) report.KernelStatus {
	facts := a.src.Detector.Detect(ctx)

	installed, err := kernel.InstalledKernels(a.opts.ModulesDir)
	if err != nil {
		a.logger.Debug("listing installed kernels", "error", err)
	}

	s := report.KernelStatus{
		Current:        facts.CurrentKernel,
		Installed:      installed,
		Manager:        facts.PackageManager,
		HeadersPackage: report.PackageBaseName(facts.CurrentKernel) + "-headers",
	}
	if s.Manager != pkgmgr.None {
		s.HeadersInstalled = a.src.Packages.IsInstalled(ctx, s.Manager, s.HeadersPackage)
	}
	return s
}

// SaveHistory records the top n of res as a run snapshot and prunes
// snapshots older than retention. Failures are logged, not returned.
func (a *Advisor) SaveHistory(res Result, n int, retention time.Duration) *history.Snapshot {
	snap := history.New(res.Context, res.Ranked, n)
	if err := snap.Save(); err != nil {
		a.logger.Debug("saving run snapshot", "error", err)
		return nil
	}
	if deleted, err := history.Cleanup(retention); err != nil {
		a.logger.Debug("pruning run history", "error", err)
	} else if deleted > 0 {
		a.logger.Debug("pruned run history", "deleted", deleted)
	}
	return snap
}
