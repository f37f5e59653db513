package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
)

// InfoSource returns detailed package metadata.
type InfoSource interface {
	Info(ctx context.Context, m pkgmgr.Manager, name string) (pkgmgr.PackageInfo, error)
}

// Enhance annotates c from detailed package metadata. Annotations apply in a
// fixed order and accumulate; variant overrides are last-write-wins.
func Enhance(c Candidate, info pkgmgr.PackageInfo) Candidate {
	depends := strings.ToLower(info.Field("Depends On"))
	provides := strings.ToLower(info.Field("Provides"))
	conflicts := strings.ToLower(info.Field("Conflicts With"))
	desc := strings.ToLower(c.Description + " " + info.Field("Description"))

	if strings.Contains(depends, "nvidia") {
		c.Description = appendNote(c.Description, "(Includes NVIDIA support)")
	}
	if strings.Contains(provides, "virtualbox-guest-modules") {
		c.Description = appendNote(c.Description, "(VirtualBox guest support)")
	}
	if strings.Contains(conflicts, "linux-rt") {
		c.Variant = RealTime
	}
	if strings.Contains(desc, "hardened") || strings.Contains(provides, "hardened") {
		c.Variant = Hardened
	}
	if strings.Contains(desc, "zen") || strings.Contains(provides, "zen") {
		c.Variant = Zen
	}
	if date := info.Field("Build Date"); date != "" {
		c.Description = appendNote(c.Description, fmt.Sprintf("(Built: %s)", date))
	}
	return c
}

func appendNote(desc, note string) string {
	if desc == "" {
		return note
	}
	return desc + " " + note
}

// Enhancer runs Enhance over a catalog, caching metadata lookups so repeated
// recommendations in one process query each package once.
type Enhancer struct {
	source  InfoSource
	manager pkgmgr.Manager
	cache   *lru.Cache[string, pkgmgr.PackageInfo]
	logger  *slog.Logger
}

// NewEnhancer creates an Enhancer with an LRU cache of cacheSize entries.
func NewEnhancer(source InfoSource, m pkgmgr.Manager, cacheSize int, logger *slog.Logger) (*Enhancer, error) {
	cache, err := lru.New[string, pkgmgr.PackageInfo](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating package info cache: %w", err)
	}
	return &Enhancer{source: source, manager: m, cache: cache, logger: logger}, nil
}

// EnhanceAll returns an annotated copy of cands. Lookups that fail leave the
// candidate unchanged; the failure is cached as an empty record.
func (e *Enhancer) EnhanceAll(ctx context.Context, cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		out[i] = Enhance(c, e.lookup(ctx, c.Name))
	}
	return out
}

func (e *Enhancer) lookup(ctx context.Context, name string) pkgmgr.PackageInfo {
	key := string(e.manager) + ":" + name
	if info, ok := e.cache.Get(key); ok {
		return info
	}

	info, err := e.source.Info(ctx, e.manager, name)
	if err != nil {
		e.logger.Debug("package info unavailable", "package", name, "error", err)
		if ctx.Err() != nil {
			return pkgmgr.PackageInfo{}
		}
		info = pkgmgr.PackageInfo{}
	}
	e.cache.Add(key, info)
	return info
}
