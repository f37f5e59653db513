package kernel

import (
	"slices"
	"sort"
	"strings"
)

// Scoring messages.
const (
	warnProblematic   = "previously marked problematic"
	warnZenOnLaptop   = "Zen causes overheating on AMD/Intel GPUs and laptops; prefer EEVDF/LTO variant"
	warnRTNoAudio     = "RT not recommended without audio/production need"
	warnHardenedNoSec = "Hardened not recommended without security need"
	warnNvidia        = "avoid Zen/RT/Hardened with NVIDIA; use LTS/Standard"

	reasonEEVDF    = "EEVDF recommended for desktop/gaming/dev on AMD/Intel"
	reasonLTS      = "LTS preferred for server/battery stability"
	reasonRT       = "RT best for audio/production"
	reasonHardened = "Hardened best for security-focused systems"
	reasonStandard = "Standard is a safe default"
	reasonNone     = "no special advantage for this context."

	// HeadersNote is appended to every explanation when the dev use-case is active.
	HeadersNote = "\nNOTE: dev use-case detected; install the matching kernel headers\n" +
		"      (needed to build out-of-tree modules such as DKMS drivers)"
)

func isNonNvidiaGPU(g GPUType) bool {
	return g == GPUIntegrated || g == GPUAMD || g == GPUIntel
}

// Score computes an additive score and a human-readable explanation for one
// candidate. Rules run in a fixed order; a later warning replaces an earlier one.
func Score(c Candidate, ctx Context) (int, string) {
	var (
		score        int
		reasons      []string
		warning      string
		needsHeaders bool
	)

	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)

	for _, bad := range ctx.ProblematicKernels {
		if bad != "" && strings.Contains(c.Name, bad) {
			score -= 10
			warning = warnProblematic
			break
		}
	}

	if c.Variant == Zen && isNonNvidiaGPU(ctx.GPU) {
		score -= 4
		warning = warnZenOnLaptop
	}

	if (strings.Contains(name, "eevdf") || strings.Contains(desc, "eevdf")) &&
		ctx.HasAnyUseCase(UseDev, UseGaming, UseDesktop) &&
		isNonNvidiaGPU(ctx.GPU) {
		score += 6
		reasons = append(reasons, reasonEEVDF)
	}

	if c.Variant == LTS && ctx.HasAnyUseCase(UseServer, UseBattery) {
		score += 4
		reasons = append(reasons, reasonLTS)
	}

	if c.Variant == RealTime {
		if ctx.HasUseCase(UseAudio) {
			score += 5
			reasons = append(reasons, reasonRT)
		} else {
			score -= 2
			warning = warnRTNoAudio
		}
	}

	if c.Variant == Hardened {
		if ctx.HasUseCase(UseSecurity) {
			score += 4
			reasons = append(reasons, reasonHardened)
		} else {
			score -= 2
			warning = warnHardenedNoSec
		}
	}

	if c.Variant == Standard && ctx.HasAnyUseCase(UseDesktop, UseServer) {
		score += 2
		reasons = append(reasons, reasonStandard)
	}

	if ctx.HasNvidiaDriver && slices.Contains([]Variant{Zen, RealTime, Hardened}, c.Variant) {
		score -= 6
		warning = warnNvidia
	}

	if ctx.HasAudioHardware && c.Variant == RealTime {
		score += 2
	}

	if ctx.HasUseCase(UseDev) {
		needsHeaders = true
	}

	var sb strings.Builder
	if len(reasons) == 0 {
		sb.WriteString(reasonNone)
	} else {
		sb.WriteString(strings.Join(reasons, "; "))
	}
	if warning != "" {
		sb.WriteString(" WARNING: " + warning)
	}
	if needsHeaders {
		sb.WriteString(HeadersNote)
	}
	return score, sb.String()
}

// Rank scores every candidate and sorts by score descending. Equal scores
// keep catalog order.
func Rank(cands []Candidate, ctx Context) []Scored {
	out := make([]Scored, len(cands))
	for i, c := range cands {
		score, why := Score(c, ctx)
		out[i] = Scored{Candidate: c, Score: score, Explanation: why}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Top returns at most n leading entries of ranked.
func Top(ranked []Scored, n int) []Scored {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
