package kernel

import "strings"

// variantMarkers is checked in order; the first marker found in the name wins.
var variantMarkers = []struct {
	variant Variant
	markers []string
}{
	{RealTime, []string{"rt", "real"}},
	{LTS, []string{"lts"}},
	{Zen, []string{"zen"}},
	{Hardened, []string{"hardened"}},
	{Mainline, []string{"mainline"}},
}

// ClassifyVariant derives the variant from a kernel name with a
// case-insensitive substring test. Unmatched names are Standard.
func ClassifyVariant(name string) Variant {
	lower := strings.ToLower(name)
	for _, vm := range variantMarkers {
		for _, m := range vm.markers {
			if strings.Contains(lower, m) {
				return vm.variant
			}
		}
	}
	return Standard
}
