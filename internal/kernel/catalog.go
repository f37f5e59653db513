package kernel

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// InstalledKernels lists the immediate subdirectories of the kernel-modules
// directory, sorted by name.
func InstalledKernels(modulesDir string) ([]string, error) {
	entries, err := os.ReadDir(modulesDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", modulesDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// nonKernelSuffixes and nonKernelMarkers exclude packages that share the
// linux prefix but do not ship a kernel image.
var (
	nonKernelSuffixes = []string{"-headers", "-docs", "-doc", "-dbg"}
	nonKernelMarkers  = []string{"firmware", "api-headers", "tools", "-meta", "manpages", "atm", "hotspot"}
)

// IsKernelPackage reports whether a searched package name looks like a kernel.
func IsKernelPackage(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range nonKernelSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	for _, m := range nonKernelMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}

// ParseAvailable parses a "<repo>/<name> <version> [flags] <description...>"
// listing. An indented line continues the previous entry's description.
// Bracketed and parenthesized flags after the version are dropped. Entries
// that are not kernel packages and repeated names are skipped.
func ParseAvailable(listing string) []Candidate {
	var (
		out  []Candidate
		seen = make(map[string]bool)
		cur  *Candidate
	)

	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if cur != nil {
				cur.Description = strings.TrimSpace(cur.Description + " " + strings.TrimSpace(line))
			}
			continue
		}

		c, ok := parseListingLine(line)
		cur = nil
		if !ok || seen[c.Name] || !IsKernelPackage(c.Name) {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
		cur = &out[len(out)-1]
	}

	for i := range out {
		out[i].Variant = ClassifyVariant(out[i].Name)
	}
	return out
}

func parseListingLine(line string) (Candidate, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Candidate{}, false
	}

	name := fields[0]
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return Candidate{}, false
	}

	c := Candidate{Name: name}
	if len(fields) > 1 {
		c.Version = fields[1]
	}

	rest := fields[min(2, len(fields)):]
	rest = stripFlags(rest)
	c.Description = strings.Join(rest, " ")
	return c, true
}

// stripFlags drops leading "[...]" and "(...)" groups, which may span tokens.
func stripFlags(tokens []string) []string {
	for len(tokens) > 0 {
		var closer string
		switch tokens[0][0] {
		case '[':
			closer = "]"
		case '(':
			closer = ")"
		default:
			return tokens
		}
		i := 0
		for i < len(tokens) && !strings.HasSuffix(tokens[i], closer) {
			i++
		}
		if i == len(tokens) {
			return nil
		}
		tokens = tokens[i+1:]
	}
	return tokens
}

// BuildCatalog unions installed kernels with the available listing.
// Installed entries come first in the given order and carry Installed; an
// available entry is added only when no installed entry shares its name.
func BuildCatalog(installed []string, currentKernel, listing string) []Candidate {
	out := make([]Candidate, 0, len(installed))
	seen := make(map[string]bool, len(installed))

	for _, name := range installed {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Candidate{
			Name:        name,
			Version:     name,
			Description: "installed kernel",
			Variant:     ClassifyVariant(name),
			Installed:   true,
			Running:     name == currentKernel,
		})
	}

	for _, c := range ParseAvailable(listing) {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}
