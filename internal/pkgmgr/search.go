package pkgmgr

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// PackageInfo holds the detailed metadata fields of one package, keyed by
// pacman field names ("Depends On", "Build Date", ...).
type PackageInfo map[string]string

// Field returns the value of key, or "" when absent.
func (p PackageInfo) Field(key string) string {
	return p[key]
}

// aptFieldAliases maps apt-cache field names onto the pacman names.
var aptFieldAliases = map[string]string{
	"Package":   "Name",
	"Depends":   "Depends On",
	"Conflicts": "Conflicts With",
	"Homepage":  "URL",
	"Breaks":    "Conflicts With",
}

// ParseInfo parses "Key : Value" (pacman -Si) or "Key: Value" (apt-cache
// show) blocks. Indented lines continue the previous field. "None" values
// are treated as absent. Only the first record is read.
func ParseInfo(text string) PackageInfo {
	info := make(PackageInfo)
	var last string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(info) > 0 {
				break
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if last != "" {
				info[last] = strings.TrimSpace(info[last] + " " + strings.TrimSpace(line))
			}
			continue
		}

		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := strings.TrimSpace(k)
		if alias, ok := aptFieldAliases[key]; ok {
			key = alias
		}
		val := strings.TrimSpace(v)
		if val == "None" {
			val = ""
		}
		info[key] = val
		last = key
	}
	return info
}

// SearchKernels returns the available-kernel listing in the
// "<repo>/<name> <version> [flags] <description>" form. Managers without a
// supported search degrade to "".
func (c *Client) SearchKernels(ctx context.Context, m Manager) string {
	switch m {
	case Pacman:
		out, err := c.Runner.Output(ctx, "pacman", "-Ss", "^linux")
		if err != nil {
			c.Logger.Debug("kernel search failed", "manager", m, "error", err)
			return ""
		}
		return out
	case Apt:
		out, err := c.Runner.Output(ctx, "apt-cache", "search", "--names-only", "^linux-image-")
		if err != nil {
			c.Logger.Debug("kernel search failed", "manager", m, "error", err)
			return ""
		}
		return normalizeAptSearch(out)
	default:
		c.Logger.Debug("kernel search not supported", "manager", m)
		return ""
	}
}

// normalizeAptSearch rewrites "name - description" lines into the tabular
// listing form. apt-cache search carries no version, so "-" is used.
func normalizeAptSearch(out string) string {
	var sb strings.Builder
	for _, line := range strings.Split(out, "\n") {
		name, desc, ok := strings.Cut(strings.TrimSpace(line), " - ")
		if !ok || name == "" {
			continue
		}
		fmt.Fprintf(&sb, "apt/%s - %s\n", name, desc)
	}
	return sb.String()
}

// Info queries detailed metadata for one package.
func (c *Client) Info(ctx context.Context, m Manager, name string) (PackageInfo, error) {
	var (
		out string
		err error
	)
	switch m {
	case Pacman:
		out, err = c.Runner.Output(ctx, "pacman", "-Si", name)
	case Apt:
		out, err = c.Runner.Output(ctx, "apt-cache", "show", name)
	default:
		return nil, fmt.Errorf("package info not supported for %s", m)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	return ParseInfo(out), nil
}
