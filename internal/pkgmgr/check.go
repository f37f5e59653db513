package pkgmgr

import (
	"context"
	"errors"
	"strings"
)

// ErrUnsupported is returned for managers without a package check.
var ErrUnsupported = errors.New("could not detect supported package manager")

// CheckResult summarizes orphaned packages and pending updates.
type CheckResult struct {
	Manager Manager

	HasOrphans  bool
	OrphanText  string
	OrphanLabel string
	// Orphans is the removable package list; only populated for pacman.
	Orphans []string

	HasUpdates bool
	UpdateText string
}

type checkQuery struct {
	orphanArgs  []string
	orphanLabel string
	// orphansNone reports that the orphan query found nothing.
	orphansNone func(out string) bool
	updateArgs  []string
	updatesNone func(out string) bool
}

func emptyOutput(out string) bool { return strings.TrimSpace(out) == "" }

var checkQueries = map[Manager]checkQuery{
	Pacman: {
		orphanArgs:  []string{"pacman", "-Qdtq"},
		orphanLabel: "Orphaned packages",
		orphansNone: emptyOutput,
		updateArgs:  []string{"checkupdates"},
		updatesNone: emptyOutput,
	},
	Apt: {
		orphanArgs:  []string{"apt", "autoremove", "--dry-run"},
		orphanLabel: "Orphaned packages detected (auto-removable)",
		orphansNone: func(out string) bool {
			return !strings.Contains(out, "The following packages will be REMOVED:")
		},
		updateArgs: []string{"apt", "list", "--upgradable"},
		updatesNone: func(out string) bool {
			return len(strings.Split(strings.TrimSpace(out), "\n")) <= 1
		},
	},
	Dnf: {
		orphanArgs:  []string{"dnf", "repoquery", "--extras"},
		orphanLabel: "Orphaned packages",
		orphansNone: emptyOutput,
		updateArgs:  []string{"dnf", "check-update"},
		updatesNone: func(out string) bool {
			return !strings.Contains(out, "Obsoleting Packages") && !strings.Contains(out, "Last metadata expiration check")
		},
	},
	Apk: {
		orphanArgs:  []string{"apk", "info", "-d"},
		orphanLabel: "Potentially unneeded packages",
		orphansNone: emptyOutput,
		updateArgs:  []string{"apk", "version", "-l", "<"},
		updatesNone: emptyOutput,
	},
	Zypper: {
		orphanArgs:  []string{"zypper", "packages", "--orphaned"},
		orphanLabel: "Orphaned packages",
		orphansNone: emptyOutput,
		updateArgs:  []string{"zypper", "lu"},
		updatesNone: func(out string) bool { return strings.Contains(out, "No updates found.") },
	},
	Emerge: {
		orphanArgs:  []string{"emerge", "--depclean", "--pretend"},
		orphanLabel: "Orphaned packages (pretend)",
		orphansNone: func(out string) bool { return strings.Contains(out, "Nothing to clean") },
		updateArgs:  []string{"emerge", "-uDNpv", "@world"},
		updatesNone: func(out string) bool { return strings.Contains(out, "Total: 0 packages") },
	},
}

// Check runs the orphan and update queries for m. Query failures degrade to
// empty output; several managers exit non-zero when updates exist.
func (c *Client) Check(ctx context.Context, m Manager) (*CheckResult, error) {
	q, ok := checkQueries[m]
	if !ok {
		return nil, ErrUnsupported
	}

	res := &CheckResult{Manager: m, OrphanLabel: q.orphanLabel}

	orphans, err := c.Runner.Output(ctx, q.orphanArgs[0], q.orphanArgs[1:]...)
	if err != nil {
		c.Logger.Debug("orphan query failed", "manager", m, "error", err)
	}
	if !q.orphansNone(orphans) {
		res.HasOrphans = true
		res.OrphanText = strings.TrimSpace(orphans)
		if m == Pacman {
			for _, line := range strings.Split(orphans, "\n") {
				if l := strings.TrimSpace(line); l != "" {
					res.Orphans = append(res.Orphans, l)
				}
			}
		}
	}

	updates, err := c.Runner.Output(ctx, q.updateArgs[0], q.updateArgs[1:]...)
	if err != nil {
		c.Logger.Debug("update query failed", "manager", m, "error", err)
	}
	if !q.updatesNone(updates) {
		res.HasUpdates = true
		res.UpdateText = strings.TrimSpace(updates)
	}

	return res, nil
}

// RemoveOrphans removes pacman orphans with sudo, attached to the terminal.
func (c *Client) RemoveOrphans(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"pacman", "-Rns"}, pkgs...)
	c.Logger.Info("removing orphaned packages", "count", len(pkgs))
	return c.interactive(ctx, "sudo", args...)
}
