// Package pkgmgr wraps the distribution package managers nephyra can talk to.
package pkgmgr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/shahar-caura/nephyra/internal/probe"
)

// Manager identifies a package manager by its binary name.
type Manager string

const (
	None   Manager = ""
	Pacman Manager = "pacman"
	Apt    Manager = "apt"
	Dnf    Manager = "dnf"
	Apk    Manager = "apk"
	Zypper Manager = "zypper"
	Emerge Manager = "emerge"
)

// Candidates is the probe order used by Detect.
var Candidates = []Manager{Pacman, Apt, Dnf, Apk, Zypper, Emerge}

// Detect returns the first candidate whose binary resolves, or None.
func Detect(r probe.ToolResolver) Manager {
	for _, m := range Candidates {
		if r.Has(string(m)) {
			return m
		}
	}
	return None
}

func (m Manager) String() string {
	if m == None {
		return "none"
	}
	return string(m)
}

// MarshalText encodes None as "none" so JSON output matches the text report.
func (m Manager) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (m *Manager) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "", "none":
		*m = None
	default:
		*m = Manager(s)
	}
	return nil
}

// InstallCommand renders the install command line for pkgs.
// Returns "" when the manager is unknown.
func InstallCommand(m Manager, pkgs ...string) string {
	var prefix string
	switch m {
	case Pacman:
		prefix = "sudo pacman -S"
	case Apt:
		prefix = "sudo apt install"
	case Dnf:
		prefix = "sudo dnf install"
	case Apk:
		prefix = "sudo apk add"
	case Zypper:
		prefix = "sudo zypper install"
	case Emerge:
		prefix = "sudo emerge --ask"
	default:
		return ""
	}
	return prefix + " " + strings.Join(pkgs, " ")
}

// HeadersHint returns the suggested command for installing kernel headers.
// Some distributions ship a single headers package regardless of kernel flavour.
func HeadersHint(m Manager, headersPkg string) string {
	switch m {
	case Pacman:
		return "sudo pacman -S " + headersPkg
	case Apt:
		return "sudo apt install " + headersPkg
	case Dnf:
		return "sudo dnf install kernel-headers"
	case Apk:
		return "sudo apk add linux-headers"
	case Zypper:
		return "sudo zypper install kernel-devel"
	case Emerge:
		return "sudo emerge --ask sys-kernel/linux-headers"
	default:
		return fmt.Sprintf("[No install instructions available for %s]", m)
	}
}

// Client runs package manager queries.
type Client struct {
	Runner probe.Runner
	Logger *slog.Logger

	// interactive is overridable for testing.
	interactive func(ctx context.Context, name string, args ...string) error
}

// New creates a Client.
func New(runner probe.Runner, logger *slog.Logger) *Client {
	return &Client{
		Runner:      runner,
		Logger:      logger,
		interactive: runInteractive,
	}
}

func runInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// IsInstalled reports whether pkg is installed according to m.
// Any query failure counts as not installed.
func (c *Client) IsInstalled(ctx context.Context, m Manager, pkg string) bool {
	switch m {
	case Pacman:
		out, err := c.Runner.Output(ctx, "pacman", "-Qs", pkg)
		return err == nil && out != ""
	case Apt:
		out, err := c.Runner.Output(ctx, "dpkg-query", "-W", "-f=${Status}", pkg)
		return err == nil && strings.Contains(out, "installed")
	case Dnf:
		out, err := c.Runner.Output(ctx, "dnf", "list", "installed", pkg)
		return err == nil && strings.Contains(out, pkg)
	case Apk:
		out, err := c.Runner.Output(ctx, "apk", "info", pkg)
		return err == nil && out != ""
	case Zypper:
		out, err := c.Runner.Output(ctx, "zypper", "se", "--installed-only", pkg)
		return err == nil && strings.Contains(out, pkg)
	case Emerge:
		out, err := c.Runner.Output(ctx, "emerge", "-s", pkg)
		return err == nil && strings.Contains(out, pkg)
	default:
		return false
	}
}
