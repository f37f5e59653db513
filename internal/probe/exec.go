// Package probe runs external system queries and resolves tools on PATH.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes a system query and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ToolResolver reports whether a named executable is available.
type ToolResolver interface {
	Has(name string) bool
}

// Exec implements Runner with os/exec.
type Exec struct {
	Logger *slog.Logger

	// commandContext is overridable for testing.
	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExec creates an Exec runner.
func NewExec(logger *slog.Logger) *Exec {
	return &Exec{
		Logger:         logger,
		commandContext: exec.CommandContext,
	}
}

// Output runs name with args. A non-zero exit is an error; stdout is still
// returned so callers that only care about partial output can use it.
func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := e.commandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		e.Logger.Debug("probe failed", "cmd", name, "args", args, "error", err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return string(out), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(out), fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

// PathResolver implements ToolResolver against the executable search path.
type PathResolver struct {
	// lookPath is overridable for testing.
	lookPath func(file string) (string, error)
}

// NewPathResolver creates a resolver backed by exec.LookPath.
func NewPathResolver() *PathResolver {
	return &PathResolver{lookPath: exec.LookPath}
}

func (r *PathResolver) Has(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

// OutputOrEmpty runs a query and degrades any failure to "".
func OutputOrEmpty(ctx context.Context, r Runner, name string, args ...string) string {
	out, err := r.Output(ctx, name, args...)
	if err != nil {
		return ""
	}
	return out
}
