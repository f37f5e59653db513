package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shahar-caura/nephyra/internal/advisor"
	"github.com/shahar-caura/nephyra/internal/config"
	"github.com/shahar-caura/nephyra/internal/detect"
	"github.com/shahar-caura/nephyra/internal/history"
	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/shahar-caura/nephyra/internal/prefs"
	"github.com/shahar-caura/nephyra/internal/probe"
	"github.com/shahar-caura/nephyra/internal/report"
	"github.com/spf13/cobra"
)

// Overridable for testing.
var (
	newRunner   = func(logger *slog.Logger) probe.Runner { return probe.NewExec(logger) }
	newResolver = func() probe.ToolResolver { return probe.NewPathResolver() }
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	runner   probe.Runner
	resolver probe.ToolResolver
	store    *prefs.Store
	pkgs     *pkgmgr.Client
	out      *report.Renderer
	logger   *slog.Logger
}

// loadApp reads the config named by --config and wires the components.
func loadApp(cmd *cobra.Command, logger *slog.Logger) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	history.SetDir(cfg.History.Dir)

	runner := newRunner(logger)
	return &app{
		cfg:      cfg,
		runner:   runner,
		resolver: newResolver(),
		store:    prefs.NewStore(cfg.Preferences.Path),
		pkgs:     pkgmgr.New(runner, logger),
		out:      report.NewRenderer(cmd.OutOrStdout()),
		logger:   logger,
	}, nil
}

func (a *app) detector() *detect.Detector {
	return detect.New(a.runner, a.resolver, a.logger)
}

func (a *app) advisor(enhance bool) *advisor.Advisor {
	return advisor.New(advisor.Sources{
		Detector: a.detector(),
		Prefs:    a.store,
		Packages: a.pkgs,
	}, advisor.Options{
		ModulesDir:    a.cfg.Kernel.ModulesDir,
		Enhance:       enhance,
		InfoCacheSize: a.cfg.Kernel.InfoCacheSize,
	}, a.logger)
}

func promptYesNo(scanner *bufio.Scanner, w io.Writer, label string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(w, "%s %s: ", label, hint)
	scanner.Scan()
	input := strings.TrimSpace(strings.ToLower(scanner.Text()))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// --- Dynamic completions ---

func completeSnapshotIDs(toComplete string) ([]string, cobra.ShellCompDirective) {
	matches, err := filepath.Glob(filepath.Join(history.Dir(), "*.yaml"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, m := range matches {
		id := strings.TrimSuffix(filepath.Base(m), ".yaml")
		if strings.HasPrefix(id, toComplete) {
			ids = append(ids, id)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func completeGPUTypes(toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, g := range append([]string{"auto"}, gpuTypeNames()...) {
		if strings.HasPrefix(g, toComplete) {
			out = append(out, g)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
