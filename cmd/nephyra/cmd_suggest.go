package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shahar-caura/nephyra/internal/advisor"
	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/watch"
	"github.com/spf13/cobra"
)

type suggestOptions struct {
	top       int
	json      bool
	noEnhance bool
	watch     bool
}

func newSuggestCmd(logger *slog.Logger) *cobra.Command {
	var opts suggestOptions
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Recommend kernels for this machine",
		Long: `Detect the running kernel, GPU, package manager and use-cases, merge them
with the saved preferences and rank every installed or available kernel.

With --watch the ranking is refreshed whenever the kernel modules directory
or the preference file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			return cmdSuggest(cmd.Context(), a, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "Number of recommendations to show (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the ranking as JSON")
	cmd.Flags().BoolVar(&opts.noEnhance, "no-enhance", false, "Skip package metadata lookups")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when kernels or preferences change")
	return cmd
}

// suggestOutput is the --json document.
type suggestOutput struct {
	Context         kernel.Context  `json:"context"`
	PreferredKernel string          `json:"preferred_kernel,omitempty"`
	Recommendations []kernel.Scored `json:"recommendations"`
}

func cmdSuggest(ctx context.Context, a *app, opts suggestOptions) error {
	top := opts.top
	if top <= 0 {
		top = a.cfg.Kernel.Top
	}
	adv := a.advisor(a.cfg.Kernel.Enhance && !opts.noEnhance)

	render := func(ctx context.Context) error {
		res := adv.Recommend(ctx)
		adv.SaveHistory(res, top, a.cfg.History.Retention.Duration)
		if opts.json {
			return writeSuggestJSON(a, res, top)
		}
		a.out.Recommendations(res.Ranked, res.Context, top)
		return nil
	}

	if err := render(ctx); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	dirs := []string{a.cfg.Kernel.ModulesDir, filepath.Dir(a.store.Path())}
	w := watch.New(dirs, a.cfg.Watch.Debounce.Duration, a.logger)
	a.logger.Info("watching for changes, press Ctrl-C to stop", "dirs", dirs)
	return w.Start(ctx, func(ctx context.Context) {
		fmt.Fprintln(a.out.Writer())
		if err := render(ctx); err != nil {
			a.logger.Error("refreshing recommendations", "error", err)
		}
	})
}

func writeSuggestJSON(a *app, res advisor.Result, top int) error {
	doc := suggestOutput{
		Context:         res.Context,
		PreferredKernel: res.PreferredKernel,
		Recommendations: kernel.Top(res.Ranked, top),
	}
	if doc.Recommendations == nil {
		doc.Recommendations = []kernel.Scored{}
	}
	enc := json.NewEncoder(a.out.Writer())
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	return nil
}
