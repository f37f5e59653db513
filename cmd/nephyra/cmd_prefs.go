package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/shahar-caura/nephyra/internal/kernel"
	"github.com/shahar-caura/nephyra/internal/prefs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPrefsCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or edit saved kernel preferences",
		Long: `Show or edit the preference record merged over live detection on every
suggest run. Saved GPU type and use-cases take precedence over detection.`,
	}
	cmd.AddCommand(
		newPrefsShowCmd(logger),
		newPrefsSetGPUCmd(logger),
		newPrefsSetUseCasesCmd(logger),
		newPrefsPreferCmd(logger),
		newPrefsMarkCmd(logger),
		newPrefsUnmarkCmd(logger),
		newPrefsResetCmd(logger),
	)
	return cmd
}

func gpuTypeNames() []string {
	out := make([]string, len(kernel.GPUTypes))
	for i, g := range kernel.GPUTypes {
		out[i] = string(g)
	}
	return out
}

// editPrefs loads the record, applies fn and saves it when fn reports a change.
func editPrefs(cmd *cobra.Command, logger *slog.Logger, fn func(rec *prefs.Record) (bool, error)) error {
	a, err := loadApp(cmd, logger)
	if err != nil {
		return err
	}
	rec := a.store.Load()
	changed, err := fn(&rec)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := a.store.Save(rec); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	logger.Debug("preferences saved", "path", a.store.Path())
	return nil
}

func newPrefsShowCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved preference record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(a.store.Load())
			if err != nil {
				return fmt.Errorf("marshaling preferences: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n", a.store.Path())
			_, err = w.Write(data)
			return err
		},
	}
}

func newPrefsSetGPUCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "set-gpu <nvidia|amd|intel|integrated|auto>",
		Short: "Override the detected GPU type",
		Long:  `Override the detected GPU type. "auto" clears the override so the next run re-detects.`,
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeGPUTypes(toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			if strings.EqualFold(value, "auto") {
				value = ""
			}
			return editPrefs(cmd, logger, func(rec *prefs.Record) (bool, error) {
				return true, rec.SetGPUType(value)
			})
		},
	}
}

func newPrefsSetUseCasesCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "set-use-cases <tag>[,<tag>...]",
		Short: "Replace the saved use-case list",
		Long: `Replace the saved use-case list. Known tags: dev, gaming, server, security,
audio, desktop, battery. Tags may be space or comma separated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrefs(cmd, logger, func(rec *prefs.Record) (bool, error) {
				rec.SetUseCases(args)
				if len(rec.UseCases) == 0 {
					return false, errors.New("no use-cases given")
				}
				return true, nil
			})
		},
	}
}

func newPrefsPreferCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "prefer <kernel>",
		Short: "Record a preferred kernel package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrefs(cmd, logger, func(rec *prefs.Record) (bool, error) {
				rec.PreferredKernel = strings.TrimSpace(args[0])
				return true, nil
			})
		},
	}
}

func newPrefsMarkCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <kernel>",
		Short: "Mark a kernel name fragment as problematic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrefs(cmd, logger, func(rec *prefs.Record) (bool, error) {
				if !rec.MarkProblematic(args[0]) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already marked problematic.\n", args[0])
					return false, nil
				}
				return true, nil
			})
		},
	}
}

func newPrefsUnmarkCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "unmark <kernel>",
		Short: "Remove a kernel from the problematic list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrefs(cmd, logger, func(rec *prefs.Record) (bool, error) {
				if !rec.UnmarkProblematic(args[0]) {
					return false, fmt.Errorf("%s is not marked problematic", args[0])
				}
				return true, nil
			})
		},
	}
}

func newPrefsResetCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			if err := os.Remove(a.store.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("removing preferences: %w", err)
			}
			logger.Info("preferences reset", "path", a.store.Path())
			return nil
		},
	}
}
