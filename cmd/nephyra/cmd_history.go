package main

import (
	"fmt"
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past recommendation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadApp(cmd, logger); err != nil {
				return err
			}
			return cmdHistory(cmd)
		},
	}
	cmd.AddCommand(newHistoryShowCmd(logger))
	return cmd
}

func cmdHistory(cmd *cobra.Command) error {
	runs, err := history.List()
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-20s  %-28s  %s\n", "ID", "CREATED", "KERNEL", "TOP")
	for _, r := range runs {
		top := "-"
		if len(r.Recommendations) > 0 {
			top = r.Recommendations[0].Name
		}
		fmt.Fprintf(w, "%-24s  %-20s  %-28s  %s\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.CurrentKernel,
			top,
		)
	}
	return nil
}

func newHistoryShowCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the recommendations recorded by a run",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			if _, err := loadApp(cmd, logger); err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeSnapshotIDs(toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadApp(cmd, logger); err != nil {
				return err
			}
			snap, err := history.Load(args[0])
			if err != nil {
				return fmt.Errorf("loading run %s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Run %s at %s\n", snap.ID, snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Kernel: %s  Package manager: %s  GPU: %s\n", snap.CurrentKernel, snap.PackageManager, orDash(snap.GPU))
			fmt.Fprintf(w, "Use-cases: %v  Candidates: %d\n", snap.UseCases, snap.Candidates)
			for i, e := range snap.Recommendations {
				installed := ""
				if e.Installed {
					installed = " (installed)"
				}
				fmt.Fprintf(w, "%d. %s [%s] score %d%s\n", i+1, e.Name, e.Variant, e.Score, installed)
				if e.Explanation != "" {
					fmt.Fprintf(w, "   %s\n", e.Explanation)
				}
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
