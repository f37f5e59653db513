package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/pkgmgr"
	"github.com/spf13/cobra"
)

func newPackagesCmd(logger *slog.Logger) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Check for orphaned packages and pending updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}

			m := pkgmgr.Detect(a.resolver)
			res, err := a.pkgs.Check(cmd.Context(), m)
			if errors.Is(err, pkgmgr.ErrUnsupported) {
				fmt.Fprintln(cmd.OutOrStdout(), "Could not detect supported package manager.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("checking packages: %w", err)
			}

			a.out.Packages(res)

			if len(res.Orphans) == 0 {
				return nil
			}
			if !yes {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if !promptYesNo(scanner, cmd.OutOrStdout(), "Remove orphaned packages?", false) {
					return nil
				}
			}
			if err := a.pkgs.RemoveOrphans(cmd.Context(), res.Orphans); err != nil {
				return fmt.Errorf("removing orphans: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove orphans without prompting")
	return cmd
}
