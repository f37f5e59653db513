package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newKernelCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "kernel",
		Short: "Show running and installed kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			status := a.advisor(false).KernelStatus(cmd.Context())
			a.out.KernelStatus(status)
			return nil
		},
	}
}
