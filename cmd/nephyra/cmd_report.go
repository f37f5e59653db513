package main

import (
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/hardware"
	"github.com/shahar-caura/nephyra/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a combined system report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			status := a.advisor(false).KernelStatus(ctx)
			info := hardware.NewCollector(a.runner, logger).Collect(ctx)
			power := hardware.ReadPower(a.cfg.Hardware.SysfsRoot)
			boot := hardware.DetectBootloader(a.cfg.Hardware.Root)

			a.out.System(
				report.KernelSummary(status),
				info.Summary(),
				power.Summary(),
				boot.Summary(),
			)
			return nil
		},
	}
}
