package main

import (
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/hardware"
	"github.com/spf13/cobra"
)

func newPowerCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "power",
		Short: "Show battery and AC adapter state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			a.out.Power(hardware.ReadPower(a.cfg.Hardware.SysfsRoot))
			return nil
		},
	}
}
