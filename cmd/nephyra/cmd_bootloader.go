package main

import (
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/hardware"
	"github.com/spf13/cobra"
)

func newBootloaderCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "bootloader",
		Short: "Identify the installed bootloader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}
			a.out.Bootloader(hardware.DetectBootloader(a.cfg.Hardware.Root))
			return nil
		},
	}
}
