package main

import (
	"log/slog"

	"github.com/shahar-caura/nephyra/internal/hardware"
	"github.com/spf13/cobra"
)

func newHardwareCmd(logger *slog.Logger) *cobra.Command {
	var noLog bool
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Summarize CPU, memory and storage",
		Long: `Summarize CPU, memory, kernel version and block devices. The raw probe
output (including lspci -v) is appended to the hardware log file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, logger)
			if err != nil {
				return err
			}

			c := hardware.NewCollector(a.runner, logger)
			info := c.Collect(cmd.Context())

			logPath := a.cfg.Hardware.LogPath
			if noLog {
				logPath = ""
			} else if err := c.AppendLog(logPath, info); err != nil {
				logger.Warn("could not write hardware log", "path", logPath, "error", err)
				logPath = ""
			}

			a.out.Hardware(info, logPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noLog, "no-log", false, "Do not append raw output to the hardware log")
	return cmd
}
