package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shahar-caura/nephyra/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

// logLevel is raised to debug by --verbose.
var logLevel = new(slog.LevelVar)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	config.LoadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(logger).ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("nephyra failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "nephyra",
		Short: "Linux system diagnostics and kernel recommendations",
		Long: `nephyra inspects the running machine and recommends the kernel package
best suited to its hardware and workload. It also reports kernel, hardware,
power, bootloader and package-manager state.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logLevel.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().String("config", "", "Config file (default <user config dir>/nephyra/config.yaml)")

	root.AddCommand(
		newSuggestCmd(logger),
		newKernelCmd(logger),
		newPrefsCmd(logger),
		newHardwareCmd(logger),
		newPowerCmd(logger),
		newBootloaderCmd(logger),
		newPackagesCmd(logger),
		newReportCmd(logger),
		newHistoryCmd(logger),
		newCompletionCmd(),
	)
	return root
}
