package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Assas2401419/Guardian-Link/internal/config"
	"github.com/Assas2401419/Guardian-Link/internal/service/trigger"
	"github.com/Assas2401419/Guardian-Link/internal/version"
)

var (
	// configPath stores the configuration file path.
	configPath string

	// rootCmd represents the base command for SOS operations.
	rootCmd = &cobra.Command{
		Use:   "guardian-sos",
		Short: "Arm, cancel or clear an SOS on a running Guardian Link server.",
		Long: `Talks to a running guardian-server over its HTTP gateway.

Arming starts the cancellable countdown; once it fires, the emergency stays
active and shares the live position with the whole contact roster until
"safe" clears it.`,
	}
)

// Execute runs the guardian-sos CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newActionCommand builds a subcommand performing one SOS action.
func newActionCommand(use, short string, action trigger.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [server-address]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return trigger.Run(ctx, &trigger.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Action:        action,
			})
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.AddCommand(
		newActionCommand("arm", "Start the cancellable SOS countdown.", trigger.ActionArm),
		newActionCommand("cancel", "Abort an armed SOS countdown.", trigger.ActionCancel),
		newActionCommand("safe", "Clear a fired emergency.", trigger.ActionSafe),
	)
}
