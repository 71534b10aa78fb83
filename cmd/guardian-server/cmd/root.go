package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Assas2401419/Guardian-Link/internal/config"
	"github.com/Assas2401419/Guardian-Link/internal/service/app"
	"github.com/Assas2401419/Guardian-Link/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// contactsFile path to the contact roster YAML file.
	contactsFile string

	// rootCmd represents the base command for running the Guardian Link server.
	rootCmd = &cobra.Command{
		Use:   "guardian-server [listen-address]",
		Short: "Run the Guardian Link safety server.",
		Long: `Starts the Guardian Link server hosting the SOS alert and Companion Mode core.

The server exposes the safety state machine over an HTTP/websocket gateway for
the UI layer: arming and cancelling the SOS countdown, starting and stopping
location-sharing sessions and streaming live state snapshots.
Listen address can be provided as argument to override config (e.g., :8473).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return app.Run(ctx, &app.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				ContactsFile:  contactsFile,
			})
		},
	}

	// initCmd writes default settings and a sample contact roster.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file and a sample contact roster.",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.Save(configPath, config.Default()); err != nil {
				return err
			}

			return os.WriteFile(config.DefaultContactsFilename, []byte(sampleRoster), config.DefaultFilePermissions)
		},
	}
)

// sampleRoster seeds a fresh installation with placeholder contacts.
const sampleRoster = `contacts:
  - id: alice
    name: Alice Example
    phone: "+10000000001"
    email: alice@example.com
  - id: bob
    name: Bob Example
    phone: "+10000000002"
    email: bob@example.com
`

// Execute runs the guardian-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&contactsFile, "contacts", "r", "", "path to contact roster (overrides config)")

	rootCmd.AddCommand(initCmd)
}
