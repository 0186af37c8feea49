package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/spsite/cmd/spsite/commands"
	"github.com/systmms/spsite/internal/config"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
	"github.com/systmms/spsite/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	secure.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.SimplifyError(err))
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile  string
		metricsFile string
		noColor     bool
		debug       bool
	)

	cfg := &config.Config{}
	var detachSDKLog func()
	defer func() {
		if detachSDKLog != nil {
			detachSDKLog()
		}
	}()

	rootCmd := &cobra.Command{
		Use:   "spsite",
		Short: "Read a SharePoint site title with an app-only certificate token",
		Long: `spsite bootstraps an app-only identity: it reads the client id and
certificate from Azure Key Vault, exchanges the certificate for an access
token and prints the title of the configured SharePoint site.

Settings come from appsettings.json (environment, site, name) and may be
overridden with SPSITE_ENVIRONMENT, SPSITE_SITE and SPSITE_NAME.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)
			detachSDKLog = logging.BridgeAzureSDK(logger)

			cfg.Path = configFile
			cfg.Logger = logger
			cfg.MetricsFile = metricsFile
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Settings file path")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write stage metrics in Prometheus text format to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	titleCmd := commands.NewTitleCommand(cfg, commands.AzureDependencies)
	rootCmd.RunE = titleCmd.RunE

	rootCmd.AddCommand(
		titleCmd,
		commands.NewNamesCommand(cfg),
	)

	return rootCmd.Execute()
}
