package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/spsite/internal/bootstrap"
	"github.com/systmms/spsite/internal/config"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/keyvault"
	"github.com/systmms/spsite/internal/metrics"
)

// DependenciesFunc builds the external collaborators for one run.
type DependenciesFunc func(cfg *config.Config, m *metrics.RunMetrics) (bootstrap.Dependencies, error)

// AzureDependencies uses the ambient Azure credential for Key Vault and the
// real MSAL and SharePoint clients.
func AzureDependencies(cfg *config.Config, m *metrics.RunMetrics) (bootstrap.Dependencies, error) {
	cred, err := keyvault.DefaultCredential()
	if err != nil {
		return bootstrap.Dependencies{}, err
	}
	return bootstrap.AzureDependencies(cred, cfg.Logger, m), nil
}

func NewTitleCommand(cfg *config.Config, build DependenciesFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "title",
		Short: "Print the configured site's title (default command)",
		Long: `Run the full bootstrap and print the site title to stdout.

Examples:
  # Use appsettings.json in the current directory
  spsite

  # Point at another settings file and keep stage metrics
  spsite title --config /etc/spsite/hr.json --metrics-file /var/lib/node_exporter/spsite.prom`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			if cfg.MetricsFile != "" {
				defer func() {
					if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
						cfg.Logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, werr)
					}
				}()
			}

			settings, err := loadSettings(cfg, m)
			if err != nil {
				m.Finish(err)
				return err
			}

			deps, err := build(cfg, m)
			if err != nil {
				m.Finish(err)
				return err
			}

			return bootstrap.Run(context.Background(), settings, deps, cmd.OutOrStdout())
		},
	}
}

// loadSettings runs the config stage. Its outcome is recorded like any
// pipeline stage.
func loadSettings(cfg *config.Config, m *metrics.RunMetrics) (config.Settings, error) {
	start := time.Now()
	err := cfg.Load()
	var settings config.Settings
	if err == nil {
		settings, err = cfg.GetSettings()
	}
	m.Observe(string(dserrors.StageConfig), time.Since(start), err)
	if err != nil {
		return config.Settings{}, dserrors.StageError{Stage: dserrors.StageConfig, Err: err}
	}
	return settings, nil
}
