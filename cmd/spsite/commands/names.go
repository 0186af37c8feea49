package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/spsite/internal/config"
	"github.com/systmms/spsite/internal/naming"
)

func NewNamesCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "names",
		Short: "Show the identifiers derived from the settings",
		Long: `Print the site URL, vault, secret names, tenant and scope that a run
would use, without contacting any service.

Examples:
  spsite names
  spsite names --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			settings, err := cfg.GetSettings()
			if err != nil {
				return err
			}

			names := settings.Names()
			out := cmd.OutOrStdout()

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(names)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			rows := [][2]string{
				{"Site URL", names.SiteURL},
				{"Identity", names.Identity},
				{"Vault", names.VaultURL},
				{"Client id secret", names.ClientIDSecretName},
				{"Certificate secret", names.CertificateName},
				{"Tenant", names.TenantID},
				{"Authority", names.Authority},
				{"Scope", names.Scope},
			}
			for _, row := range rows {
				fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if naming.Truncated(names.Identity) {
				cfg.Logger.Warn("Vault name truncated to %d characters; identities sharing this prefix share the vault",
					naming.MaxSecretStoreNameLength)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
