package bootstrap

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/systmms/spsite/internal/keyvault"
	"github.com/systmms/spsite/internal/logging"
	"github.com/systmms/spsite/internal/metrics"
	"github.com/systmms/spsite/internal/sharepoint"
	"github.com/systmms/spsite/internal/token"
)

// AzureDependencies wires the real Key Vault, MSAL and SharePoint clients.
// cred authenticates to Key Vault only.
func AzureDependencies(cred azcore.TokenCredential, logger *logging.Logger, m *metrics.RunMetrics) Dependencies {
	return Dependencies{
		OpenStore: func(vaultURL string) (SecretFetcher, error) {
			return keyvault.NewStore(vaultURL, cred, keyvault.WithLogger(logger))
		},
		Acquirer: token.NewMSALAcquirer(token.WithLogger(logger)),
		OpenSite: func(siteURL, accessToken string) (WebLoader, error) {
			return sharepoint.WithBearerToken(siteURL, accessToken, sharepoint.WithLogger(logger)), nil
		},
		Logger:  logger,
		Metrics: m,
	}
}
