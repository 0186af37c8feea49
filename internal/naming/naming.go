// Package naming derives every identifier the bootstrap needs from the three
// configured settings. All functions are pure string transformations and
// perform no validation: a malformed setting yields a malformed identifier
// that only fails once it reaches the network.
package naming

import (
	"fmt"
	"strings"
)

// MaxSecretStoreNameLength is the longest vault name Azure Key Vault accepts.
const MaxSecretStoreNameLength = 24

// Names holds the identifiers derived from one set of settings.
type Names struct {
	SiteURL            string `json:"site_url" yaml:"site_url"`
	Identity           string `json:"identity" yaml:"identity"`
	SecretStoreName    string `json:"secret_store_name" yaml:"secret_store_name"`
	VaultURL           string `json:"vault_url" yaml:"vault_url"`
	CertificateName    string `json:"certificate_name" yaml:"certificate_name"`
	ClientIDSecretName string `json:"client_id_secret_name" yaml:"client_id_secret_name"`
	TenantID           string `json:"tenant_id" yaml:"tenant_id"`
	Authority          string `json:"authority" yaml:"authority"`
	Scope              string `json:"scope" yaml:"scope"`
}

// Derive computes all identifiers for environment, site and name.
func Derive(environment, site, name string) Names {
	identity := Identity(environment, name)
	store := SecretStoreName(identity)
	tenant := TenantID(environment)

	return Names{
		SiteURL:            SiteURL(environment, site),
		Identity:           identity,
		SecretStoreName:    store,
		VaultURL:           VaultURL(store),
		CertificateName:    CertificateName(identity),
		ClientIDSecretName: ClientIDSecretName(identity),
		TenantID:           tenant,
		Authority:          Authority(tenant),
		Scope:              Scope(environment),
	}
}

// SiteURL returns the SharePoint site address. site is appended verbatim and
// is expected to start with a slash.
func SiteURL(environment, site string) string {
	return fmt.Sprintf("https://%s.sharepoint.com%s", environment, site)
}

// Identity returns the logical service identity name.
func Identity(environment, name string) string {
	return fmt.Sprintf("%s-%s", environment, name)
}

// SecretStoreName clamps identity to MaxSecretStoreNameLength characters.
// Two identities sharing a 24 character prefix map to the same vault.
func SecretStoreName(identity string) string {
	if len(identity) > MaxSecretStoreNameLength {
		return identity[:MaxSecretStoreNameLength]
	}
	return identity
}

// Truncated reports whether SecretStoreName shortens identity.
func Truncated(identity string) bool {
	return len(identity) > MaxSecretStoreNameLength
}

// CertificateName returns the name of the secret holding the certificate.
func CertificateName(identity string) string {
	return identity
}

// ClientIDSecretName returns the name of the secret holding the client id.
// Underscores and hyphens are stripped.
func ClientIDSecretName(identity string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(identity)
}

// TenantID returns the directory tenant for environment.
func TenantID(environment string) string {
	return fmt.Sprintf("%s.onmicrosoft.com", environment)
}

// Scope returns the app-only scope for the SharePoint tenant.
func Scope(environment string) string {
	return fmt.Sprintf("https://%s.sharepoint.com/.default", environment)
}

// VaultURL returns the Key Vault endpoint for a secret store name.
func VaultURL(storeName string) string {
	return fmt.Sprintf("https://%s.vault.azure.net", storeName)
}

// Authority returns the Microsoft identity platform authority for tenantID.
func Authority(tenantID string) string {
	return "https://login.microsoftonline.com/" + tenantID
}
