package naming_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/spsite/internal/naming"
)

func TestSecretStoreName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity string
		expected string
	}{
		{name: "short identity unchanged", identity: "contoso-svc", expected: "contoso-svc"},
		{name: "empty identity", identity: "", expected: ""},
		{name: "exactly 24 characters", identity: "abcdefghijklmnopqrstuvwx", expected: "abcdefghijklmnopqrstuvwx"},
		{name: "25 characters truncated", identity: "abcdefghijklmnopqrstuvwxy", expected: "abcdefghijklmnopqrstuvwx"},
		{name: "long identity truncated", identity: "fabrikamproduction-sharepoint-sync", expected: "fabrikamproduction-share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := naming.SecretStoreName(tt.identity)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), naming.MaxSecretStoreNameLength)
			assert.Equal(t, len(tt.identity) > 24, naming.Truncated(tt.identity))
		})
	}
}

func TestSecretStoreNamePrefixProperty(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 60; n++ {
		identity := strings.Repeat("a-b_", 15)[:n]
		got := naming.SecretStoreName(identity)

		if n <= 24 {
			assert.Equal(t, identity, got)
			continue
		}
		assert.Len(t, got, 24)
		assert.True(t, strings.HasPrefix(identity, got))
	}
}

func TestClientIDSecretName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identity string
		expected string
	}{
		{"contoso-svc", "contososvc"},
		{"contoso_svc", "contososvc"},
		{"a-_-b__c", "abc"},
		{"plain", "plain"},
		{"", ""},
		{"---___", ""},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			t.Parallel()
			got := naming.ClientIDSecretName(tt.identity)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, "-")
			assert.NotContains(t, got, "_")

			var kept strings.Builder
			for _, r := range tt.identity {
				if r != '-' && r != '_' {
					kept.WriteRune(r)
				}
			}
			assert.Equal(t, kept.String(), got)
		})
	}
}

func TestURLs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://contoso.sharepoint.com/sites/team", naming.SiteURL("contoso", "/sites/team"))
	assert.Equal(t, "contoso.onmicrosoft.com", naming.TenantID("contoso"))
	assert.Equal(t, "https://contoso.sharepoint.com/.default", naming.Scope("contoso"))
	assert.Equal(t, "https://contoso-svc.vault.azure.net", naming.VaultURL("contoso-svc"))
	assert.Equal(t, "https://login.microsoftonline.com/contoso.onmicrosoft.com", naming.Authority("contoso.onmicrosoft.com"))
}

func TestMalformedSettingsPropagate(t *testing.T) {
	t.Parallel()

	names := naming.Derive("", "sites/no-slash", "")
	assert.Equal(t, "https://.sharepoint.comsites/no-slash", names.SiteURL)
	assert.Equal(t, "-", names.Identity)
	assert.Equal(t, "", names.ClientIDSecretName)
	assert.Equal(t, ".onmicrosoft.com", names.TenantID)
}

func TestDerive(t *testing.T) {
	t.Parallel()

	names := naming.Derive("contoso", "/sites/hr", "svc")

	assert.Equal(t, naming.Names{
		SiteURL:            "https://contoso.sharepoint.com/sites/hr",
		Identity:           "contoso-svc",
		SecretStoreName:    "contoso-svc",
		VaultURL:           "https://contoso-svc.vault.azure.net",
		CertificateName:    "contoso-svc",
		ClientIDSecretName: "contososvc",
		TenantID:           "contoso.onmicrosoft.com",
		Authority:          "https://login.microsoftonline.com/contoso.onmicrosoft.com",
		Scope:              "https://contoso.sharepoint.com/.default",
	}, names)
}

func TestDeriveLongIdentity(t *testing.T) {
	t.Parallel()

	names := naming.Derive("fabrikamproduction", "/", "sharepoint_sync")

	assert.Equal(t, "fabrikamproduction-sharepoint_sync", names.Identity)
	assert.Equal(t, "fabrikamproduction-share", names.SecretStoreName)
	assert.Equal(t, "https://fabrikamproduction-share.vault.azure.net", names.VaultURL)
	assert.Equal(t, names.Identity, names.CertificateName)
	assert.Equal(t, "fabrikamproductionsharepointsync", names.ClientIDSecretName)
}
