// Package fakes provides test doubles for the external SDK clients spsite
// talks to.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	fake := fakes.NewFakeAzureKeyVaultClient()
//	fake.AddSecretString("contososvc", "00000000-0000-0000-0000-000000000001")
//	store, _ := keyvault.NewStore("https://contoso-svc.vault.azure.net", nil, keyvault.WithClient(fake))
//	// Test store methods...
package fakes
