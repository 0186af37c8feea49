package fakes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// FakeAzureKeyVaultClient is a mock implementation of keyvault.SecretClientAPI
type FakeAzureKeyVaultClient struct {
	// VaultURL is used to build secret IDs
	VaultURL string
	// Secrets maps secret names to their current value; a nil value models
	// a secret whose current version carries no value
	Secrets map[string]*string
	// Errors maps secret names to errors to return
	Errors map[string]error
	// GetSecretFunc allows custom behavior for GetSecret
	GetSecretFunc func(ctx context.Context, name string, version string) (azsecrets.GetSecretResponse, error)

	mu    sync.Mutex
	calls []string
}

// NewFakeAzureKeyVaultClient creates a new mock Azure Key Vault client
func NewFakeAzureKeyVaultClient() *FakeAzureKeyVaultClient {
	return &FakeAzureKeyVaultClient{
		VaultURL: "https://test-vault.vault.azure.net",
		Secrets:  make(map[string]*string),
		Errors:   make(map[string]error),
	}
}

// AddSecretString adds a string secret to the mock client
func (f *FakeAzureKeyVaultClient) AddSecretString(name, value string) {
	f.Secrets[name] = to.Ptr(value)
}

// AddEmptySecret adds a secret whose value is nil
func (f *FakeAzureKeyVaultClient) AddEmptySecret(name string) {
	f.Secrets[name] = nil
}

// AddError configures the mock to return an error for a specific secret
func (f *FakeAzureKeyVaultClient) AddError(name string, err error) {
	f.Errors[name] = err
}

// Calls returns the secret names requested so far, in order
func (f *FakeAzureKeyVaultClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// GetSecret mocks the GetSecret operation
func (f *FakeAzureKeyVaultClient) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if f.GetSecretFunc != nil {
		return f.GetSecretFunc(ctx, name, version)
	}

	// Check for configured errors
	if err, exists := f.Errors[name]; exists {
		return azsecrets.GetSecretResponse{}, err
	}

	value, exists := f.Secrets[name]
	if !exists {
		return azsecrets.GetSecretResponse{}, AzureNotFoundError(name)
	}

	now := time.Now()
	return azsecrets.GetSecretResponse{
		Secret: azsecrets.Secret{
			ID:    (*azsecrets.ID)(to.Ptr(fmt.Sprintf("%s/secrets/%s/0123456789abcdef", f.VaultURL, name))),
			Value: value,
			Attributes: &azsecrets.SecretAttributes{
				Enabled: to.Ptr(true),
				Created: &now,
				Updated: &now,
			},
		},
	}, nil
}

func responseError(status int, code, target string) error {
	u, _ := url.Parse("https://test-vault.vault.azure.net/secrets/" + target)
	return &azcore.ResponseError{
		StatusCode: status,
		ErrorCode:  code,
		RawResponse: &http.Response{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    &http.Request{Method: http.MethodGet, URL: u},
		},
	}
}

// AzureNotFoundError creates a mock Azure not found error
func AzureNotFoundError(secretName string) error {
	return responseError(http.StatusNotFound, "SecretNotFound", secretName)
}

// AzureForbiddenError creates a mock Azure forbidden error
func AzureForbiddenError(secretName string) error {
	return responseError(http.StatusForbidden, "Forbidden", secretName)
}

// AzureUnauthorizedError creates a mock Azure unauthorized error
func AzureUnauthorizedError(secretName string) error {
	return responseError(http.StatusUnauthorized, "Unauthorized", secretName)
}
