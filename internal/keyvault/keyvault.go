// Package keyvault reads secret values from Azure Key Vault.
package keyvault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
)

// SecretClientAPI defines the subset of *azsecrets.Client used here
// This allows for mocking in tests
type SecretClientAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// Store fetches secrets from one vault
type Store struct {
	vaultURL string
	client   SecretClientAPI
	logger   *logging.Logger
}

// Option is a functional option for configuring a Store
type Option func(*Store)

// WithClient sets a custom Key Vault client (for testing)
func WithClient(client SecretClientAPI) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// DefaultCredential returns the ambient host credential chain (environment,
// workload identity, managed identity, Azure CLI and friends).
func DefaultCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, dserrors.UserError{
			Message:    "Failed to create Azure credential",
			Details:    err.Error(),
			Suggestion: "Sign in with 'az login' or run on a host with a managed identity",
			Err:        err,
		}
	}
	return cred, nil
}

// NewStore creates a Store for vaultURL authenticated with cred. cred may be
// nil when a client is injected with WithClient.
func NewStore(vaultURL string, cred azcore.TokenCredential, opts ...Option) (*Store, error) {
	s := &Store{
		vaultURL: vaultURL,
		logger:   logging.New(false, false),
	}

	// Apply options (allows mock client injection)
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		if cred == nil {
			return nil, fmt.Errorf("keyvault: credential is required")
		}
		client, err := azsecrets.NewClient(vaultURL, cred, &azsecrets.ClientOptions{
			ClientOptions: policy.ClientOptions{
				// a failed call aborts the run
				Retry: policy.RetryOptions{MaxRetries: -1},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
		}
		s.client = client
	}

	return s, nil
}

// FetchSecret returns the current value of the named secret.
func (s *Store) FetchSecret(ctx context.Context, name string) (string, error) {
	s.logger.Debug("Reading secret %s from %s", name, s.vaultURL)

	resp, err := s.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", dserrors.UserError{
			Message:    fmt.Sprintf("Failed to access secret: %s", name),
			Details:    err.Error(),
			Suggestion: errorSuggestion(err),
			Err:        err,
		}
	}

	if resp.Value == nil {
		return "", dserrors.UserError{
			Message:    fmt.Sprintf("Secret %s has no value", name),
			Suggestion: "Check that the current version of the secret is enabled and not empty",
		}
	}

	return *resp.Value, nil
}

// IsNotFound checks if the error indicates a secret was not found
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 404
	}
	return strings.Contains(err.Error(), "SecretNotFound")
}

// errorSuggestion provides helpful suggestions based on Azure errors
func errorSuggestion(err error) string {
	if IsNotFound(err) {
		return "Verify the secret name exists in the Key Vault. Secret names are case-sensitive"
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case 401:
			return "Check authentication: verify managed identity, service principal, or Azure CLI login"
		case 403:
			return "Check Key Vault access policies or RBAC: 'Get' permission is required for secrets"
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "forbidden") || strings.Contains(errStr, "access denied"):
		return "Check Key Vault access policies or RBAC: 'Get' permission is required for secrets"
	case strings.Contains(errStr, "defaultazurecredential") || strings.Contains(errStr, "credential"):
		return "Check authentication: verify managed identity, service principal, or Azure CLI login"
	case strings.Contains(errStr, "no such host"):
		return "The vault host does not resolve. The vault name is derived from environment and name, check both"
	}

	if s := dserrors.NetworkSuggestion(err); s != "" {
		return s
	}
	return "Check Azure credentials, Key Vault URL, and access policies"
}
