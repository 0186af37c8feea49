// Package token exchanges a client certificate for an app-only access token
// using the OAuth2 client-credentials grant.
package token

import (
	"context"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/confidential"
	"github.com/systmms/spsite/internal/certificate"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
	"github.com/systmms/spsite/internal/naming"
)

// Request describes one client-credentials exchange.
type Request struct {
	ClientID    string
	TenantID    string
	Certificate *certificate.Certificate
	Scopes      []string
}

// Result is the outcome of a successful exchange.
type Result struct {
	AccessToken string
	ExpiresOn   time.Time
}

// Acquirer obtains access tokens.
type Acquirer interface {
	Acquire(ctx context.Context, req Request) (Result, error)
}

// MSALAcquirer acquires tokens with a confidential MSAL client.
type MSALAcquirer struct {
	authorityHost     string
	httpClient        *http.Client
	instanceDiscovery bool
	logger            *logging.Logger
}

// Option configures an MSALAcquirer.
type Option func(*MSALAcquirer)

// WithAuthorityHost replaces https://login.microsoftonline.com.
func WithAuthorityHost(host string) Option {
	return func(a *MSALAcquirer) {
		a.authorityHost = strings.TrimSuffix(host, "/")
	}
}

// WithHTTPClient sets the HTTP client MSAL uses.
func WithHTTPClient(c *http.Client) Option {
	return func(a *MSALAcquirer) {
		a.httpClient = c
	}
}

// WithInstanceDiscovery toggles authority validation against the public
// instance discovery endpoint. Disable it for private or test authorities.
func WithInstanceDiscovery(enabled bool) Option {
	return func(a *MSALAcquirer) {
		a.instanceDiscovery = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *MSALAcquirer) {
		a.logger = l
	}
}

// NewMSALAcquirer creates an Acquirer backed by MSAL.
func NewMSALAcquirer(opts ...Option) *MSALAcquirer {
	a := &MSALAcquirer{
		instanceDiscovery: true,
		logger:            logging.New(false, false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *MSALAcquirer) authority(tenantID string) string {
	if a.authorityHost == "" {
		return naming.Authority(tenantID)
	}
	return a.authorityHost + "/" + tenantID
}

// Acquire performs one client-credentials exchange. Tokens are not cached
// across calls and never refreshed. The private key is only unsealed for the
// duration of the exchange.
func (a *MSALAcquirer) Acquire(ctx context.Context, req Request) (Result, error) {
	if req.Certificate == nil {
		return Result{}, fmt.Errorf("token: certificate is required")
	}

	var res Result
	err := req.Certificate.WithKey(func(chain []*x509.Certificate, key crypto.PrivateKey) error {
		var err error
		res, err = a.exchange(ctx, req, chain, key)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (a *MSALAcquirer) exchange(ctx context.Context, req Request, chain []*x509.Certificate, key crypto.PrivateKey) (Result, error) {
	cred, err := confidential.NewCredFromCert(chain, key)
	if err != nil {
		return Result{}, dserrors.UserError{
			Message:    "Certificate cannot be used as a client credential",
			Details:    err.Error(),
			Suggestion: "Use an RSA certificate with its private key",
			Err:        err,
		}
	}

	authority := a.authority(req.TenantID)
	opts := []confidential.Option{confidential.WithInstanceDiscovery(a.instanceDiscovery)}
	if a.httpClient != nil {
		opts = append(opts, confidential.WithHTTPClient(a.httpClient))
	}

	client, err := confidential.New(authority, req.ClientID, cred, opts...)
	if err != nil {
		return Result{}, dserrors.UserError{
			Message:    "Failed to create confidential client",
			Details:    err.Error(),
			Suggestion: "Check the tenant derived from the environment setting",
			Err:        err,
		}
	}

	a.logger.Debug("Requesting token from %s for client %s, scopes %v", authority, logging.Secret(req.ClientID), req.Scopes)

	result, err := client.AcquireTokenByCredential(ctx, req.Scopes)
	if err != nil {
		return Result{}, dserrors.UserError{
			Message:    "Failed to acquire access token",
			Details:    err.Error(),
			Suggestion: errorSuggestion(err),
			Err:        err,
		}
	}

	return Result{AccessToken: result.AccessToken, ExpiresOn: result.ExpiresOn}, nil
}

// errorSuggestion maps AADSTS error codes to hints.
func errorSuggestion(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "AADSTS700027"):
		return "The certificate is not registered on the app. Upload its public key to the app registration"
	case strings.Contains(errStr, "AADSTS700016"):
		return "The client id was not found in the tenant. Check the client id secret in Key Vault"
	case strings.Contains(errStr, "AADSTS90002"):
		return "The tenant does not exist. Check the environment setting"
	case strings.Contains(errStr, "AADSTS7000215") || strings.Contains(errStr, "invalid_client"):
		return "The client credential was rejected. Check the certificate secret in Key Vault"
	case strings.Contains(errStr, "unauthorized_client"):
		return "The app is not allowed to use the client-credentials grant"
	case errors.Is(err, context.DeadlineExceeded):
		return "The identity provider did not answer in time"
	}

	if s := dserrors.NetworkSuggestion(err); s != "" {
		return s
	}
	return "Check the app registration, its certificate and the tenant id"
}
