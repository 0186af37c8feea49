// Package bootstrap runs the credential bootstrap pipeline: derive names,
// read the client id and certificate from Key Vault, exchange the
// certificate for an access token and read the site title with it.
//
// Stages run strictly in order. The first failure aborts the run and no
// later stage is attempted.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/systmms/spsite/internal/certificate"
	"github.com/systmms/spsite/internal/config"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
	"github.com/systmms/spsite/internal/metrics"
	"github.com/systmms/spsite/internal/naming"
	"github.com/systmms/spsite/internal/sharepoint"
	"github.com/systmms/spsite/internal/token"
)

// SecretFetcher reads a secret's current value.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, name string) (string, error)
}

// WebLoader reads the site's web object.
type WebLoader interface {
	Web(ctx context.Context) (sharepoint.Web, error)
}

// Dependencies are the external collaborators of a run.
type Dependencies struct {
	// OpenStore returns a fetcher for the vault at vaultURL.
	OpenStore func(vaultURL string) (SecretFetcher, error)
	// Acquirer performs the token exchange.
	Acquirer token.Acquirer
	// OpenSite returns a loader for siteURL that sends accessToken.
	OpenSite func(siteURL, accessToken string) (WebLoader, error)

	Logger  *logging.Logger
	Metrics *metrics.RunMetrics
}

// Run executes the pipeline and writes the site title to out.
func Run(ctx context.Context, settings config.Settings, deps Dependencies, out io.Writer) (err error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.New(false, false)
	}
	r := &runner{deps: deps, logger: logger}
	if deps.Metrics != nil {
		defer func() { deps.Metrics.Finish(err) }()
	}

	names := settings.Names()
	if naming.Truncated(names.Identity) {
		logger.Warn("Identity %q is longer than %d characters, using vault %q",
			names.Identity, naming.MaxSecretStoreNameLength, names.SecretStoreName)
	}
	logger.Debug("Site %s, vault %s, tenant %s", names.SiteURL, names.VaultURL, names.TenantID)

	var clientID, encodedCert string
	err = r.stage(dserrors.StageSecrets, func() error {
		store, err := deps.OpenStore(names.VaultURL)
		if err != nil {
			return err
		}
		if clientID, err = store.FetchSecret(ctx, names.ClientIDSecretName); err != nil {
			return err
		}
		encodedCert, err = store.FetchSecret(ctx, names.CertificateName)
		return err
	})
	if err != nil {
		return err
	}
	logger.Debug("Client id %s and certificate read from %s", logging.Secret(clientID), names.SecretStoreName)

	var cert *certificate.Certificate
	err = r.stage(dserrors.StageCertificate, func() error {
		cert, err = certificate.Materialize(encodedCert)
		return err
	})
	if err != nil {
		return err
	}
	defer cert.Destroy()
	logger.Debug("Certificate %s sealed (%d bytes)", cert.Leaf().Subject.CommonName, cert.Size())

	var tok token.Result
	err = r.stage(dserrors.StageToken, func() error {
		tok, err = deps.Acquirer.Acquire(ctx, token.Request{
			ClientID:    clientID,
			TenantID:    names.TenantID,
			Certificate: cert,
			Scopes:      []string{names.Scope},
		})
		return err
	})
	if err != nil {
		return err
	}
	logger.Debug("Access token %s expires %s", logging.Secret(tok.AccessToken), tok.ExpiresOn.Format(time.RFC3339))

	var web sharepoint.Web
	err = r.stage(dserrors.StageSite, func() error {
		site, err := deps.OpenSite(names.SiteURL, tok.AccessToken)
		if err != nil {
			return err
		}
		web, err = site.Web(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, web.Title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	return nil
}

type runner struct {
	deps   Dependencies
	logger *logging.Logger
}

func (r *runner) stage(name dserrors.Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	if r.deps.Metrics != nil {
		r.deps.Metrics.Observe(string(name), time.Since(start), err)
	}
	if err != nil {
		return dserrors.StageError{Stage: name, Err: err}
	}
	r.logger.Debug("Stage %s completed in %s", name, time.Since(start).Round(time.Millisecond))
	return nil
}
