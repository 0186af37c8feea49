// Package certificate turns the base64 certificate secret stored in Key
// Vault into a sealed client certificate.
//
// The decoded payload is validated once and then kept only inside a
// memguard enclave. The private key is parsed again from the enclave for
// the duration of a WithKey call and is not retained by Certificate.
package certificate

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/secure"
)

// Certificate is a validated client certificate. Chain holds the public
// certificates; the key material lives sealed until Destroy.
type Certificate struct {
	Chain []*x509.Certificate

	raw *secure.SecureBuffer
}

// Materialize decodes a base64 PKCS#12 or PEM payload. No password is
// applied. Nothing is written to disk.
func Materialize(encoded string) (*Certificate, error) {
	data, err := decode(encoded)
	if err != nil {
		return nil, dserrors.UserError{
			Message:    "Certificate secret is not valid base64",
			Details:    err.Error(),
			Suggestion: "Store the certificate as the base64 encoded PFX or PEM produced by Key Vault",
			Err:        err,
		}
	}

	chain, err := parse(data)
	if err != nil {
		return nil, err
	}

	// NewSecureBuffer wipes data
	raw, err := secure.NewSecureBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to protect certificate material: %w", err)
	}

	return &Certificate{Chain: chain, raw: raw}, nil
}

func decode(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("empty certificate payload")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

func parse(data []byte) ([]*x509.Certificate, error) {
	chain, _, err := parseWithKey(data)
	return chain, err
}

func parseWithKey(data []byte) ([]*x509.Certificate, crypto.PrivateKey, error) {
	chain, key, err := azidentity.ParseCertificates(data, nil)
	if err != nil {
		return nil, nil, dserrors.UserError{
			Message:    "Failed to parse certificate",
			Details:    err.Error(),
			Suggestion: "The certificate must include its private key and must not be password protected",
			Err:        err,
		}
	}
	if key == nil {
		return nil, nil, dserrors.UserError{
			Message:    "Certificate has no private key",
			Suggestion: "Export the certificate with its private key",
		}
	}
	return chain, key, nil
}

// Leaf returns the first certificate of the chain.
func (c *Certificate) Leaf() *x509.Certificate {
	if len(c.Chain) == 0 {
		return nil
	}
	return c.Chain[0]
}

// Size returns the length of the sealed payload in bytes.
func (c *Certificate) Size() int {
	if c.raw == nil {
		return 0
	}
	return c.raw.Size()
}

// WithKey opens the enclave, parses the chain and private key and calls fn
// with them. The decrypted payload is destroyed when fn returns, so fn must
// not retain key.
func (c *Certificate) WithKey(fn func(chain []*x509.Certificate, key crypto.PrivateKey) error) error {
	if c.raw == nil {
		return secure.ErrDestroyed
	}
	locked, err := c.raw.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	chain, key, err := parseWithKey(locked.Bytes())
	if err != nil {
		return err
	}
	return fn(chain, key)
}

// Destroy releases the sealed material.
func (c *Certificate) Destroy() {
	if c.raw != nil {
		c.raw.Destroy()
	}
}
