// Package sharepoint is a minimal SharePoint REST client. A ClientContext is
// bound to one site and runs registered hooks on every outgoing request.
package sharepoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
)

const (
	moduleName    = "sharepoint"
	moduleVersion = "v1.0.0"

	acceptJSON = "application/json;odata=nometadata"
)

// RequestHook runs on every outgoing request before it reaches the wire.
type RequestHook func(req *http.Request)

// ClientContext issues REST calls against one site.
type ClientContext struct {
	siteURL  string
	pipeline runtime.Pipeline
	logger   *logging.Logger

	mu    sync.RWMutex
	hooks []RequestHook
}

// Option configures a ClientContext.
type Option func(*options)

type options struct {
	transport policy.Transporter
	logger    *logging.Logger
}

// WithTransport replaces the HTTP transport (for testing).
func WithTransport(t policy.Transporter) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// NewClientContext binds a context to siteURL. Requests are never retried.
func NewClientContext(siteURL string, opts ...Option) *ClientContext {
	o := options{logger: logging.New(false, false)}
	for _, opt := range opts {
		opt(&o)
	}

	c := &ClientContext{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		logger:  o.logger,
	}

	clientOpts := &policy.ClientOptions{
		Retry:     policy.RetryOptions{MaxRetries: -1},
		Transport: o.transport,
	}
	c.pipeline = runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{hookPolicy{c}},
	}, clientOpts)

	return c
}

// OnExecutingRequest registers hook. Hooks run in registration order.
func (c *ClientContext) OnExecutingRequest(hook RequestHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// WithBearerToken returns a context that sends accessToken on every request,
// replacing any Authorization header already present.
func WithBearerToken(siteURL, accessToken string, opts ...Option) *ClientContext {
	c := NewClientContext(siteURL, opts...)
	c.OnExecutingRequest(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	})
	return c
}

type hookPolicy struct {
	c *ClientContext
}

func (p hookPolicy) Do(req *policy.Request) (*http.Response, error) {
	p.c.mu.RLock()
	hooks := append([]RequestHook(nil), p.c.hooks...)
	p.c.mu.RUnlock()

	for _, hook := range hooks {
		hook(req.Raw())
	}
	return req.Next()
}

// get issues a GET for a site-relative API path and decodes the JSON body
// into v.
func (c *ClientContext) get(ctx context.Context, apiPath string, v any) error {
	endpoint := c.siteURL + apiPath
	c.logger.Debug("GET %s", endpoint)

	req, err := runtime.NewRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Raw().Header.Set("Accept", acceptJSON)

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Request to %s failed", endpoint),
			Details:    err.Error(),
			Suggestion: dserrors.NetworkSuggestion(err),
			Err:        err,
		}
	}

	if !runtime.HasStatusCode(resp, http.StatusOK) {
		respErr := runtime.NewResponseError(resp)
		return dserrors.UserError{
			Message:    fmt.Sprintf("SharePoint returned %d for %s", resp.StatusCode, endpoint),
			Details:    respErr.Error(),
			Suggestion: statusSuggestion(resp.StatusCode),
			Err:        respErr,
		}
	}

	if err := runtime.UnmarshalAsJSON(resp, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

func statusSuggestion(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "The access token was rejected. Check that the app has SharePoint application permissions and admin consent"
	case http.StatusForbidden:
		return "The app is not allowed to read this site. Grant Sites.Read.All or a site-scoped permission"
	case http.StatusNotFound:
		return "The site does not exist. Check the site setting, it must start with a slash"
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}
	return 0
}
