package sharepoint_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/sharepoint"
)

func TestWebSendsBearerToken(t *testing.T) {
	t.Parallel()

	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Title":"Human Resources"}`))
	}))
	defer srv.Close()

	ctx := sharepoint.WithBearerToken(srv.URL+"/sites/hr", "tok", sharepoint.WithTransport(srv.Client()))
	web, err := ctx.Web(context.Background())
	require.NoError(t, err)

	req := <-seen
	assert.Equal(t, "Human Resources", web.Title)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	assert.Equal(t, "/sites/hr/_api/web", req.URL.Path)
	assert.Equal(t, "Title", req.URL.Query().Get("$select"))
	assert.Equal(t, "application/json;odata=nometadata", req.Header.Get("Accept"))
}

func TestBearerHookOverwritesExistingAuthorization(t *testing.T) {
	t.Parallel()

	seen := make(chan []string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Values("Authorization")
		_, _ = w.Write([]byte(`{"Title":"Team"}`))
	}))
	defer srv.Close()

	ctx := sharepoint.NewClientContext(srv.URL, sharepoint.WithTransport(srv.Client()))
	ctx.OnExecutingRequest(func(req *http.Request) {
		req.Header.Set("Authorization", "Basic c3RhbGU=")
	})
	ctx.OnExecutingRequest(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer tok")
	})

	_, err := ctx.Web(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer tok"}, <-seen)
}

func TestHooksRunOnEveryRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a trailing slash on the site URL must not double up
		if r.URL.Path != "/_api/web" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"Title":"Team"}`))
	}))
	defer srv.Close()

	var calls atomic.Int32
	ctx := sharepoint.NewClientContext(srv.URL+"/", sharepoint.WithTransport(srv.Client()))
	ctx.OnExecutingRequest(func(*http.Request) { calls.Add(1) })

	for i := 0; i < 3; i++ {
		_, err := ctx.Web(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status     int
		suggestion string
	}{
		{http.StatusUnauthorized, "access token was rejected"},
		{http.StatusForbidden, "not allowed to read this site"},
		{http.StatusNotFound, "site does not exist"},
		{http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			ctx := sharepoint.WithBearerToken(srv.URL, "expired", sharepoint.WithTransport(srv.Client()))
			_, err := ctx.Web(context.Background())
			require.Error(t, err)

			var ue dserrors.UserError
			require.ErrorAs(t, err, &ue)
			if tt.suggestion == "" {
				assert.Empty(t, ue.Suggestion)
			} else {
				assert.Contains(t, ue.Suggestion, tt.suggestion)
			}
			assert.Equal(t, tt.status, sharepoint.StatusCode(err))
			assert.Equal(t, int32(1), hits.Load(), "requests must not be retried")
		})
	}
}

func TestWebNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctx := sharepoint.WithBearerToken(url, "tok")
	_, err := ctx.Web(context.Background())
	require.Error(t, err)
	assert.Zero(t, sharepoint.StatusCode(err))
	assert.Zero(t, sharepoint.StatusCode(errors.New("plain")))
}
