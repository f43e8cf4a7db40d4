package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	adaptorfake "github.com/ccs-digital/login-director/adaptor/clientfake"
	"github.com/ccs-digital/login-director/director"
	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/entitlement"
	"github.com/ccs-digital/login-director/internal/config"
	"github.com/ccs-digital/login-director/internal/metrics"
	"github.com/ccs-digital/login-director/reconcile"
	"github.com/ccs-digital/login-director/server"
	"github.com/ccs-digital/login-director/sessions"
	tendersfake "github.com/ccs-digital/login-director/tenders/clientfake"
)

type serverFixture struct {
	cache  *sessions.Cache
	server *server.Server
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()

	cache := sessions.NewCache()
	m := metrics.New()

	directorService, err := director.New(director.Deps{
		Cache:      cache,
		Evaluator:  entitlement.NewEvaluator(),
		Reconciler: reconcile.New(zerolog.Nop()),
		Tenders:    tendersfake.NewFakeClient(),
		Adaptor:    adaptorfake.NewFakeClient(),
		Resolver:   domain.Resolver{CatHost: "cas.example.com", JaeggerHost: "esourcing.example.com"},
		Metrics:    m,
	}, zerolog.Nop())
	require.NoError(t, err)

	// No SSO issuer configured: the SSO layer stays unwired and unauthorised
	// requests are rejected rather than redirected.
	srv, err := server.New(context.Background(), config.New(), directorService, m, zerolog.Nop())
	require.NoError(t, err)

	return &serverFixture{cache: cache, server: srv}
}

func logoutToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("sso-secret"))
	require.NoError(t, err)
	return token
}

func postLogout(f *serverFixture, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestBackchannelLogout(t *testing.T) {
	t.Run("removes the session before acknowledging", func(t *testing.T) {
		f := setupServer(t)
		f.cache.Add(sessions.Entry{
			UserEmail:    "alice@example.com",
			SessionID:    "sid-1",
			SessionStart: time.Now(),
		})

		rec := postLogout(f, url.Values{"logout_token": {logoutToken(t, jwt.MapClaims{"sid": "sid-1"})}})

		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, f.cache.IsValid("sid-1", time.Now()))
	})

	t.Run("missing token is a bad request", func(t *testing.T) {
		f := setupServer(t)
		rec := postLogout(f, url.Values{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("garbage token is a bad request", func(t *testing.T) {
		f := setupServer(t)
		rec := postLogout(f, url.Values{"logout_token": {"not-a-jwt"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("token without a sid claim is a bad request", func(t *testing.T) {
		f := setupServer(t)
		rec := postLogout(f, url.Values{"logout_token": {logoutToken(t, jwt.MapClaims{"sub": "alice"})}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session id still acknowledges", func(t *testing.T) {
		f := setupServer(t)
		rec := postLogout(f, url.Values{"logout_token": {logoutToken(t, jwt.MapClaims{"sid": "sid-unknown"})}})
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCaptureHandler(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "http://esourcing.example.com/tenders/123", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/director/process-user", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "director_session", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
}

func TestFlowRoutesRequireLogin(t *testing.T) {
	f := setupServer(t)

	for _, route := range []string{"/director/process-user", "/director/action-request"} {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, route)
	}
}

func TestHealthHandler(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsRoute(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
