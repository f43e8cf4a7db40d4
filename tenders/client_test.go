package tenders_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ccs-digital/login-director/tenders"
)

func TestUserStatus(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"roles":["buyer"]}`))
	}))
	defer srv.Close()

	client := tenders.NewHTTPClient(srv.URL, "/users/", zerolog.Nop())

	resp, err := client.UserStatus(context.Background(), "alice@example.com", "token-123")
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, gotMethod)
	require.Equal(t, "/users/alice@example.com", gotPath)
	require.Equal(t, "Bearer token-123", gotAuth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `{"roles":["buyer"]}`, resp.Body)
}

func TestUserStatus_NonOKPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("alice@example.com not found in Jaggaer"))
	}))
	defer srv.Close()

	client := tenders.NewHTTPClient(srv.URL, "/users/", zerolog.Nop())

	// Error statuses are data for the reconciler, not transport errors.
	resp, err := client.UserStatus(context.Background(), "alice@example.com", "token-123")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, resp.Body, "not found")
}

func TestCreateUser(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := tenders.NewHTTPClient(srv.URL, "/users/", zerolog.Nop())

	resp, err := client.CreateUser(context.Background(), "alice@example.com", "token-123")
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUserStatus_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := tenders.NewHTTPClient(srv.URL, "/users/", zerolog.Nop())

	_, err := client.UserStatus(context.Background(), "alice@example.com", "token-123")
	require.Error(t, err)
}
