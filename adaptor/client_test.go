package adaptor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ccs-digital/login-director/adaptor"
)

const userInfoPayload = `{
	"userDetailId": "user-1",
	"userName": "alice@example.com",
	"firstName": "Alice",
	"lastName": "Smith",
	"rolePermissionInfo": [
		{"roleId": "1", "roleName": "Jaegger Buyer", "roleKey": "JAEGGER_BUYER", "serviceClientName": "LOGIN_DIRECTOR"}
	],
	"additionalRoles": ["CAT_USER"],
	"userContactPoints": [
		{"contactPointId": 1, "contactPointReason": "MAIN", "contactPointName": "Main", "contacts": [
			{"contactId": 10, "contactType": "EMAIL", "contactValue": "alice@example.com"}
		]}
	],
	"organisationAdditionalIdentifiers": [
		{"scheme": "GB-CCS", "id": "org-1", "legalName": "Example Ltd"}
	]
}`

func TestUserInfo(t *testing.T) {
	var gotQuery, gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user-info", r.URL.Path)
		gotQuery = r.URL.Query().Get("user-name")
		gotAPIKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(userInfoPayload))
	}))
	defer srv.Close()

	client := adaptor.NewHTTPClient(srv.URL, "key-123", zerolog.Nop())

	user, err := client.UserInfo(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", gotQuery)
	require.Equal(t, "key-123", gotAPIKey)

	require.Equal(t, "alice@example.com", user.Email)
	require.Len(t, user.CoreRoles, 1)
	require.Equal(t, "JAEGGER_BUYER", user.CoreRoles[0].RoleKey)
	require.Equal(t, "LOGIN_DIRECTOR", user.CoreRoles[0].ServiceClientName)
	require.Equal(t, []string{"CAT_USER"}, user.AdditionalRoles)
	require.Len(t, user.ContactPoints, 1)
	require.Equal(t, "Example Ltd", user.Organisations[0].LegalName)
}

func TestUserInfo_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := adaptor.NewHTTPClient(srv.URL, "", zerolog.Nop())

	_, err := client.UserInfo(context.Background(), "alice@example.com")
	require.Error(t, err)
}

func TestUserInfo_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	client := adaptor.NewHTTPClient(srv.URL, "", zerolog.Nop())

	_, err := client.UserInfo(context.Background(), "alice@example.com")
	require.Error(t, err)
}
