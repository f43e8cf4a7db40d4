package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/ccs-digital/login-director/director"
	"github.com/ccs-digital/login-director/internal/config"
	"github.com/ccs-digital/login-director/server/browsersession"
)

// Browser-session keys owned by the SSO layer.
const (
	sessionKeyLogin    = "DirectorLogin"
	sessionKeySsoState = "SsoState"
)

type ssoClient struct {
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// newSsoClient discovers the SSO provider. A blank issuer leaves SSO unwired.
func newSsoClient(ctx context.Context, cfg config.SsoConfig) (*ssoClient, error) {
	if cfg.GetSsoIssuer() == "" {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.GetSsoIssuer())
	if err != nil {
		return nil, fmt.Errorf("[newSsoClient] provider discovery failed: %w", err)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GetSsoClientID(),
		ClientSecret: cfg.GetSsoClientSecret(),
		RedirectURL:  cfg.GetSsoRedirectURL(),
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &ssoClient{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.GetSsoClientID()}),
	}, nil
}

// redirectToSso starts the authorization code flow.
func (s *Server) redirectToSso(w http.ResponseWriter, r *http.Request, session *browsersession.Session) {
	state := uuid.NewString()
	session.Set(sessionKeySsoState, state)
	http.Redirect(w, r, s.sso.oauth2Config.AuthCodeURL(state), http.StatusFound)
}

// SsoCallbackHandler completes the authorization code flow: state check, code
// exchange, ID token verification, then binds the login (email, session id,
// access token) into the browser session and resumes processing.
func (s *Server) SsoCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.browserSession(w, r)

		state := r.FormValue("state")
		code := r.FormValue("code")
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		if stored := session.Get(sessionKeySsoState); stored == "" || stored != state {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		session.Remove(sessionKeySsoState)

		if s.sso == nil {
			http.Error(w, "SSO not configured", http.StatusInternalServerError)
			return
		}

		oauth2Token, err := s.sso.oauth2Config.Exchange(r.Context(), code)
		if err != nil {
			s.log.Error().Err(err).Msg("SSO token exchange failed")
			http.Error(w, "Token exchange failed", http.StatusInternalServerError)
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			http.Error(w, "No ID token in response", http.StatusInternalServerError)
			return
		}

		idToken, err := s.sso.verifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			s.log.Error().Err(err).Msg("SSO ID token verification failed")
			http.Error(w, "ID token verification failed", http.StatusUnauthorized)
			return
		}

		var claims struct {
			Email     string `json:"email"`
			SessionID string `json:"sid"`
		}
		if err := idToken.Claims(&claims); err != nil {
			http.Error(w, "Failed to extract claims", http.StatusInternalServerError)
			return
		}

		login := director.Login{
			Email:       claims.Email,
			SessionID:   claims.SessionID,
			AccessToken: oauth2Token.AccessToken,
		}
		if err := s.bindLogin(session, login); err != nil {
			http.Error(w, "Failed to persist login", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, RouteProcessUser, http.StatusFound)
	}
}

// bindLogin persists the authenticated login into the browser session.
func (s *Server) bindLogin(session *browsersession.Session, login director.Login) error {
	data, err := json.Marshal(login)
	if err != nil {
		return err
	}
	session.Set(sessionKeyLogin, string(data))
	return nil
}

// currentLogin restores the authenticated login bound to the browser session.
func (s *Server) currentLogin(session *browsersession.Session) (director.Login, bool) {
	raw := session.Get(sessionKeyLogin)
	if raw == "" {
		return director.Login{}, false
	}
	var login director.Login
	if err := json.Unmarshal([]byte(raw), &login); err != nil {
		return director.Login{}, false
	}
	return login, true
}
