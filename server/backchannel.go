package server

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// BackchannelLogoutHandler handles server-to-server logout notifications from
// the SSO service. The logout_token JWT carries the session id in its sid
// claim; the matching central cache entries must be removed before the
// request is acknowledged.
func (s *Server) BackchannelLogoutHandler() http.HandlerFunc {
	parser := jwt.NewParser()

	return func(w http.ResponseWriter, r *http.Request) {
		logoutToken := r.FormValue("logout_token")
		if logoutToken == "" {
			s.log.Error().Msg("Backchannel logout request without a logout_token")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// The token arrives over the trusted server-to-server channel; it is
		// decoded here only to extract the sid claim.
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(logoutToken, claims); err != nil {
			s.log.Error().Err(err).Msg("Backchannel logout token could not be parsed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		sessionID, ok := claims["sid"].(string)
		if !ok || sessionID == "" {
			s.log.Error().Msg("Backchannel logout token missing sid claim")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Synchronous by contract: the session must be gone before we ack.
		s.director.Logout(sessionID)
		w.WriteHeader(http.StatusOK)
	}
}
