package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ccs-digital/login-director/director"
	"github.com/ccs-digital/login-director/request"
	"github.com/ccs-digital/login-director/server/browsersession"
)

const sessionCookieName = "director_session"

// browserSession binds the request to its per-browser session, issuing the
// session cookie on first contact.
func (s *Server) browserSession(w http.ResponseWriter, r *http.Request) *browsersession.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return s.store.Session(cookie.Value)
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int((15 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return s.store.Session(id)
}

// CaptureHandler is the catch-all entry point: snapshot the inbound request,
// then either start processing (first visit this session) or go straight to
// actioning the request.
func (s *Server) CaptureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.browserSession(w, r)

		firstVisit, err := s.director.CaptureRequest(session, request.Capture(r))
		if err != nil {
			s.log.Error().Err(err).Msg("Could not capture inbound request")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if firstVisit {
			http.Redirect(w, r, RouteProcessUser, http.StatusFound)
			return
		}
		http.Redirect(w, r, RouteActionRequest, http.StatusFound)
	}
}

// ProcessUserHandler runs the pre-processing flow for the logged-in user.
func (s *Server) ProcessUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.browserSession(w, r)
		login, _ := s.currentLogin(session)
		decision := s.director.ProcessUser(r.Context(), session, login)
		s.respondDecision(w, r, session, decision)
	}
}

// ActionRequestHandler validates the session and processing state, then
// forwards the stored request.
func (s *Server) ActionRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.browserSession(w, r)
		login, _ := s.currentLogin(session)
		decision := s.director.ActionRequest(r.Context(), session, login)
		s.respondDecision(w, r, session, decision)
	}
}

// CreateUserHandler actions the user's merge/create choice.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.browserSession(w, r)
		login, _ := s.currentLogin(session)
		decision := s.director.CreateUser(r.Context(), session, login)
		s.respondDecision(w, r, session, decision)
	}
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// decisionView is the minimal representation of a non-forwarding decision.
type decisionView struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome,omitempty"`
	Service string `json:"service,omitempty"`
}

// respondDecision maps each branch to its single user-facing response.
func (s *Server) respondDecision(w http.ResponseWriter, r *http.Request, session *browsersession.Session, d director.Decision) {
	switch d.Branch {
	case director.BranchForward:
		http.Redirect(w, r, d.RedirectURL, http.StatusFound)
	case director.BranchProceed:
		http.Redirect(w, r, RouteActionRequest, http.StatusFound)
	case director.BranchReauthenticate:
		// The central cache no longer recognises this login - clear the
		// browser session down and restart processing from scratch.
		session.Remove(director.SessionKeyUser)
		session.Remove(director.SessionKeyProcessingRequired)
		session.Remove(director.SessionKeyPreAuthenticated)
		session.Remove(sessionKeyLogin)
		http.Redirect(w, r, RouteProcessUser, http.StatusFound)
	case director.BranchMergePrompt, director.BranchMergeRetry:
		s.writeDecision(w, http.StatusOK, decisionView{
			Status:  string(d.Branch),
			Outcome: d.Outcome,
			Service: d.ServiceName,
		})
	default:
		s.writeDecision(w, errorStatus(d.Branch), decisionView{
			Status:  string(d.Branch),
			Outcome: d.Outcome,
			Service: d.ServiceName,
		})
	}
}

func (s *Server) writeDecision(w http.ResponseWriter, status int, view decisionView) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.log.Error().Err(err).Msg("Failed to write decision response")
	}
}

func errorStatus(branch director.Branch) int {
	switch branch {
	case director.BranchUnauthorised:
		return http.StatusForbidden
	case director.BranchSessionExpired:
		return http.StatusUnauthorized
	case director.BranchRoleConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
