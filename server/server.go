package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ccs-digital/login-director/director"
	"github.com/ccs-digital/login-director/internal/config"
	"github.com/ccs-digital/login-director/internal/metrics"
	"github.com/ccs-digital/login-director/server/browsersession"
)

// Server is the HTTP surface of the director: the catch-all capture route,
// the processing and action endpoints, the SSO callback, and the backchannel
// logout listener.
type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	director *director.Service
	store    *browsersession.Store
	metrics  *metrics.Metrics
	sso      *ssoClient
	log      zerolog.Logger
}

// New creates a Server. SSO discovery runs against the configured issuer;
// when no issuer is configured (local development, tests) the SSO layer is
// left unwired and requests without a login are rejected rather than
// redirected.
func New(ctx context.Context, cfg config.Config, directorService *director.Service, m *metrics.Metrics, logger zerolog.Logger) (*Server, error) {
	sso, err := newSsoClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to configure SSO: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		director: directorService,
		store:    browsersession.NewStore(),
		metrics:  m,
		sso:      sso,
		log:      logger,
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
