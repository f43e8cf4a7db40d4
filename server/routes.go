package server

// Route path constants
// All fixed application routes are defined here; the catch-all capture route
// picks up everything else.
const (
	RouteProcessUser   = "/director/process-user"
	RouteActionRequest = "/director/action-request"
	RouteCreateUser    = "/director/create-user"

	RouteCallback          = "/callback"
	RouteBackchannelLogout = "/logout"

	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteProcessUser, ChainMiddleware(s.ProcessUserHandler(), s.DirectorMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("GET "+RouteActionRequest, ChainMiddleware(s.ActionRequestHandler(), s.DirectorMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteCreateUser, ChainMiddleware(s.CreateUserHandler(), s.DirectorMiddleware(s.RequireLogin())...))

	s.RegisterRouteFunc("GET "+RouteCallback, s.SsoCallbackHandler())
	s.RegisterRouteFunc("POST "+RouteCallback, s.SsoCallbackHandler()) // form_post response mode
	s.RegisterRouteFunc("POST "+RouteBackchannelLogout, s.BackchannelLogoutHandler())

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	// Catch-all: every other request gets captured and taken through the flow.
	s.RegisterRouteHandler("/", ChainMiddleware(s.CaptureHandler(), s.DirectorMiddleware()...))
}
