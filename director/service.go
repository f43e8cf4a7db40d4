package director

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ccs-digital/login-director/adaptor"
	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/entitlement"
	"github.com/ccs-digital/login-director/identity"
	"github.com/ccs-digital/login-director/internal/metrics"
	"github.com/ccs-digital/login-director/reconcile"
	"github.com/ccs-digital/login-director/request"
	"github.com/ccs-digital/login-director/sessions"
	"github.com/ccs-digital/login-director/tenders"
)

// Keys for the per-browser-session store.
const (
	SessionKeyUser               = "UserModel"
	SessionKeyRequestDetails     = "RequestDetails"
	SessionKeyProcessingRequired = "UserProcessingRequired"
	SessionKeyPreAuthenticated   = "UserPreAuth"
)

// SessionStore is the per-browser-session string store the director persists
// its minimal step state into (identity, request capsule, processing flag).
type SessionStore interface {
	Set(key, value string)
	Get(key string) string
	Remove(key string)
}

// Login carries the claims the director needs from the authenticated SSO
// session for one flow step.
type Login struct {
	Email       string
	SessionID   string
	AccessToken string
}

// Deps holds all dependencies for the Service.
type Deps struct {
	Cache      *sessions.Cache
	Evaluator  *entitlement.Evaluator
	Reconciler *reconcile.Reconciler
	Tenders    tenders.Client
	Adaptor    adaptor.Client
	Resolver   domain.Resolver
	Metrics    *metrics.Metrics
}

// Service sequences the director flow: session check, role check, merge
// decision, post-merge verification, forward. One public method per inbound
// request; every path ends in a terminal Decision, never a panic or an error
// escaping to the HTTP layer.
type Service struct {
	deps    Deps
	log     zerolog.Logger
	nowTime func() time.Time
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// New creates a Service, validating required dependencies.
func New(deps Deps, logger zerolog.Logger, options ...ServiceOption) (*Service, error) {
	if deps.Cache == nil {
		return nil, errors.New("[director New] Cache is required")
	}
	if deps.Evaluator == nil {
		return nil, errors.New("[director New] Evaluator is required")
	}
	if deps.Reconciler == nil {
		return nil, errors.New("[director New] Reconciler is required")
	}
	if deps.Tenders == nil {
		return nil, errors.New("[director New] Tenders client is required")
	}
	if deps.Adaptor == nil {
		return nil, errors.New("[director New] Adaptor client is required")
	}
	if deps.Metrics == nil {
		return nil, errors.New("[director New] Metrics is required")
	}

	s := &Service{
		deps:    deps,
		log:     logger,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// CaptureRequest snapshots the inbound request into the browser session and
// reports whether this is the user's first visit this session. First visits
// always re-validate via the full processing flow; later visits trust the
// stored decision but still verify the central cache at action time.
func (s *Service) CaptureRequest(store SessionStore, capsule request.Capsule) (firstVisit bool, err error) {
	encoded, err := capsule.Encode()
	if err != nil {
		return false, err
	}
	store.Set(SessionKeyRequestDetails, encoded)
	return store.Get(SessionKeyUser) == "", nil
}

// ProcessUser runs the pre-processing flow for an authenticated login:
// identity fetch, role entitlement, central cache registration, downstream
// status check, merge decision.
func (s *Service) ProcessUser(ctx context.Context, store SessionStore, login Login) Decision {
	if login.Email == "" {
		s.log.Error().Msg("Processing attempted without an authenticated email claim")
		return Decision{State: StateErrored, Branch: BranchGenericError}
	}

	capsule, ok := s.storedCapsule(store)
	if !ok {
		return Decision{State: StateSessionExpired, Branch: BranchSessionExpired}
	}
	family := s.deps.Resolver.Resolve(capsule.Domain)

	user, err := s.deps.Adaptor.UserInfo(ctx, login.Email)
	if err != nil {
		s.countDownstream("adaptor", "error")
		s.log.Error().Err(err).Str("email", login.Email).Msg("Could not retrieve user information from Adaptor service")
		return Decision{State: StateErrored, Branch: BranchGenericError, ServiceName: family.DisplayName()}
	}
	s.countDownstream("adaptor", "ok")

	if !s.deps.Evaluator.HasEntitlement(user, family) {
		s.log.Error().Str("email", login.Email).Str("domain", capsule.Domain).Msg("Attempted access by unauthorised SSO user")
		return Decision{State: StateUnauthorised, Branch: BranchUnauthorised, ServiceName: family.DisplayName()}
	}

	// Identity and roles are confirmed - only now does the login enter the
	// central cache.
	s.deps.Cache.Add(sessions.Entry{
		UserEmail:    login.Email,
		SessionID:    login.SessionID,
		SessionStart: s.nowTime(),
	})
	s.deps.Metrics.CacheEntries.Set(float64(s.deps.Cache.Len()))

	if err := s.storeUser(store, user); err != nil {
		s.log.Error().Err(err).Msg("Could not persist user model to session")
		return Decision{State: StateErrored, Branch: BranchGenericError, ServiceName: family.DisplayName()}
	}
	store.Set(SessionKeyPreAuthenticated, "true")

	resp, err := s.deps.Tenders.UserStatus(ctx, login.Email, login.AccessToken)
	if err != nil {
		s.countDownstream("tenders", "error")
		s.log.Error().Err(err).Str("email", login.Email).Msg("Could not retrieve user status from Tenders API")
		return Decision{State: StateErrored, Branch: BranchGenericError, ServiceName: family.DisplayName()}
	}
	s.countDownstream("tenders", strconv.Itoa(resp.StatusCode))

	outcome := s.deps.Reconciler.PreProcess(resp, family)
	s.deps.Metrics.OutcomesTotal.WithLabelValues("pre", string(outcome)).Inc()

	switch outcome {
	case reconcile.ActionRequired:
		store.Set(SessionKeyProcessingRequired, "true")
		return Decision{
			State:       StateMergeDecisionPending,
			Branch:      BranchMergePrompt,
			Outcome:     string(outcome),
			ServiceName: family.DisplayName(),
		}
	case reconcile.AlreadyMerged:
		store.Set(SessionKeyProcessingRequired, "false")
		return Decision{
			State:       StateRoleChecked,
			Branch:      BranchProceed,
			Outcome:     string(outcome),
			ServiceName: family.DisplayName(),
		}
	case reconcile.Unauthorised:
		return Decision{State: StateUnauthorised, Branch: BranchUnauthorised, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.Conflict:
		return Decision{State: StateErrored, Branch: BranchRoleConflict, Outcome: string(outcome), ServiceName: family.DisplayName()}
	default:
		return Decision{State: StateErrored, Branch: BranchGenericError, Outcome: string(outcome), ServiceName: family.DisplayName()}
	}
}

// CreateUser actions the user's merge/create choice: a PUT against the
// Tenders user route, mapped onto a creation outcome.
func (s *Service) CreateUser(ctx context.Context, store SessionStore, login Login) Decision {
	capsule, ok := s.storedCapsule(store)
	if !ok {
		return Decision{State: StateSessionExpired, Branch: BranchSessionExpired}
	}
	family := s.deps.Resolver.Resolve(capsule.Domain)

	resp, err := s.deps.Tenders.CreateUser(ctx, login.Email, login.AccessToken)
	if err != nil {
		s.countDownstream("tenders", "error")
		s.log.Error().Err(err).Str("email", login.Email).Msg("Could not create user via Tenders API")
		return Decision{State: StateErrored, Branch: BranchGenericError, ServiceName: family.DisplayName()}
	}
	s.countDownstream("tenders", strconv.Itoa(resp.StatusCode))

	outcome := s.deps.Reconciler.Creation(resp)
	s.deps.Metrics.OutcomesTotal.WithLabelValues("creation", string(outcome)).Inc()

	switch outcome {
	case reconcile.UserCreated, reconcile.AlreadyExists:
		return Decision{State: StateCreating, Branch: BranchProceed, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.RoleMissing:
		return Decision{State: StateErrored, Branch: BranchCreateError, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.CreationConflict:
		return Decision{State: StateErrored, Branch: BranchRoleConflict, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.HelpdeskRequired:
		return Decision{State: StateErrored, Branch: BranchHelpdesk, Outcome: string(outcome), ServiceName: family.DisplayName()}
	default:
		return Decision{State: StateErrored, Branch: BranchCreateError, Outcome: string(outcome), ServiceName: family.DisplayName()}
	}
}

// ActionRequest verifies the login is still live, runs post-merge validation
// when processing was required, and forwards the stored request.
func (s *Service) ActionRequest(ctx context.Context, store SessionStore, login Login) Decision {
	if !s.deps.Cache.IsValid(login.SessionID, s.nowTime()) {
		// The browser cookie may still be valid, but the central cache says
		// the login is gone (expiry or backchannel logout). Start over.
		s.deps.Metrics.CacheEntries.Set(float64(s.deps.Cache.Len()))
		return Decision{State: StateSessionExpired, Branch: BranchReauthenticate}
	}

	capsule, ok := s.storedCapsule(store)
	if !ok {
		return Decision{State: StateSessionExpired, Branch: BranchSessionExpired}
	}
	family := s.deps.Resolver.Resolve(capsule.Domain)

	user, ok := s.storedUser(store)
	if !ok {
		return Decision{State: StateSessionExpired, Branch: BranchSessionExpired, ServiceName: family.DisplayName()}
	}

	if store.Get(SessionKeyProcessingRequired) != "true" {
		return s.forward(store, capsule, family)
	}

	resp, err := s.deps.Tenders.UserStatus(ctx, login.Email, login.AccessToken)
	if err != nil {
		s.countDownstream("tenders", "error")
		s.log.Error().Err(err).Str("email", login.Email).Msg("Could not retrieve post-processing status from Tenders API")
		return Decision{State: StateErrored, Branch: BranchGenericError, ServiceName: family.DisplayName()}
	}
	s.countDownstream("tenders", strconv.Itoa(resp.StatusCode))

	// The processing attempt is spent regardless of what the check says.
	store.Set(SessionKeyProcessingRequired, "false")

	outcome := s.deps.Reconciler.PostProcess(resp, reconcile.Context{User: user, Domain: family})
	s.deps.Metrics.OutcomesTotal.WithLabelValues("post", string(outcome)).Inc()

	switch outcome {
	case reconcile.Valid:
		return s.forward(store, capsule, family)
	case reconcile.MergeFailure:
		return Decision{State: StateErrored, Branch: BranchMergeError, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.RoleMismatch, reconcile.RoleConflict:
		return Decision{State: StateErrored, Branch: BranchRoleConflict, Outcome: string(outcome), ServiceName: family.DisplayName()}
	case reconcile.WrongAccountType, reconcile.EvaluatorMerged, reconcile.NotEnoughAccounts:
		return Decision{
			State:       StateMergeDecisionPending,
			Branch:      BranchMergeRetry,
			Outcome:     string(outcome),
			ServiceName: family.DisplayName(),
		}
	default:
		return Decision{State: StateErrored, Branch: BranchGenericError, Outcome: string(outcome), ServiceName: family.DisplayName()}
	}
}

// Logout removes a session from the central cache on a backchannel request.
// It must complete before the logout is acknowledged upstream.
func (s *Service) Logout(sessionID string) {
	s.deps.Cache.RemoveBySessionID(sessionID)
	s.deps.Metrics.BackchannelLogoutsTotal.Inc()
	s.deps.Metrics.CacheEntries.Set(float64(s.deps.Cache.Len()))
	s.log.Info().Str("sessionId", sessionID).Msg("Backchannel logout processed")
}

// countDownstream records one downstream call. Transport failures count under
// "error"; completed calls count under their HTTP status.
func (s *Service) countDownstream(service, status string) {
	s.deps.Metrics.DownstreamRequestsTotal.WithLabelValues(service, status).Inc()
}

// forward consumes the capsule and hands back the forwarding decision.
func (s *Service) forward(store SessionStore, capsule request.Capsule, family domain.Domain) Decision {
	store.Remove(SessionKeyRequestDetails)
	return Decision{
		State:       StateForwarded,
		Branch:      BranchForward,
		RedirectURL: capsule.TargetURL(family),
		ServiceName: family.DisplayName(),
	}
}

func (s *Service) storedCapsule(store SessionStore) (request.Capsule, bool) {
	raw := store.Get(SessionKeyRequestDetails)
	if raw == "" {
		return request.Capsule{}, false
	}
	capsule, err := request.Decode(raw)
	if err != nil {
		s.log.Error().Err(err).Msg("Could not decode stored request details")
		return request.Capsule{}, false
	}
	return capsule, true
}

func (s *Service) storedUser(store SessionStore) (identity.User, bool) {
	raw := store.Get(SessionKeyUser)
	if raw == "" {
		return identity.User{}, false
	}
	var user identity.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Error().Err(err).Msg("Could not decode stored user model")
		return identity.User{}, false
	}
	return user, true
}

func (s *Service) storeUser(store SessionStore, user identity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[storeUser] marshal failed")
	}
	store.Set(SessionKeyUser, string(data))
	return nil
}
