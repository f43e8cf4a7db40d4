package reconcile

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/entitlement"
	"github.com/ccs-digital/login-director/identity"
)

// Downstream existing-account role keys, as reported by the Tenders API.
const (
	ExistingRoleBuyer     = "buyer"
	ExistingRoleSupplier  = "supplier"
	ExistingRoleEvaluator = "evaluator"
)

// Response is the opaque result of a Tenders API call: the status code plus
// the raw body. It gets interpreted into full outcomes here rather than at
// the transport layer, because the same shape feeds several decisions.
type Response struct {
	StatusCode int
	Body       string
}

// Context carries the identity and target domain a post-processing decision
// needs alongside the downstream response.
type Context struct {
	User   identity.User
	Domain domain.Domain
}

// rolesPayload is the body shape of a successful Tenders user lookup.
type rolesPayload struct {
	Roles []string `json:"roles"`
}

// Reconciler interprets Tenders API responses into named outcomes. Both
// decision functions are pure in their inputs; the only side effect anywhere
// is logging of unexpected states.
type Reconciler struct {
	log zerolog.Logger
}

// New creates a Reconciler.
func New(logger zerolog.Logger) *Reconciler {
	return &Reconciler{log: logger}
}

// PreProcess maps a user-status response onto a pre-processing outcome.
// First match wins:
//
//	404 with a not-found body  -> ActionRequired
//	403                        -> Unauthorised
//	409                        -> Conflict
//	200                        -> AlreadyMerged, except on the CAS domain
//	                              where the buyer role must be present in the
//	                              body; otherwise ActionRequired
//	anything else              -> PreError
func (r *Reconciler) PreProcess(resp Response, target domain.Domain) PreOutcome {
	switch {
	case resp.StatusCode == http.StatusNotFound && isNotFoundBody(resp.Body):
		return ActionRequired
	case resp.StatusCode == http.StatusForbidden:
		return Unauthorised
	case resp.StatusCode == http.StatusConflict:
		return Conflict
	case resp.StatusCode == http.StatusOK:
		return r.preProcessMerged(resp, target)
	default:
		r.log.Error().
			Int("status", resp.StatusCode).
			Str("body", resp.Body).
			Msg("Unexpected Tenders response during pre-processing")
		return PreError
	}
}

// preProcessMerged re-validates a 200 response. A 200 alone is not proof of a
// correct merge on the CAS domain - the buyer role specifically must be held.
func (r *Reconciler) preProcessMerged(resp Response, target domain.Domain) PreOutcome {
	roles, ok := parseRoles(resp.Body)
	if !ok {
		r.log.Error().Str("body", resp.Body).Msg("Unparseable roles body on 200 pre-processing response")
		return PreError
	}

	if target == domain.Cat && !roles.buyer {
		return ActionRequired
	}
	return AlreadyMerged
}

// PostProcess validates a user-status response after a merge/create action
// was attempted, cross-referencing the user's SSO role setup. Malformed or
// missing bodies fail closed to MergeFailure; nothing here panics.
func (r *Reconciler) PostProcess(resp Response, rc Context) PostOutcome {
	switch {
	case resp.StatusCode == http.StatusNotFound && isNotFoundBody(resp.Body):
		// The merge never completed - the user still has no account.
		return MergeFailure
	case resp.StatusCode == http.StatusForbidden:
		return RoleConflict
	case resp.StatusCode == http.StatusConflict:
		return RoleMismatch
	case resp.StatusCode == http.StatusOK:
		roles, ok := parseRoles(resp.Body)
		if !ok {
			r.log.Error().Str("body", resp.Body).Msg("Unparseable roles body on 200 post-processing response")
			return MergeFailure
		}
		if rc.Domain == domain.Cat {
			return postProcessCas(roles)
		}
		return postProcessEsourcing(entitlement.EsourcingRoleState(rc.User), roles)
	default:
		r.log.Error().
			Int("status", resp.StatusCode).
			Str("body", resp.Body).
			Msg("Unexpected Tenders response during post-processing")
		return PostError
	}
}

// postProcessCas validates a CAS merge. Buyer access is what CAS needs, so
// anything without the buyer role is some flavour of failed merge.
func postProcessCas(roles roleSet) PostOutcome {
	switch {
	case roles.buyer:
		return Valid
	case roles.supplier && !roles.evaluator:
		return WrongAccountType
	case roles.evaluator && !roles.supplier:
		return EvaluatorMerged
	default:
		return MergeFailure
	}
}

// postProcessEsourcing compares the account shape the user's SSO roles call
// for against the roles the Tenders API reports. Unmatched combinations fail
// closed to MergeFailure.
func postProcessEsourcing(expected entitlement.RoleState, roles roleSet) PostOutcome {
	switch expected {
	case entitlement.RoleStateBuyerOnly:
		switch {
		case roles.buyer && roles.supplier:
			return RoleMismatch
		case roles.buyer && !roles.evaluator:
			return Valid
		case roles.supplier && !roles.evaluator:
			return MergeFailure
		case roles.evaluator && !roles.buyer && !roles.supplier:
			return EvaluatorMerged
		default:
			return MergeFailure
		}
	case entitlement.RoleStateSupplierOnly:
		switch {
		case roles.buyer && roles.supplier:
			return RoleMismatch
		case roles.supplier && !roles.evaluator:
			return Valid
		case roles.buyer && !roles.evaluator:
			return RoleMismatch
		case roles.evaluator && !roles.buyer && !roles.supplier:
			return EvaluatorMerged
		default:
			return MergeFailure
		}
	case entitlement.RoleStateBothRoles:
		switch {
		case roles.buyer && roles.supplier && !roles.evaluator:
			return Valid
		case roles.evaluator && !roles.buyer && !roles.supplier:
			return MergeFailure
		case roles.evaluator && (roles.buyer != roles.supplier) && roles.count == 2:
			return NotEnoughAccounts
		case (roles.buyer != roles.supplier) && !roles.evaluator:
			return NotEnoughAccounts
		default:
			return MergeFailure
		}
	default:
		return MergeFailure
	}
}

// Creation maps a user creation response onto a creation outcome.
func (r *Reconciler) Creation(resp Response) CreateOutcome {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return UserCreated
	case http.StatusForbidden:
		return RoleMissing
	case http.StatusConflict:
		if strings.Contains(strings.ToLower(resp.Body), "exists") {
			return AlreadyExists
		}
		return CreationConflict
	case http.StatusPreconditionFailed:
		return HelpdeskRequired
	default:
		r.log.Error().
			Int("status", resp.StatusCode).
			Str("body", resp.Body).
			Msg("Unexpected Tenders response during user creation")
		return CreateError
	}
}

// roleSet is the parsed downstream role list.
type roleSet struct {
	buyer     bool
	supplier  bool
	evaluator bool
	count     int
}

func parseRoles(body string) (roleSet, bool) {
	var payload rolesPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return roleSet{}, false
	}

	set := roleSet{count: len(payload.Roles)}
	for _, role := range payload.Roles {
		switch role {
		case ExistingRoleBuyer:
			set.buyer = true
		case ExistingRoleSupplier:
			set.supplier = true
		case ExistingRoleEvaluator:
			set.evaluator = true
		}
	}
	return set, true
}

func isNotFoundBody(body string) bool {
	return strings.Contains(strings.ToLower(body), "not found")
}
