package entitlement

import (
	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/identity"
)

// Role keys assigned in the SSO service.
const (
	RoleKeyJaeggerBuyer     = "JAEGGER_BUYER"
	RoleKeyJaeggerSupplier  = "JAEGGER_SUPPLIER"
	RoleKeyJaeggerEvaluator = "JAEGGER_EVALUATOR"
	RoleKeyCatUser          = "CAT_USER"
)

// DefaultServiceClientName marks core roles assigned through this director's
// own SSO client registration.
const DefaultServiceClientName = "LOGIN_DIRECTOR"

// RoleState is the expected eSourcing account shape for a user, derived from
// their SSO role assignments. Post-merge validation compares this against the
// roles the Tenders API reports.
type RoleState string

const (
	RoleStateBuyerOnly    RoleState = "BuyerOnly"
	RoleStateSupplierOnly RoleState = "SupplierOnly"
	RoleStateBothRoles    RoleState = "BothRoles"
	RoleStateNoRoles      RoleState = "NoRoles"
)

// Evaluator decides whether a user's SSO role assignments entitle them to a
// downstream service family. It has no side effects; absent or empty role
// collections simply never match.
type Evaluator struct {
	serviceClientName string
}

// EvaluatorOption modifies an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithServiceClientName overrides the client marker used when matching core
// roles (primarily for testing against non-production SSO environments).
func WithServiceClientName(name string) EvaluatorOption {
	return func(e *Evaluator) {
		e.serviceClientName = name
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(options ...EvaluatorOption) *Evaluator {
	e := &Evaluator{serviceClientName: DefaultServiceClientName}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// HasEntitlement reports whether the user holds a role satisfying the target
// domain's requirement. Core roles only count when assigned through this
// director's client; additional roles count on key alone.
func (e *Evaluator) HasEntitlement(user identity.User, target domain.Domain) bool {
	for _, key := range requiredKeys(target) {
		if user.HasCoreRoleForClient(key, e.serviceClientName) {
			return true
		}
		if user.HasAdditionalRole(key) {
			return true
		}
	}
	return false
}

func requiredKeys(target domain.Domain) []string {
	switch target {
	case domain.Cat:
		return []string{RoleKeyCatUser, RoleKeyJaeggerEvaluator}
	case domain.Jaegger:
		return []string{RoleKeyJaeggerBuyer, RoleKeyJaeggerSupplier, RoleKeyJaeggerEvaluator}
	default:
		return nil
	}
}

// EsourcingRoleState derives the expected eSourcing account shape from the
// user's buyer/supplier assignments across both role lists.
func EsourcingRoleState(user identity.User) RoleState {
	buyer := user.HasRole(RoleKeyJaeggerBuyer)
	supplier := user.HasRole(RoleKeyJaeggerSupplier)

	switch {
	case buyer && supplier:
		return RoleStateBothRoles
	case buyer:
		return RoleStateBuyerOnly
	case supplier:
		return RoleStateSupplierOnly
	default:
		return RoleStateNoRoles
	}
}

// HasCasRole reports whether the user is set up for the Contract Award
// Service in the SSO service.
func HasCasRole(user identity.User) bool {
	return user.HasRole(RoleKeyCatUser)
}
