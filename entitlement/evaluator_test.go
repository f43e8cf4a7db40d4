package entitlement_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccs-digital/login-director/domain"
	"github.com/ccs-digital/login-director/entitlement"
	"github.com/ccs-digital/login-director/identity"
)

func coreRole(key, client string) identity.RoleAssignment {
	return identity.RoleAssignment{RoleKey: key, ServiceClientName: client}
}

func TestEvaluator_HasEntitlement(t *testing.T) {
	evaluator := entitlement.NewEvaluator()

	tests := []struct {
		name     string
		user     identity.User
		target   domain.Domain
		expected bool
	}{
		{
			name: "cat user core role grants cat",
			user: identity.User{CoreRoles: []identity.RoleAssignment{
				coreRole(entitlement.RoleKeyCatUser, entitlement.DefaultServiceClientName),
			}},
			target:   domain.Cat,
			expected: true,
		},
		{
			name: "cat core role from another client is ignored",
			user: identity.User{CoreRoles: []identity.RoleAssignment{
				coreRole(entitlement.RoleKeyCatUser, "SOME_OTHER_SERVICE"),
			}},
			target:   domain.Cat,
			expected: false,
		},
		{
			name:     "cat additional role grants cat",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyCatUser}},
			target:   domain.Cat,
			expected: true,
		},
		{
			name:     "buyer additional role grants jaegger",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerBuyer}},
			target:   domain.Jaegger,
			expected: true,
		},
		{
			name: "supplier core role grants jaegger",
			user: identity.User{CoreRoles: []identity.RoleAssignment{
				coreRole(entitlement.RoleKeyJaeggerSupplier, entitlement.DefaultServiceClientName),
			}},
			target:   domain.Jaegger,
			expected: true,
		},
		{
			name:     "evaluator additional role grants cat",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerEvaluator}},
			target:   domain.Cat,
			expected: true,
		},
		{
			name: "evaluator core role grants jaegger",
			user: identity.User{CoreRoles: []identity.RoleAssignment{
				coreRole(entitlement.RoleKeyJaeggerEvaluator, entitlement.DefaultServiceClientName),
			}},
			target:   domain.Jaegger,
			expected: true,
		},
		{
			name: "evaluator core role from another client is ignored",
			user: identity.User{CoreRoles: []identity.RoleAssignment{
				coreRole(entitlement.RoleKeyJaeggerEvaluator, "SOME_OTHER_SERVICE"),
			}},
			target:   domain.Jaegger,
			expected: false,
		},
		{
			name:     "jaegger buyer role does not grant cat",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerBuyer}},
			target:   domain.Cat,
			expected: false,
		},
		{
			name:     "empty role collections never match",
			user:     identity.User{},
			target:   domain.Jaegger,
			expected: false,
		},
		{
			name:     "unknown domain never matches",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerBuyer}},
			target:   domain.Unknown,
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, evaluator.HasEntitlement(tc.user, tc.target))
		})
	}
}

func TestEvaluator_CustomServiceClientName(t *testing.T) {
	evaluator := entitlement.NewEvaluator(entitlement.WithServiceClientName("TEST_CLIENT"))

	user := identity.User{CoreRoles: []identity.RoleAssignment{
		coreRole(entitlement.RoleKeyCatUser, "TEST_CLIENT"),
	}}
	require.True(t, evaluator.HasEntitlement(user, domain.Cat))
}

func TestEsourcingRoleState(t *testing.T) {
	tests := []struct {
		name     string
		user     identity.User
		expected entitlement.RoleState
	}{
		{
			name: "buyer and supplier across both lists",
			user: identity.User{
				CoreRoles:       []identity.RoleAssignment{coreRole(entitlement.RoleKeyJaeggerBuyer, "X")},
				AdditionalRoles: []string{entitlement.RoleKeyJaeggerSupplier},
			},
			expected: entitlement.RoleStateBothRoles,
		},
		{
			name:     "buyer only",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerBuyer}},
			expected: entitlement.RoleStateBuyerOnly,
		},
		{
			name:     "supplier only",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyJaeggerSupplier}},
			expected: entitlement.RoleStateSupplierOnly,
		},
		{
			name:     "no jaegger roles",
			user:     identity.User{AdditionalRoles: []string{entitlement.RoleKeyCatUser}},
			expected: entitlement.RoleStateNoRoles,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, entitlement.EsourcingRoleState(tc.user))
		})
	}
}

func TestHasCasRole(t *testing.T) {
	require.True(t, entitlement.HasCasRole(identity.User{AdditionalRoles: []string{entitlement.RoleKeyCatUser}}))
	require.False(t, entitlement.HasCasRole(identity.User{}))
}
