package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccs-digital/login-director/domain"
)

func TestResolver(t *testing.T) {
	resolver := domain.Resolver{
		CatHost:     "cas.example.com",
		JaeggerHost: "esourcing.example.com",
	}

	require.Equal(t, domain.Cat, resolver.Resolve("cas.example.com"))
	require.Equal(t, domain.Jaegger, resolver.Resolve("esourcing.example.com"))
	require.Equal(t, domain.Unknown, resolver.Resolve("other.example.com"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Contract Award Service", domain.Cat.DisplayName())
	require.Equal(t, "CCS eSourcing", domain.Jaegger.DisplayName())
	require.Equal(t, "", domain.Unknown.DisplayName())
}
