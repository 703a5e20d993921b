package identity_test

import (
	"testing"

	"github.com/florelens/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, identity.RoleClient.IsValid())
	assert.True(t, identity.RoleAdmin.IsValid())
	assert.False(t, identity.UserRole("SUPERUSER").IsValid())
	assert.False(t, identity.UserRole("").IsValid())
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, identity.RoleAdmin.IsAtLeast(identity.RoleClient))
	assert.True(t, identity.RoleAdmin.IsAtLeast(identity.RoleAdmin))
	assert.True(t, identity.RoleClient.IsAtLeast(identity.RoleClient))
	assert.False(t, identity.RoleClient.IsAtLeast(identity.RoleAdmin))
	assert.False(t, identity.UserRole("UNKNOWN").IsAtLeast(identity.RoleClient))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, identity.RoleClient.CanBook())
	assert.True(t, identity.RoleAdmin.CanBook())

	assert.False(t, identity.RoleClient.CanManageSpecies())
	assert.True(t, identity.RoleAdmin.CanManageSpecies())

	assert.False(t, identity.RoleClient.CanManageUsers())
	assert.True(t, identity.RoleAdmin.CanManageUsers())

	assert.False(t, identity.RoleClient.CanViewAdmin())
	assert.True(t, identity.RoleAdmin.CanViewAdmin())
}

func TestParseRole(t *testing.T) {
	role, ok := identity.ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, identity.RoleAdmin, role)

	role, ok = identity.ParseRole("CLIENT")
	assert.True(t, ok)
	assert.Equal(t, identity.RoleClient, role)

	_, ok = identity.ParseRole("client")
	assert.False(t, ok)

	_, ok = identity.ParseRole("nope")
	assert.False(t, ok)
}
