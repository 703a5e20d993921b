package identity_test

import (
	"context"
	"testing"

	"github.com/florelens/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &identity.User{ID: uuid.New(), Name: "Iris Fern"}

	ctx := identity.WithContext(context.Background(), user)
	got, ok := identity.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = identity.FromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &identity.SessionClaims{UID: uuid.New().String(), UserRole: "CLIENT"}

	ctx := identity.WithClaimsContext(context.Background(), claims)
	got, ok := identity.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, claims.UserID(), got.UserID())

	_, ok = identity.GetClaims(context.Background())
	assert.False(t, ok)
}
