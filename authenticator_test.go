package identity_test

import (
	"context"
	"testing"

	"github.com/florelens/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutherLoginAndSession(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserTracker)
	provider := identity.NewUserProvider(store)
	auther := identity.NewAuthenticator(provider, newTestConfig())

	userID := uuid.New()
	email := "iris@example.com"
	hash, _ := identity.HashPassword("password123")
	user := &identity.User{
		ID:           userID,
		Name:         "Iris Fern",
		Email:        &email,
		PasswordHash: hash,
		Role:         identity.RoleClient,
	}

	store.On("GetByIdentifier", ctx, email).Return(user, nil)
	// session lookups resolve by the token subject, not the login email
	store.On("GetByIdentifier", ctx, userID.String()).Return(user, nil)
	store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

	token, err := auther.Login(ctx, email, "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), session.GetUserID())

	got, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	found, err := auther.IdentityFromSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), found.ID())
}

func TestAutherLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserTracker)
	provider := identity.NewUserProvider(store)
	auther := identity.NewAuthenticator(provider, newTestConfig())

	hash, _ := identity.HashPassword("correct-password")
	user := &identity.User{
		ID:           uuid.New(),
		Name:         "Iris Fern",
		PasswordHash: hash,
		Role:         identity.RoleClient,
	}

	store.On("GetByIdentifier", ctx, "iris@example.com").Return(user, nil)

	token, err := auther.Login(ctx, "iris@example.com", "wrong-password")
	assert.ErrorIs(t, err, identity.ErrMismatchedHashAndPassword)
	assert.Empty(t, token)
}

func TestAutherIssueSession(t *testing.T) {
	ctx := context.Background()
	auther := identity.NewAuthenticator(
		identity.NewUserProvider(new(MockUserTracker)),
		newTestConfig(),
	)

	t.Run("mints token for verified identity", func(t *testing.T) {
		userID := uuid.New().String()
		token, err := auther.IssueSession(ctx, staticIdentity{
			id:   userID,
			role: string(identity.RoleClient),
		})
		require.NoError(t, err)

		session, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, session.GetUserID())
	})

	t.Run("rejects nil identity", func(t *testing.T) {
		_, err := auther.IssueSession(ctx, nil)
		assert.ErrorIs(t, err, identity.ErrIdentityNotFound)
	})
}

func TestAutherSessionFromBadToken(t *testing.T) {
	auther := identity.NewAuthenticator(
		identity.NewUserProvider(new(MockUserTracker)),
		newTestConfig(),
	)

	_, err := auther.SessionFromToken("garbage")
	assert.ErrorIs(t, err, identity.ErrTokenMalformed)
}
