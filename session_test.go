package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/florelens/go-identity"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeUser(t *testing.T) {
	userID := uuid.New()
	user := &identity.User{ID: userID, Name: "Iris Fern"}

	assert.Equal(t, userID.String(), identity.SerializeUser(user))
	assert.Equal(t, "", identity.SerializeUser(nil))
}

func TestSessionResolverDeserialize(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves user by session key", func(t *testing.T) {
		store := new(MockUserTracker)
		resolver := identity.NewSessionResolver(store, nil)

		userID := uuid.New()
		user := &identity.User{ID: userID, Name: "Iris Fern", Role: identity.RoleClient}
		store.On("GetByIdentifier", ctx, userID.String()).Return(user, nil).Once()

		got, err := resolver.Deserialize(ctx, userID.String())
		require.NoError(t, err)
		assert.Equal(t, user, got)
		store.AssertExpectations(t)
	})

	t.Run("missing user is anonymous, not an error", func(t *testing.T) {
		store := new(MockUserTracker)
		resolver := identity.NewSessionResolver(store, nil)

		key := uuid.New().String()
		store.On("GetByIdentifier", ctx, key).
			Return(nil, errors.New("not found", errors.CategoryNotFound)).Once()

		got, err := resolver.Deserialize(ctx, key)
		assert.NoError(t, err)
		assert.Nil(t, got)
		store.AssertExpectations(t)
	})

	t.Run("empty key is anonymous", func(t *testing.T) {
		store := new(MockUserTracker)
		resolver := identity.NewSessionResolver(store, nil)

		got, err := resolver.Deserialize(ctx, "")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("malformed key is anonymous without store lookup", func(t *testing.T) {
		store := new(MockUserTracker)
		resolver := identity.NewSessionResolver(store, nil)

		got, err := resolver.Deserialize(ctx, "not-a-uuid")
		assert.NoError(t, err)
		assert.Nil(t, got)
		store.AssertNotCalled(t, "GetByIdentifier")
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		store := new(MockUserTracker)
		resolver := identity.NewSessionResolver(store, nil)

		key := uuid.New().String()
		store.On("GetByIdentifier", ctx, key).
			Return(nil, errors.New("connection refused", errors.CategoryInternal)).Once()

		got, err := resolver.Deserialize(ctx, key)
		require.Error(t, err)
		assert.Nil(t, got)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, identity.ErrIdentityStoreUnavailable.TextCode, richErr.TextCode)
	})
}

func TestSessionObjectRoles(t *testing.T) {
	session := &identity.SessionObject{
		UserID: uuid.New().String(),
		Data:   map[string]any{"role": "ADMIN"},
	}

	assert.True(t, session.HasRole("ADMIN"))
	assert.True(t, session.IsAtLeast(identity.RoleClient))
	assert.True(t, session.CanViewAdmin())

	noRole := &identity.SessionObject{UserID: uuid.New().String()}
	assert.True(t, noRole.HasRole("CLIENT"))
	assert.False(t, noRole.CanViewAdmin())
}

func TestHasUserUUID(t *testing.T) {
	now := time.Now()
	valid := &identity.SessionObject{UserID: uuid.New().String(), IssuedAt: &now}
	assert.True(t, identity.HasUserUUID(valid))

	invalid := &identity.SessionObject{UserID: "nope"}
	assert.False(t, identity.HasUserUUID(invalid))
	assert.False(t, identity.HasUserUUID(nil))
}
