package identity_test

import (
	"context"
	"testing"

	"github.com/florelens/go-identity"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionToken(t *testing.T, auther *identity.Auther, role identity.UserRole) string {
	t.Helper()

	token, err := auther.IssueSession(context.Background(), staticIdentity{
		id:   uuid.New().String(),
		role: string(role),
	})
	require.NoError(t, err)
	return token
}

func TestRouteAuthenticatorRequireRole(t *testing.T) {
	cfg := newTestConfig()
	auther := identity.NewAuthenticator(identity.NewUserProvider(new(MockUserTracker)), cfg)
	httpAuth, err := identity.NewHTTPAuthenticator(auther, cfg)
	require.NoError(t, err)

	var handlerErr error
	mw := httpAuth.RequireRole(cfg, identity.RoleAdmin, func(c router.Context, err error) error {
		handlerErr = err
		return err
	})
	guarded := mw(func(c router.Context) error { return nil })

	t.Run("admin session passes", func(t *testing.T) {
		handlerErr = nil
		ctx := router.NewMockContext()
		ctx.CookiesM["user"] = newSessionToken(t, auther, identity.RoleAdmin)
		ctx.On("Locals", "user", mock.Anything).Return(nil)

		require.NoError(t, guarded(ctx))
		assert.True(t, ctx.NextCalled)
		assert.NoError(t, handlerErr)
	})

	t.Run("client session is rejected", func(t *testing.T) {
		handlerErr = nil
		ctx := router.NewMockContext()
		ctx.CookiesM["user"] = newSessionToken(t, auther, identity.RoleClient)

		err := guarded(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "minimum role")
		assert.False(t, ctx.NextCalled)
		assert.Error(t, handlerErr)
	})

	t.Run("missing session cookie", func(t *testing.T) {
		handlerErr = nil
		ctx := router.NewMockContext()

		err := guarded(ctx)
		require.Error(t, err)
		assert.False(t, ctx.NextCalled)
	})

	t.Run("garbage token", func(t *testing.T) {
		handlerErr = nil
		ctx := router.NewMockContext()
		ctx.CookiesM["user"] = "not-a-session-token"

		err := guarded(ctx)
		assert.ErrorIs(t, err, identity.ErrTokenMalformed)
		assert.False(t, ctx.NextCalled)
	})
}

func TestRouteAuthenticatorProtectedRoute(t *testing.T) {
	cfg := newTestConfig()
	auther := identity.NewAuthenticator(identity.NewUserProvider(new(MockUserTracker)), cfg)
	httpAuth, err := identity.NewHTTPAuthenticator(auther, cfg)
	require.NoError(t, err)

	mw := httpAuth.ProtectedRoute(cfg, func(c router.Context, err error) error {
		return err
	})
	protected := mw(func(c router.Context) error { return nil })

	// no minimum role: any valid session gets through
	ctx := router.NewMockContext()
	ctx.CookiesM["user"] = newSessionToken(t, auther, identity.RoleClient)
	ctx.On("Locals", "user", mock.Anything).Return(nil)

	require.NoError(t, protected(ctx))
	assert.True(t, ctx.NextCalled)
}

func TestMakeClientRouteAuthErrorHandler(t *testing.T) {
	cfg := newTestConfig()
	auther := identity.NewAuthenticator(identity.NewUserProvider(new(MockUserTracker)), cfg)
	httpAuth, err := identity.NewHTTPAuthenticator(auther, cfg)
	require.NoError(t, err)

	t.Run("optional auth proceeds anonymously", func(t *testing.T) {
		ctx := router.NewMockContext()

		handler := httpAuth.MakeClientRouteAuthErrorHandler(true)
		require.NoError(t, handler(ctx, identity.ErrTokenMalformed))
		assert.True(t, ctx.NextCalled)
	})

	t.Run("required auth delegates to the error handler", func(t *testing.T) {
		ctx := router.NewMockContext()

		var handled error
		httpAuth.ErrorHandler = func(c router.Context, err error) error {
			handled = err
			return nil
		}

		handler := httpAuth.MakeClientRouteAuthErrorHandler(false)
		require.NoError(t, handler(ctx, identity.ErrTokenMalformed))
		assert.ErrorIs(t, handled, identity.ErrTokenMalformed)
		assert.False(t, ctx.NextCalled)
	})
}
