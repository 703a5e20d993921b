package federation_test

import (
	"context"
	"testing"

	"github.com/florelens/go-identity"
	"github.com/florelens/go-identity/federation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name        string
	profile     *federation.Profile
	exchangeErr error
	userInfoErr error
	exchanged   []string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state string, opts ...federation.AuthCodeOption) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (*federation.Token, error) {
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	p.exchanged = append(p.exchanged, code)
	return &federation.Token{AccessToken: "access-" + code}, nil
}

func (p *fakeProvider) UserInfo(ctx context.Context, token *federation.Token) (*federation.Profile, error) {
	if p.userInfoErr != nil {
		return nil, p.userInfoErr
	}
	return p.profile, nil
}

func (p *fakeProvider) ValidateToken(ctx context.Context, token *federation.Token) error {
	return nil
}

type fakeUserStore struct {
	identity.Users
	byGoogleID map[string]*identity.User
	creates    int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byGoogleID: map[string]*identity.User{}}
}

func (f *fakeUserStore) GetByGoogleID(ctx context.Context, googleID string) (*identity.User, error) {
	if user, ok := f.byGoogleID[googleID]; ok {
		return user, nil
	}
	return nil, errors.New("record not found", errors.CategoryNotFound)
}

func (f *fakeUserStore) GetOrCreateByGoogleID(ctx context.Context, record *identity.User) (*identity.User, error) {
	if record.GoogleID == nil {
		return nil, errors.New("missing google id", errors.CategoryBadInput)
	}
	if existing, ok := f.byGoogleID[*record.GoogleID]; ok {
		return existing, nil
	}
	record.ID = uuid.New()
	f.byGoogleID[*record.GoogleID] = record
	f.creates++
	return record, nil
}

func newTestFederator(store identity.Users, provider federation.Provider) *federation.Federator {
	tokenService := identity.NewTokenService(
		[]byte("session-key"), 1, "test-issuer",
		jwt.ClaimStrings{"test-audience"}, nil,
	)

	return federation.NewFederator(store, tokenService, federation.Config{
		BaseURL:            "https://app.example.com/auth/federation",
		DefaultRedirectURL: "/",
		StateSigningKey:    []byte("state-key"),
	}, federation.WithProvider(provider))
}

func googleProfile() *federation.Profile {
	return &federation.Profile{
		ProviderUserID: "google-oauth-123",
		Provider:       "google",
		Email:          "iris@example.com",
		EmailVerified:  true,
		Name:           "Iris Fern",
	}
}

func TestFederatorBeginAuth(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{name: "google", profile: googleProfile()}
	federator := newTestFederator(newFakeUserStore(), provider)

	redirect, err := federator.BeginAuth(ctx, "google", federation.WithRedirectURL("/bookings"))
	require.NoError(t, err)
	assert.Equal(t, "google", redirect.Provider)
	assert.Contains(t, redirect.URL, redirect.State)
	assert.NotEmpty(t, redirect.State)

	t.Run("unknown provider", func(t *testing.T) {
		_, err := federator.BeginAuth(ctx, "github")
		require.Error(t, err)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, federation.ErrProviderNotFound.TextCode, richErr.TextCode)
	})
}

func TestFederatorCompleteAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("first login creates exactly one user", func(t *testing.T) {
		provider := &fakeProvider{name: "google", profile: googleProfile()}
		store := newFakeUserStore()
		federator := newTestFederator(store, provider)

		redirect, err := federator.BeginAuth(ctx, "google", federation.WithRedirectURL("/bookings"))
		require.NoError(t, err)

		result, err := federator.CompleteAuth(ctx, "google", "auth-code", redirect.State)
		require.NoError(t, err)

		assert.True(t, result.IsNewUser)
		assert.Equal(t, 1, store.creates)
		assert.Equal(t, "/bookings", result.RedirectURL)
		assert.Equal(t, identity.RoleClient, result.User.Role)
		assert.Equal(t, "Iris Fern", result.User.Name)
		require.NotNil(t, result.User.GoogleID)
		assert.Equal(t, "google-oauth-123", *result.User.GoogleID)
		assert.NotEmpty(t, result.Token)

		// the created row carries a throwaway hash, never a usable password
		assert.NotEmpty(t, result.User.PasswordHash)
		assert.Error(t, identity.ComparePasswordAndHash("", result.User.PasswordHash))

		// repeat login performs zero writes and returns the same row
		redirect2, err := federator.BeginAuth(ctx, "google")
		require.NoError(t, err)

		result2, err := federator.CompleteAuth(ctx, "google", "auth-code-2", redirect2.State)
		require.NoError(t, err)
		assert.False(t, result2.IsNewUser)
		assert.Equal(t, 1, store.creates)
		assert.Equal(t, result.User.ID, result2.User.ID)
	})

	t.Run("state minted for another provider", func(t *testing.T) {
		provider := &fakeProvider{name: "google", profile: googleProfile()}
		federator := newTestFederator(newFakeUserStore(), provider)

		sm := federation.NewSignedStateManager([]byte("state-key"), 0)
		state, err := sm.Encode(&federation.State{Provider: "github"})
		require.NoError(t, err)

		_, err = federator.CompleteAuth(ctx, "google", "auth-code", state)
		require.Error(t, err)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, federation.ErrInvalidState.TextCode, richErr.TextCode)
	})

	t.Run("tampered state", func(t *testing.T) {
		provider := &fakeProvider{name: "google", profile: googleProfile()}
		federator := newTestFederator(newFakeUserStore(), provider)

		_, err := federator.CompleteAuth(ctx, "google", "auth-code", "bogus-state")
		assert.ErrorIs(t, err, federation.ErrInvalidState)
	})

	t.Run("exchange failure", func(t *testing.T) {
		provider := &fakeProvider{
			name:        "google",
			exchangeErr: errors.New("provider said no", errors.CategoryOperation),
		}
		federator := newTestFederator(newFakeUserStore(), provider)

		redirect, err := federator.BeginAuth(ctx, "google")
		require.NoError(t, err)

		_, err = federator.CompleteAuth(ctx, "google", "auth-code", redirect.State)
		require.Error(t, err)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, federation.ErrExchangeFailed.TextCode, richErr.TextCode)
	})

	t.Run("profile without provider id", func(t *testing.T) {
		provider := &fakeProvider{
			name:    "google",
			profile: &federation.Profile{Provider: "google", Email: "iris@example.com"},
		}
		federator := newTestFederator(newFakeUserStore(), provider)

		redirect, err := federator.BeginAuth(ctx, "google")
		require.NoError(t, err)

		_, err = federator.CompleteAuth(ctx, "google", "auth-code", redirect.State)
		assert.ErrorIs(t, err, federation.ErrMissingProviderID)
	})

	t.Run("store failure wraps as federation failure", func(t *testing.T) {
		provider := &fakeProvider{name: "google", profile: googleProfile()}
		store := &failingUserStore{}
		federator := newTestFederator(store, provider)

		redirect, err := federator.BeginAuth(ctx, "google")
		require.NoError(t, err)

		_, err = federator.CompleteAuth(ctx, "google", "auth-code", redirect.State)
		require.Error(t, err)

		var richErr *errors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, federation.ErrFederationFailed.TextCode, richErr.TextCode)
	})
}

type failingUserStore struct {
	identity.Users
}

func (f *failingUserStore) GetByGoogleID(ctx context.Context, googleID string) (*identity.User, error) {
	return nil, errors.New("connection refused", errors.CategoryInternal)
}

func TestFederatorListProviders(t *testing.T) {
	provider := &fakeProvider{name: "google", profile: googleProfile()}
	federator := newTestFederator(newFakeUserStore(), provider)

	providers := federator.ListProviders()
	require.Len(t, providers, 1)
	assert.Equal(t, "google", providers[0].Name)
	assert.NotEmpty(t, providers[0].AuthURL)
}
