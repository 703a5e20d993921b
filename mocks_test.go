package identity_test

import (
	"context"
	"time"

	"github.com/florelens/go-identity"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	if user, ok := args.Get(0).(*identity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type staticIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (s staticIdentity) ID() string       { return s.id }
func (s staticIdentity) Username() string { return s.username }
func (s staticIdentity) Email() string    { return s.email }
func (s staticIdentity) Role() string     { return s.role }

type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c testConfig) GetSigningKey() string            { return c.signingKey }
func (c testConfig) GetSigningMethod() string         { return "HS256" }
func (c testConfig) GetContextKey() string            { return "user" }
func (c testConfig) GetTokenExpiration() int          { return c.tokenExpiration }
func (c testConfig) GetExtendedTokenDuration() int    { return c.tokenExpiration * 7 }
func (c testConfig) GetTokenLookup() string           { return "cookie:user" }
func (c testConfig) GetAuthScheme() string            { return "Bearer" }
func (c testConfig) GetIssuer() string                { return c.issuer }
func (c testConfig) GetAudience() []string            { return c.audience }
func (c testConfig) GetBaseURL() string               { return "http://localhost:8572" }
func (c testConfig) GetActionTokenTTL() time.Duration { return 7 * 24 * time.Hour }
func (c testConfig) GetRejectedRouteKey() string      { return "rejected_route" }
func (c testConfig) GetRejectedRouteDefault() string  { return "/" }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 1,
		issuer:          "test-issuer",
		audience:        []string{"test-audience"},
	}
}
