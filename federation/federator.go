package federation

import (
	"context"
	"strings"
	"time"

	"github.com/florelens/go-identity"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Federator orchestrates federated login flows: redirect out, complete
// the handshake, resolve the local user, and mint a session token.
type Federator struct {
	providers    map[string]Provider
	stateManager StateManager
	users        identity.Users
	tokenService identity.TokenService
	config       Config
}

// Config configures the federator.
type Config struct {
	BaseURL            string
	DefaultRedirectURL string
	StateSigningKey    []byte
	StateTTL           time.Duration
	DefaultRole        identity.UserRole
}

// Option configures the federator.
type Option func(*Federator)

// NewFederator creates a new federator.
func NewFederator(
	users identity.Users,
	tokenService identity.TokenService,
	config Config,
	opts ...Option,
) *Federator {
	cfg := config
	if cfg.StateTTL == 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = identity.RoleClient
	}

	f := &Federator{
		providers:    make(map[string]Provider),
		users:        users,
		tokenService: tokenService,
		config:       cfg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if f.stateManager == nil {
		f.stateManager = NewSignedStateManager(cfg.StateSigningKey, cfg.StateTTL)
	}

	return f
}

// WithProvider registers an identity provider.
func WithProvider(provider Provider) Option {
	return func(f *Federator) {
		if provider == nil {
			return
		}
		f.providers[provider.Name()] = provider
	}
}

// WithStateManager sets a custom state manager.
func WithStateManager(sm StateManager) Option {
	return func(f *Federator) {
		f.stateManager = sm
	}
}

// AuthRedirect contains the authorization URL for redirecting users.
type AuthRedirect struct {
	URL      string
	State    string
	Provider string
}

// AuthResult contains the result of a successful authentication.
type AuthResult struct {
	User        *identity.User
	Identity    identity.Identity
	Token       string
	IsNewUser   bool
	Provider    string
	Profile     *Profile
	RedirectURL string
}

// BeginAuthOption configures the auth initiation.
type BeginAuthOption func(*beginAuthConfig)

type beginAuthConfig struct {
	redirectURL string
}

// WithRedirectURL sets the post-auth redirect URL carried in the state.
func WithRedirectURL(url string) BeginAuthOption {
	return func(c *beginAuthConfig) {
		c.redirectURL = url
	}
}

// BeginAuth starts the OAuth flow for a provider.
func (f *Federator) BeginAuth(ctx context.Context, providerName string, opts ...BeginAuthOption) (*AuthRedirect, error) {
	provider, ok := f.providers[providerName]
	if !ok {
		return nil, ErrProviderNotFound.Clone().
			WithMetadata(map[string]any{"provider": providerName})
	}

	cfg := &beginAuthConfig{
		redirectURL: f.config.DefaultRedirectURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	state := &State{
		Nonce:       generateNonce(),
		Provider:    providerName,
		RedirectURL: cfg.redirectURL,
		IssuedAt:    time.Now().Unix(),
		ExpiresAt:   time.Now().Add(f.config.StateTTL).Unix(),
	}

	stateToken, err := f.stateManager.Encode(state)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode state")
	}

	return &AuthRedirect{
		URL:      provider.AuthCodeURL(stateToken),
		State:    stateToken,
		Provider: providerName,
	}, nil
}

// CompleteAuth finishes the OAuth flow after the provider callback:
// verify state, exchange the code, fetch the profile, and resolve the
// local user. First login for a provider subject creates exactly one
// row; repeat logins perform zero writes.
func (f *Federator) CompleteAuth(ctx context.Context, providerName, code, stateToken string) (*AuthResult, error) {
	state, err := f.stateManager.Decode(stateToken)
	if err != nil {
		if goerrors.Is(err, ErrStateExpired) {
			return nil, ErrStateExpired
		}
		return nil, ErrInvalidState
	}

	if state.Provider != providerName {
		return nil, ErrInvalidState.Clone().
			WithMetadata(map[string]any{
				"state_provider": state.Provider,
				"provider":       providerName,
			})
	}

	provider, ok := f.providers[providerName]
	if !ok {
		return nil, ErrProviderNotFound.Clone().
			WithMetadata(map[string]any{"provider": providerName})
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, wrapProviderError(ErrExchangeFailed, providerName, "exchange", err)
	}

	profile, err := provider.UserInfo(ctx, token)
	if err != nil {
		return nil, wrapProviderError(ErrUserInfoFailed, providerName, "user_info", err)
	}

	if profile == nil || strings.TrimSpace(profile.ProviderUserID) == "" {
		return nil, ErrMissingProviderID
	}

	user, isNew, err := f.resolveLocalUser(ctx, profile)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrFederationFailed.Category, ErrFederationFailed.Message).
			WithTextCode(ErrFederationFailed.TextCode)
	}

	id := identity.NewIdentityFromUser(user)
	if id == nil {
		return nil, identity.ErrIdentityNotFound
	}

	jwtToken, err := f.tokenService.Generate(id)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate session token")
	}

	return &AuthResult{
		User:        user,
		Identity:    id,
		Token:       jwtToken,
		IsNewUser:   isNew,
		Provider:    providerName,
		Profile:     profile,
		RedirectURL: state.RedirectURL,
	}, nil
}

// ListProviders returns all registered providers.
func (f *Federator) ListProviders() []ProviderInfo {
	var providers []ProviderInfo
	for name, p := range f.providers {
		providers = append(providers, ProviderInfo{
			Name:    name,
			AuthURL: p.AuthCodeURL(""),
		})
	}
	return providers
}

// ProviderInfo describes an available provider.
type ProviderInfo struct {
	Name    string
	AuthURL string
}

func (f *Federator) resolveLocalUser(ctx context.Context, profile *Profile) (*identity.User, bool, error) {
	existing, err := f.users.GetByGoogleID(ctx, profile.ProviderUserID)
	if err == nil {
		return existing, false, nil
	}

	if !repository.IsRecordNotFound(err) && !goerrors.IsNotFound(err) {
		return nil, false, err
	}

	user, err := f.users.GetOrCreateByGoogleID(ctx, f.userFromProfile(profile))
	if err != nil {
		return nil, false, err
	}

	return user, true, nil
}

// userFromProfile maps a provider profile onto a new local user row.
// Email is optional; some provider accounts expose none. The password
// hash is seeded with an unguessable throwaway so the row never has a
// usable password credential.
func (f *Federator) userFromProfile(profile *Profile) *identity.User {
	providerID := profile.ProviderUserID

	user := &identity.User{
		GoogleID:     &providerID,
		Name:         profile.Name,
		Role:         f.config.DefaultRole,
		PasswordHash: identity.RandomPasswordHash(),
	}

	if email := strings.TrimSpace(profile.Email); email != "" {
		user.Email = &email
	}

	return user
}
