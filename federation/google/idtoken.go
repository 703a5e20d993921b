package google

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/florelens/go-identity/federation"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuerHTTPS = "https://accounts.google.com"
	issuerPlain = "accounts.google.com"
)

// IDTokenVerifier validates Google id_tokens against Google's JWKS,
// refreshing keys in the background as they rotate.
type IDTokenVerifier struct {
	jwksURL  string
	audience string

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

// NewIDTokenVerifier creates a verifier for the given JWKS endpoint
// and expected audience (the OAuth client id).
func NewIDTokenVerifier(jwksURL, audience string) *IDTokenVerifier {
	return &IDTokenVerifier{
		jwksURL:  jwksURL,
		audience: audience,
	}
}

// Verify checks the id_token signature and standard claims and maps it
// to a profile.
func (v *IDTokenVerifier) Verify(ctx context.Context, rawIDToken string) (*federation.Profile, error) {
	jwks, err := v.keySet(ctx)
	if err != nil {
		return nil, fmt.Errorf("google: failed to load JWKS: %w", err)
	}

	claims := &idTokenClaims{}
	token, err := jwt.ParseWithClaims(rawIDToken, claims, jwks.Keyfunc,
		jwt.WithAudience(v.audience),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("google: id_token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("google: id_token is not valid")
	}

	if claims.Issuer != issuerHTTPS && claims.Issuer != issuerPlain {
		return nil, fmt.Errorf("google: unexpected id_token issuer: %q", claims.Issuer)
	}

	return mapProfile(&googleUserInfo{
		Sub:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		GivenName:     claims.GivenName,
		FamilyName:    claims.FamilyName,
		Picture:       claims.Picture,
		Locale:        claims.Locale,
	}), nil
}

func (v *IDTokenVerifier) keySet(ctx context.Context) (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.jwks != nil {
		return v.jwks, nil
	}

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, err
	}

	v.jwks = jwks
	return jwks, nil
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}
