package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// HasRole checks if the user has a specific role
func (s *SessionObject) HasRole(role string) bool {
	return string(s.getGlobalRole()) == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (s *SessionObject) IsAtLeast(minRole UserRole) bool {
	return s.getGlobalRole().IsAtLeast(minRole)
}

// CanViewAdmin checks if the session's role grants admin surface access
func (s *SessionObject) CanViewAdmin() bool {
	return s.getGlobalRole().CanViewAdmin()
}

// getGlobalRole retrieves the role from session data with fallback to client
func (s *SessionObject) getGlobalRole() UserRole {
	if s.Data != nil {
		if roleData, exists := s.Data["role"]; exists {
			if roleStr, ok := roleData.(string); ok {
				if role, valid := ParseRole(roleStr); valid {
					return role
				}
			}
		}
	}
	return RoleClient
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s aud=%v iss=%s iat=%s data=%v",
		s.UserID,
		s.Audience,
		s.Issuer,
		issuedAt,
		s.Data,
	)
}

// sessionFromAuthClaims creates a SessionObject from AuthClaims
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToMapClaims
	}

	data := make(map[string]any)
	data["role"] = claims.Role()

	var audience []string
	issuer := claims.Subject()
	if sessionClaims, ok := claims.(*SessionClaims); ok {
		if sessionClaims.RegisteredClaims.Audience != nil {
			audience = append(audience, sessionClaims.RegisteredClaims.Audience...)
		}
		if sessionClaims.RegisteredClaims.Issuer != "" {
			issuer = sessionClaims.RegisteredClaims.Issuer
		}
		if len(sessionClaims.Metadata) > 0 {
			data["metadata"] = sessionClaims.Metadata
		}
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Audience:       audience,
		Issuer:         issuer,
		Data:           data,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}

// SerializeUser reduces a user to the key stored in the session.
// The key is the internal id, never the provider id or email.
func SerializeUser(user *User) string {
	if user == nil {
		return ""
	}
	return user.ID.String()
}

// UserFinder is the subset of the user store the resolver needs
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
}

// SessionResolver turns session keys back into users. Each call hits
// the store so role changes and deletions are observed on the next
// request; there is no cross-request cache.
type SessionResolver struct {
	store  UserFinder
	logger Logger
}

// NewSessionResolver creates a resolver backed by the given store
func NewSessionResolver(store UserFinder, logger Logger) *SessionResolver {
	if logger == nil {
		logger = defLogger{}
	}
	return &SessionResolver{
		store:  store,
		logger: logger,
	}
}

// Deserialize resolves the stored key to a user. A key that no longer
// matches a row means an anonymous request, (nil, nil), not an error.
// Store failures surface as ErrIdentityStoreUnavailable so callers
// can distinguish "logged out" from "try again".
func (sr *SessionResolver) Deserialize(ctx context.Context, key string) (*User, error) {
	if key == "" {
		return nil, nil
	}

	if _, err := uuid.Parse(key); err != nil {
		sr.logger.Warn("session key is not a valid id: %q", key)
		return nil, nil
	}

	user, err := sr.store.GetByIdentifier(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, ErrIdentityStoreUnavailable.Category, ErrIdentityStoreUnavailable.Message).
			WithTextCode(ErrIdentityStoreUnavailable.TextCode)
	}

	return user, nil
}
