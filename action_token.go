package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// ActionConfirmBooking authorizes confirming the booking named by the
// token's subject.
const ActionConfirmBooking = "confirm-booking"

// ActionTokenService issues and verifies single-purpose action tokens.
// Tokens are stateless HS256 JWTs; nothing is recorded when one is
// verified, so handlers consuming them MUST be idempotent.
type ActionTokenService struct {
	signingKey []byte
	defaultTTL time.Duration
	logger     Logger
}

// NewActionTokenService creates a new ActionTokenService instance
func NewActionTokenService(signingKey []byte, defaultTTL time.Duration, logger Logger) *ActionTokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &ActionTokenService{
		signingKey: signingKey,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// IssueDefault mints a token with the TTL the service was configured
// with.
func (s *ActionTokenService) IssueDefault(resourceID, action string) (string, error) {
	return s.Issue(resourceID, action, s.defaultTTL)
}

// Issue mints a token authorizing action on resourceID, expiring ttl
// from issuance. A zero or negative ttl yields an already expired
// token.
func (s *ActionTokenService) Issue(resourceID, action string, ttl time.Duration) (string, error) {
	if resourceID == "" {
		return "", errors.New("resource id is required", errors.CategoryBadInput)
	}
	if action == "" {
		return "", errors.New("action is required", errors.CategoryBadInput)
	}

	now := time.Now()
	claims := &ActionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   resourceID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Action: action,
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign action token")
	}

	return signedString, nil
}

// Verify checks the token and returns the resource id it was minted
// for. Checks run in order: signature, expiry, action. A token signed
// for a different action never passes even when otherwise valid.
func (s *ActionTokenService) Verify(tokenString, expectedAction string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrActionTokenExpired
		}
		s.logger.Debug("action token rejected: %v", err)
		return "", ErrActionTokenInvalid
	}

	claims, ok := token.Claims.(*ActionClaims)
	if !ok || !token.Valid {
		return "", ErrActionTokenInvalid
	}

	if claims.Action != expectedAction {
		s.logger.Warn("action token minted for %q used against %q", claims.Action, expectedAction)
		return "", ErrActionMismatch
	}

	if claims.RegisteredClaims.Subject == "" {
		return "", ErrActionTokenInvalid
	}

	return claims.RegisteredClaims.Subject, nil
}
