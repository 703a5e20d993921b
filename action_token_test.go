package identity_test

import (
	"strings"
	"testing"
	"time"

	"github.com/florelens/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTokenRoundTrip(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)
	bookingID := uuid.New().String()

	token, err := svc.Issue(bookingID, identity.ActionConfirmBooking, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resourceID, err := svc.Verify(token, identity.ActionConfirmBooking)
	require.NoError(t, err)
	assert.Equal(t, bookingID, resourceID)
}

func TestActionTokenDefaultTTL(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)
	bookingID := uuid.New().String()

	token, err := svc.IssueDefault(bookingID, identity.ActionConfirmBooking)
	require.NoError(t, err)

	resourceID, err := svc.Verify(token, identity.ActionConfirmBooking)
	require.NoError(t, err)
	assert.Equal(t, bookingID, resourceID)
}

func TestActionTokenIssueValidation(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	t.Run("empty resource id", func(t *testing.T) {
		_, err := svc.Issue("", identity.ActionConfirmBooking, 0)
		assert.Error(t, err)
	})

	t.Run("empty action", func(t *testing.T) {
		_, err := svc.Issue(uuid.New().String(), "", 0)
		assert.Error(t, err)
	})
}

func TestActionTokenExpired(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	token, err := svc.Issue(uuid.New().String(), identity.ActionConfirmBooking, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token, identity.ActionConfirmBooking)
	assert.ErrorIs(t, err, identity.ErrActionTokenExpired)
	assert.True(t, identity.IsTokenExpiredError(err))
}

func TestActionTokenZeroTTLExpiresImmediately(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	// ttl is never defaulted: expiry is issuance plus ttl, so a zero
	// ttl token is dead on arrival
	token, err := svc.Issue(uuid.New().String(), identity.ActionConfirmBooking, 0)
	require.NoError(t, err)

	_, err = svc.Verify(token, identity.ActionConfirmBooking)
	assert.ErrorIs(t, err, identity.ErrActionTokenExpired)
}

func TestActionTokenActionMismatch(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	token, err := svc.Issue(uuid.New().String(), "cancel-booking", time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token, identity.ActionConfirmBooking)
	assert.ErrorIs(t, err, identity.ErrActionMismatch)
}

func TestActionTokenTampered(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	token, err := svc.Issue(uuid.New().String(), identity.ActionConfirmBooking, time.Hour)
	require.NoError(t, err)

	t.Run("flipped signature byte", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err := svc.Verify(tampered, identity.ActionConfirmBooking)
		assert.ErrorIs(t, err, identity.ErrActionTokenInvalid)
	})

	t.Run("different signing key", func(t *testing.T) {
		other := identity.NewActionTokenService([]byte("other-key"), time.Hour, nil)
		_, err := other.Verify(token, identity.ActionConfirmBooking)
		assert.ErrorIs(t, err, identity.ErrActionTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not-a-token", identity.ActionConfirmBooking)
		assert.ErrorIs(t, err, identity.ErrActionTokenInvalid)
	})
}

func TestActionTokenExpiryCheckedBeforeAction(t *testing.T) {
	svc := identity.NewActionTokenService([]byte("action-key"), time.Hour, nil)

	// minted for a different action AND expired; expiry wins
	token, err := svc.Issue(uuid.New().String(), "cancel-booking", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token, identity.ActionConfirmBooking)
	assert.ErrorIs(t, err, identity.ErrActionTokenExpired)
}
