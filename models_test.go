package identity_test

import (
	"testing"

	"github.com/florelens/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserEmailOrEmpty(t *testing.T) {
	email := "iris@example.com"
	withEmail := &identity.User{ID: uuid.New(), Email: &email}
	assert.Equal(t, email, withEmail.EmailOrEmpty())

	withoutEmail := &identity.User{ID: uuid.New()}
	assert.Equal(t, "", withoutEmail.EmailOrEmpty())
}

func TestUserAddMetadata(t *testing.T) {
	user := &identity.User{ID: uuid.New()}
	user.AddMetadata("locale", "en-US")
	user.AddMetadata("plan", "premium")

	assert.Equal(t, "en-US", user.Metadata["locale"])
	assert.Equal(t, "premium", user.Metadata["plan"])
}

func TestMarkBookingConfirmed(t *testing.T) {
	id := uuid.New()
	booking := identity.MarkBookingConfirmed(id)

	assert.Equal(t, id, booking.ID)
	assert.Equal(t, identity.BookingConfirmed, booking.Status)
	assert.NotNil(t, booking.ConfirmedAt)
}
