package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole       `bun:"user_role,notnull" json:"user_role,omitempty"`
	GoogleID      *string        `bun:"google_id,unique,nullzero" json:"google_id,omitempty"`
	Name          string         `bun:"name,notnull" json:"name,omitempty"`
	Email         *string        `bun:"email,unique,nullzero" json:"email,omitempty"`
	Phone         string         `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string         `bun:"password_hash" json:"password_hash,omitempty"`
	LoggedInAt    *time.Time     `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// EmailOrEmpty returns the user email, empty string when the
// account was federated without one.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// BookingStatus is the lifecycle status of a booking
type BookingStatus = string

const (
	// BookingPending awaits email confirmation
	BookingPending BookingStatus = "PENDING"
	// BookingConfirmed was confirmed through its action link
	BookingConfirmed BookingStatus = "CONFIRMED"
	// BookingCancelled was cancelled by staff or the client
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is the booking model. Confirmation links resolve to a row
// here; ConfirmBooking must stay idempotent since links can be
// clicked more than once.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:bkn"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseTitle   string        `bun:"course_title,notnull" json:"course_title,omitempty"`
	Date          *time.Time    `bun:"date,notnull" json:"date,omitempty"`
	StartTime     string        `bun:"start_time" json:"start_time,omitempty"`
	EndTime       string        `bun:"end_time" json:"end_time,omitempty"`
	People        int           `bun:"people,notnull" json:"people,omitempty"`
	Status        BookingStatus `bun:"status,notnull,default:'PENDING'" json:"status,omitempty"`
	Email         string        `bun:"email,notnull" json:"email,omitempty"`
	UserID        *uuid.UUID    `bun:"user_id" json:"user_id,omitempty"`
	User          *User         `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	ConfirmedAt   *time.Time    `bun:"confirmed_at,nullzero" json:"confirmed_at,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkBookingConfirmed builds the update payload for a confirmation
func MarkBookingConfirmed(id uuid.UUID) *Booking {
	b := &Booking{}
	b.ID = id
	b.Status = BookingConfirmed
	n := time.Now()
	b.ConfirmedAt = &n
	return b
}
