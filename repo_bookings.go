package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrBookingCancelled is returned when confirming a cancelled booking
var ErrBookingCancelled = errors.New("booking was cancelled", errors.CategoryConflict).
	WithTextCode("BOOKING_CANCELLED")

type Bookings interface {
	repository.Repository[*Booking]

	Confirm(ctx context.Context, id uuid.UUID) (*Booking, error)
	ConfirmTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Booking, error)
}

type bookings struct {
	repository.Repository[*Booking]
	db *bun.DB
}

var (
	_ Bookings                        = (*bookings)(nil)
	_ repository.Repository[*Booking] = (*bookings)(nil)
)

func NewBookingsRepository(db *bun.DB) Bookings {
	repo := repository.NewRepository[*Booking](db, repository.ModelHandlers[*Booking]{
		NewRecord: func() *Booking { return &Booking{} },
		GetID: func(b *Booking) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Booking, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &bookings{
		Repository: repo,
		db:         db,
	}
}

func (a *bookings) Confirm(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return a.ConfirmTx(ctx, a.db, id)
}

// ConfirmTx transitions PENDING to CONFIRMED. Confirming a booking
// that is already confirmed is a no-op; confirmation links get
// clicked more than once.
func (a *bookings) ConfirmTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Booking, error) {
	booking, err := a.Repository.GetByIDTx(ctx, tx, id.String())
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case BookingConfirmed:
		return booking, nil
	case BookingCancelled:
		return nil, ErrBookingCancelled
	}

	return a.Repository.UpdateTx(ctx, tx, MarkBookingConfirmed(id), repository.UpdateByID(id.String()))
}
