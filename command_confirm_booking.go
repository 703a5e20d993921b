package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConfirmBookingMessage redeems a confirmation link token. Tokens are
// stateless, so redeeming the same link twice is expected and safe.
type ConfirmBookingMessage struct {
	Token      string `json:"token" doc:"Signed confirmation token from the email link."`
	OnResponse func(resp *ConfirmBookingResponse)
}

func (m ConfirmBookingMessage) Type() string { return "booking.confirm" }

type ConfirmBookingResponse struct {
	Booking *Booking
	Success bool
}

type ConfirmBookingHandler struct {
	repo   RepositoryManager
	tokens *ActionTokenService
}

// NewConfirmBookingHandler wires the confirmation consumer
func NewConfirmBookingHandler(repo RepositoryManager, tokens *ActionTokenService) *ConfirmBookingHandler {
	return &ConfirmBookingHandler{
		repo:   repo,
		tokens: tokens,
	}
}

func (h *ConfirmBookingHandler) Execute(ctx context.Context, event ConfirmBookingMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during booking confirmation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmBookingHandler) execute(ctx context.Context, event ConfirmBookingMessage) error {
	resp := &ConfirmBookingResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	// expired, tampered, and wrong-action tokens each surface their own
	// error so handlers can message the user accordingly
	resourceID, err := h.tokens.Verify(event.Token, ActionConfirmBooking)
	if err != nil {
		return err
	}

	bookingID, err := uuid.Parse(resourceID)
	if err != nil {
		return ErrActionTokenInvalid
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		booking, err := h.repo.Bookings().ConfirmTx(ctx, tx, bookingID)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return goerrors.New("booking not found", goerrors.CategoryNotFound).
					WithMetadata(map[string]any{"booking_id": bookingID.String()})
			}
			return err
		}

		resp.Booking = booking
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "booking confirmation transaction failed")
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
