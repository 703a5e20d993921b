package identity

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SendBookingConfirmationMessage asks for a confirmation email carrying
// a signed action link for the given booking.
type SendBookingConfirmationMessage struct {
	BookingID  uuid.UUID `json:"booking_id" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Booking to confirm."`
	OnResponse func(resp *SendBookingConfirmationResponse)
}

func (m SendBookingConfirmationMessage) Type() string { return "booking.send_confirmation" }

type SendBookingConfirmationResponse struct {
	Booking *Booking
	Link    string
	Sent    bool
}

type SendBookingConfirmationHandler struct {
	repo    RepositoryManager
	tokens  *ActionTokenService
	mailer  Mailer
	baseURL string
	logger  Logger
}

// NewSendBookingConfirmationHandler wires the confirmation email flow
func NewSendBookingConfirmationHandler(repo RepositoryManager, tokens *ActionTokenService, mailer Mailer, baseURL string, logger Logger) *SendBookingConfirmationHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &SendBookingConfirmationHandler{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *SendBookingConfirmationHandler) Execute(ctx context.Context, event SendBookingConfirmationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during booking confirmation dispatch",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SendBookingConfirmationHandler) execute(ctx context.Context, event SendBookingConfirmationMessage) error {
	resp := &SendBookingConfirmationResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	booking, err := h.repo.Bookings().GetByID(ctx, event.BookingID.String())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return goerrors.New("booking not found", goerrors.CategoryNotFound).
				WithMetadata(map[string]any{"booking_id": event.BookingID.String()})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve booking for confirmation")
	}

	token, err := h.tokens.IssueDefault(booking.ID.String(), ActionConfirmBooking)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue confirmation token")
	}

	resp.Booking = booking
	resp.Link = fmt.Sprintf("%s/confirm-booking?token=%s", h.baseURL, token)

	msg := Message{
		To:      booking.Email,
		Subject: fmt.Sprintf("Confirm your booking: %s", booking.CourseTitle),
		Body: fmt.Sprintf(
			"Hi,\n\nPlease confirm your booking for %q by following this link:\n\n%s\n\nThe link is valid for a limited time. If you did not make this booking you can ignore this email.\n",
			booking.CourseTitle,
			resp.Link,
		),
	}

	// delivery is best-effort and reported as a boolean, the booking
	// itself is never rolled back over a failed email
	if err := h.mailer.Send(ctx, msg); err != nil {
		h.logger.Error("confirmation email delivery failed for booking %s: %v", booking.ID, err)
		resp.Sent = false
	} else {
		resp.Sent = true
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
