package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelhub/reservation-service/internal/models"
)

type BookingResponse struct {
	ID                 uuid.UUID            `json:"id"`
	RoomID             uint                 `json:"room_id"`
	UserID             string               `json:"user_id"`
	CheckIn            time.Time            `json:"check_in"`
	CheckOut           time.Time            `json:"check_out"`
	Adults             int                  `json:"adults"`
	Children           int                  `json:"children"`
	Nights             int                  `json:"nights"`
	RateCents          int64                `json:"rate_cents"`
	SubtotalCents      int64                `json:"subtotal_cents"`
	TaxCents           int64                `json:"tax_cents"`
	DiscountCents      int64                `json:"discount_cents"`
	FinalAmountCents   int64                `json:"final_amount_cents"`
	Status             models.BookingStatus `json:"status"`
	PaymentStatus      string               `json:"payment_status"`
	Guest              models.GuestDetails  `json:"guest"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	ActualCheckIn      *time.Time           `json:"actual_check_in,omitempty"`
	ActualCheckOut     *time.Time           `json:"actual_check_out,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

type AvailabilityResponse struct {
	RoomID    uint      `json:"room_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Available bool      `json:"available"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		RoomID:             b.RoomID,
		UserID:             b.UserID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Adults:             b.Adults,
		Children:           b.Children,
		Nights:             b.Nights,
		RateCents:          b.RateCents,
		SubtotalCents:      b.SubtotalCents,
		TaxCents:           b.TaxCents,
		DiscountCents:      b.DiscountCents,
		FinalAmountCents:   b.FinalAmountCents,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		Guest:              b.Guest,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		ActualCheckIn:      b.ActualCheckIn,
		ActualCheckOut:     b.ActualCheckOut,
		CreatedAt:          b.CreatedAt,
	}
}
