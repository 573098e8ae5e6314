package dto

import (
	"time"

	"github.com/hotelhub/reservation-service/internal/models"
)

type CreateBookingRequest struct {
	RoomID        uint                `json:"room_id"`
	UserID        string              `json:"user_id"`
	CheckIn       time.Time           `json:"check_in"`
	CheckOut      time.Time           `json:"check_out"`
	Adults        int                 `json:"adults"`
	Children      int                 `json:"children"`
	DiscountCents int64               `json:"discount_cents"`
	Guest         models.GuestDetails `json:"guest"`
}

type TransitionRequest struct {
	ActorRole models.ActorRole `json:"actor_role"`
	Reason    string           `json:"reason,omitempty"`
}

// PaymentRequest carries the fields the payment collaborator reports
// back after it processes a charge or refund.
type PaymentRequest struct {
	PaymentStatus string `json:"payment_status"`
	PaidCents     int64  `json:"paid_cents"`
	RefundCents   int64  `json:"refund_cents"`
}
