package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// Terminal reports whether no further transition is defined from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// HoldingStatuses are the statuses that hold a room against new
// reservations. A pending booking holds its dates from the moment it is
// written; otherwise two pendings on the same range could both confirm.
var HoldingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCheckedIn}

// ActiveStatuses are the statuses that count toward occupancy.
var ActiveStatuses = []BookingStatus{StatusConfirmed, StatusCheckedIn}

type TransitionEvent string

const (
	EventConfirm  TransitionEvent = "confirm"
	EventCheckIn  TransitionEvent = "check_in"
	EventCheckOut TransitionEvent = "check_out"
	EventCancel   TransitionEvent = "cancel"
	EventNoShow   TransitionEvent = "no_show"
)

type ActorRole string

const (
	RoleGuest ActorRole = "guest"
	RoleStaff ActorRole = "staff"
)

// GuestDetails holds the contact fields supplied by the guest/auth
// collaborator. Stored verbatim, never validated here.
type GuestDetails struct {
	Name     string `gorm:"size:120" json:"name"`
	Email    string `gorm:"size:120" json:"email"`
	Phone    string `gorm:"size:40" json:"phone"`
	IDType   string `gorm:"size:40" json:"id_type"`
	IDNumber string `gorm:"size:80" json:"id_number"`
	Address  string `gorm:"size:255" json:"address"`
}

type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID uint      `gorm:"not null;index:idx_room_stay" json:"room_id"`
	UserID string    `gorm:"not null;index" json:"user_id"`

	CheckIn  time.Time `gorm:"not null;index:idx_room_stay" json:"check_in"`
	CheckOut time.Time `gorm:"not null;index:idx_room_stay" json:"check_out"`

	Adults   int `gorm:"not null;default:1" json:"adults"`
	Children int `gorm:"not null;default:0" json:"children"`

	// Pricing is frozen at creation time so a later tax-rate change never
	// rewrites history.
	Nights           int   `gorm:"not null" json:"nights"`
	RateCents        int64 `gorm:"not null" json:"rate_cents"`
	SubtotalCents    int64 `gorm:"not null" json:"subtotal_cents"`
	TaxCents         int64 `gorm:"not null" json:"tax_cents"`
	DiscountCents    int64 `gorm:"not null;default:0" json:"discount_cents"`
	FinalAmountCents int64 `gorm:"not null" json:"final_amount_cents"`

	Status BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_room_stay" json:"status"`

	// Written only by the payment collaborator through RecordPayment.
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaidCents     int64  `gorm:"not null;default:0" json:"paid_cents"`
	RefundCents   int64  `gorm:"not null;default:0" json:"refund_cents"`

	Guest GuestDetails `gorm:"embedded;embeddedPrefix:guest_" json:"guest"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ActualCheckIn      *time.Time `json:"actual_check_in,omitempty"`
	ActualCheckOut     *time.Time `json:"actual_check_out,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestCount is the total headcount checked against room capacity.
func (b *Booking) GuestCount() int {
	return b.Adults + b.Children
}
