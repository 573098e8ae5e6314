package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelhub/reservation-service/internal/models"
	"github.com/hotelhub/reservation-service/internal/policy"
	"github.com/hotelhub/reservation-service/internal/pricing"
	"github.com/hotelhub/reservation-service/internal/repository"
	"github.com/hotelhub/reservation-service/pkg/rabbitmq"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrRoomUnavailable   = errors.New("room is unavailable for the requested dates")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrInvalidGuestCount = errors.New("booking needs at least one adult")
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrPolicyDenied      = errors.New("action denied by booking policy")
)

// exclusionViolation is the SQLSTATE Postgres raises when an insert hits
// the bookings_no_overlap constraint, i.e. a concurrent writer won the
// same dates first.
const exclusionViolation = "23P01"

type CreateBookingInput struct {
	RoomID        uint
	UserID        string
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	DiscountCents int64
	Guest         models.GuestDetails
}

type TransitionInput struct {
	BookingID uuid.UUID
	Event     models.TransitionEvent
	Actor     models.ActorRole
	Reason    string
}

type ReservationService interface {
	CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error)
	PricingPreview(ctx context.Context, roomID uint, checkIn, checkOut time.Time, discountCents int64) (*pricing.Quote, error)
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	TransitionBooking(ctx context.Context, in TransitionInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListRoomBookings(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error)
	RecordPayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidCents, refundCents int64) (*models.Booking, error)
	UpdateGuestDetails(ctx context.Context, id uuid.UUID, guest models.GuestDetails) (*models.Booking, error)
}

type reservationService struct {
	rooms     repository.RoomRepository
	bookings  repository.BookingRepository
	publisher *rabbitmq.Publisher
	now       func() time.Time
}

func NewReservationService(rooms repository.RoomRepository, bookings repository.BookingRepository, publisher *rabbitmq.Publisher) ReservationService {
	return &reservationService{
		rooms:     rooms,
		bookings:  bookings,
		publisher: publisher,
		now:       time.Now,
	}
}

// CheckAvailability is a pure read: true iff the room is operationally
// available and no holding booking overlaps the candidate range. The
// answer is advisory; CreateBooking re-validates inside its transaction.
func (s *reservationService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	if !checkOut.After(checkIn) {
		return false, ErrInvalidDateRange
	}

	available := false
	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		ok, err := s.isAvailable(ctx, tx, roomID, checkIn, checkOut)
		available = ok
		return err
	})
	return available, err
}

// isAvailable runs the availability check against the given transaction.
func (s *reservationService) isAvailable(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRoomNotFound
		}
		return false, err
	}

	if room.OperationalStatus != models.RoomAvailable {
		return false, nil
	}

	overlapping, err := s.bookings.CountOverlapping(ctx, tx, roomID, checkIn, checkOut, models.HoldingStatuses)
	if err != nil {
		return false, err
	}
	return overlapping == 0, nil
}

// PricingPreview quotes a stay without persisting anything.
func (s *reservationService) PricingPreview(ctx context.Context, roomID uint, checkIn, checkOut time.Time, discountCents int64) (*pricing.Quote, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	quote, err := pricing.Compute(room.NightlyRateCents, checkIn, checkOut, discountCents)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			return nil, ErrInvalidDateRange
		}
		return nil, err
	}
	return quote, nil
}

func (s *reservationService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	var result *models.Booking

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the room row — serializes concurrent attempts on this room
		room, err := s.rooms.FindByIDForUpdate(ctx, tx, in.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}

		// 2. Capacity against the catalog's limit
		if in.Adults+in.Children > room.MaxGuests {
			return ErrCapacityExceeded
		}

		// 3. Operational state and overlap, under the lock
		if room.OperationalStatus != models.RoomAvailable {
			return ErrRoomUnavailable
		}
		overlapping, err := s.bookings.CountOverlapping(ctx, tx, in.RoomID, in.CheckIn, in.CheckOut, models.HoldingStatuses)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrRoomUnavailable
		}

		// 4. Price the stay off the catalog rate
		quote, err := pricing.Compute(room.NightlyRateCents, in.CheckIn, in.CheckOut, in.DiscountCents)
		if err != nil {
			return err
		}

		booking := &models.Booking{
			ID:               uuid.New(),
			RoomID:           in.RoomID,
			UserID:           in.UserID,
			CheckIn:          in.CheckIn,
			CheckOut:         in.CheckOut,
			Adults:           in.Adults,
			Children:         in.Children,
			Nights:           quote.Nights,
			RateCents:        quote.RateCents,
			SubtotalCents:    quote.SubtotalCents,
			TaxCents:         quote.TaxCents,
			DiscountCents:    quote.DiscountCents,
			FinalAmountCents: quote.FinalAmountCents,
			Status:           models.StatusPending,
			Guest:            in.Guest,
		}
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			return translateReserveError(err)
		}
		result = booking
		return nil
	})

	return result, err
}

func (s *reservationService) validateCreate(in CreateBookingInput) error {
	if !in.CheckOut.After(in.CheckIn) {
		return ErrInvalidDateRange
	}
	if dateOf(in.CheckIn).Before(dateOf(s.now())) {
		return ErrInvalidDateRange
	}
	if in.Adults < 1 || in.Children < 0 {
		return ErrInvalidGuestCount
	}
	return nil
}

func (s *reservationService) TransitionBooking(ctx context.Context, in TransitionInput) (*models.Booking, error) {
	var result *models.Booking
	var checkedOut bool

	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.FindByIDForUpdate(ctx, tx, in.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := s.apply(booking, in); err != nil {
			return err
		}
		if err := s.bookings.Save(ctx, tx, booking); err != nil {
			return err
		}

		checkedOut = booking.Status == models.StatusCheckedOut
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Loyalty accrual fires only once the transition is committed.
	if checkedOut && s.publisher != nil {
		_ = s.publisher.Publish("booking.checked_out", map[string]any{
			"booking_id":         result.ID,
			"user_id":            result.UserID,
			"final_amount_cents": result.FinalAmountCents,
		})
	}

	return result, nil
}

// apply mutates the booking for the requested event, or reports why it
// cannot happen. This is the single place booking status ever changes.
func (s *reservationService) apply(b *models.Booking, in TransitionInput) error {
	now := s.now()

	switch in.Event {
	case models.EventConfirm:
		if b.Status != models.StatusPending {
			return transitionError(b.Status, in.Event)
		}
		b.Status = models.StatusConfirmed

	case models.EventCancel:
		if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
			return transitionError(b.Status, in.Event)
		}
		if in.Actor == models.RoleGuest && !policy.CanCancel(b, in.Actor, now) {
			return fmt.Errorf("%w: guest cancellation closed for this booking", ErrPolicyDenied)
		}
		b.Status = models.StatusCancelled
		b.CancellationReason = in.Reason
		b.CancelledAt = &now

	case models.EventCheckIn:
		if b.Status != models.StatusConfirmed {
			return transitionError(b.Status, in.Event)
		}
		if dateOf(now).Before(dateOf(b.CheckIn)) {
			return fmt.Errorf("%w: check-in opens on %s", ErrPolicyDenied, dateOf(b.CheckIn).Format("2006-01-02"))
		}
		b.Status = models.StatusCheckedIn
		b.ActualCheckIn = &now

	case models.EventCheckOut:
		if b.Status != models.StatusCheckedIn {
			return transitionError(b.Status, in.Event)
		}
		b.Status = models.StatusCheckedOut
		b.ActualCheckOut = &now

	case models.EventNoShow:
		if b.Status != models.StatusConfirmed {
			return transitionError(b.Status, in.Event)
		}
		if !now.After(b.CheckIn) {
			return fmt.Errorf("%w: cannot mark no-show before check-in time", ErrPolicyDenied)
		}
		b.Status = models.StatusNoShow

	default:
		return fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, in.Event)
	}

	return nil
}

func transitionError(from models.BookingStatus, event models.TransitionEvent) error {
	return fmt.Errorf("%w: cannot %s a booking in status %s", ErrInvalidTransition, event, from)
}

func (s *reservationService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *reservationService) ListRoomBookings(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByRoomID(ctx, roomID, status)
}

// RecordPayment stores the fields reported by the payment collaborator.
// No business rule currently gates on them.
func (s *reservationService) RecordPayment(ctx context.Context, id uuid.UUID, paymentStatus string, paidCents, refundCents int64) (*models.Booking, error) {
	var result *models.Booking
	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		booking.PaymentStatus = paymentStatus
		booking.PaidCents = paidCents
		booking.RefundCents = refundCents
		if err := s.bookings.Save(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateGuestDetails replaces the guest contact fields. Allowed only
// before confirmation; afterwards the booking changes through status
// transitions alone.
func (s *reservationService) UpdateGuestDetails(ctx context.Context, id uuid.UUID, guest models.GuestDetails) (*models.Booking, error) {
	var result *models.Booking
	err := s.bookings.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookings.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.StatusPending {
			return fmt.Errorf("%w: guest details are frozen once the booking is %s", ErrPolicyDenied, booking.Status)
		}
		booking.Guest = guest
		if err := s.bookings.Save(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// translateReserveError maps a lost race at the storage layer onto the
// conflict error the caller can retry on.
func translateReserveError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return ErrRoomUnavailable
	}
	return err
}

// dateOf truncates a timestamp to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
