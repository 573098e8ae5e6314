package policy

import (
	"testing"
	"time"

	"github.com/hotelhub/reservation-service/internal/models"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func booking(status models.BookingStatus, untilCheckIn time.Duration) *models.Booking {
	return &models.Booking{
		Status:   status,
		CheckIn:  now.Add(untilCheckIn),
		CheckOut: now.Add(untilCheckIn + 48*time.Hour),
	}
}

func TestGuestCancel_WindowBoundary(t *testing.T) {
	// 24h01m ahead → allowed
	b := booking(models.StatusConfirmed, 24*time.Hour+time.Minute)
	assert.True(t, CanCancel(b, models.RoleGuest, now))

	// 23h59m ahead → denied
	b = booking(models.StatusConfirmed, 23*time.Hour+59*time.Minute)
	assert.False(t, CanCancel(b, models.RoleGuest, now))

	// exactly 24h is not strictly greater → denied
	b = booking(models.StatusConfirmed, 24*time.Hour)
	assert.False(t, CanCancel(b, models.RoleGuest, now))
}

func TestGuestCancel_OnlyConfirmed(t *testing.T) {
	for _, status := range []models.BookingStatus{
		models.StatusPending,
		models.StatusCheckedIn,
	} {
		b := booking(status, 72*time.Hour)
		assert.False(t, CanCancel(b, models.RoleGuest, now), "guest should not cancel %s", status)
	}
}

func TestStaffCancel_BypassesWindow(t *testing.T) {
	// inside the 24h window
	b := booking(models.StatusConfirmed, time.Hour)
	assert.True(t, CanCancel(b, models.RoleStaff, now))

	// outside it too
	b = booking(models.StatusConfirmed, 24*time.Hour+time.Minute)
	assert.True(t, CanCancel(b, models.RoleStaff, now))

	// and on non-confirmed, non-terminal bookings
	b = booking(models.StatusPending, time.Hour)
	assert.True(t, CanCancel(b, models.RoleStaff, now))
}

func TestCancel_TerminalStatesDenied(t *testing.T) {
	for _, status := range []models.BookingStatus{
		models.StatusCheckedOut,
		models.StatusCancelled,
		models.StatusNoShow,
	} {
		b := booking(status, 72*time.Hour)
		assert.False(t, CanCancel(b, models.RoleGuest, now), "guest cancel of %s", status)
		assert.False(t, CanCancel(b, models.RoleStaff, now), "staff cancel of %s", status)
	}
}
