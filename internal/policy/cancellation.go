package policy

import (
	"time"

	"github.com/hotelhub/reservation-service/internal/models"
)

// GuestCancellationWindow is how far ahead of check-in a guest must be to
// cancel on their own.
const GuestCancellationWindow = 24 * time.Hour

// CanCancel decides whether the given actor may cancel the booking at
// time now. Staff may cancel any non-terminal booking; guests only a
// confirmed booking more than 24h before check-in.
func CanCancel(b *models.Booking, actor models.ActorRole, now time.Time) bool {
	if b.Status.Terminal() {
		return false
	}
	if actor == models.RoleStaff {
		return true
	}
	if b.Status != models.StatusConfirmed {
		return false
	}
	return b.CheckIn.Sub(now) > GuestCancellationWindow
}
