package models

import "time"

type RoomStatus string

// Operational/housekeeping state of the physical room. Independent of
// bookings: occupancy is derived from the booking table, never stored here.
const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// Room is a local read copy of the catalog collaborator's room record,
// kept in sync by the room consumer. This service never edits catalog
// content.
type Room struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:120" json:"name"`
	NightlyRateCents  int64      `gorm:"not null" json:"nightly_rate_cents"`
	MaxGuests         int        `gorm:"not null" json:"max_guests"`
	OperationalStatus RoomStatus `gorm:"type:varchar(20);not null;default:'available'" json:"operational_status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
