package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelhub/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error)
	FindByRoomID(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error)
	CountOverlapping(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, statuses []models.BookingStatus) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Transaction runs fn inside a database transaction; a returned error
// rolls everything back, so a failed reservation never leaves a partial
// booking behind.
func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row within the given transaction so
// concurrent status transitions on the same booking are serialized.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByRoomID(ctx context.Context, roomID uint, status *models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("check_in ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountOverlapping counts bookings in the given statuses whose half-open
// [check_in, check_out) interval conflicts with the candidate range.
// Back-to-back stays sharing a boundary date do not conflict.
func (r *bookingRepository) CountOverlapping(ctx context.Context, tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, statuses []models.BookingStatus) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("room_id = ? AND status IN ? AND check_in < ? AND check_out > ?",
			roomID, statuses, checkOut, checkIn).
		Count(&count).Error
	return count, err
}
