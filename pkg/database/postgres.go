package database

import (
	"log"

	"github.com/hotelhub/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Room{}, &models.Booking{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	ApplyConstraints(db)

	return db
}

// ApplyConstraints installs the storage-layer backstop against
// double-booking: an exclusion constraint that rejects two holding
// bookings on the same room with overlapping [check_in, check_out)
// ranges, even if a writer somehow bypasses the row lock.
func ApplyConstraints(db *gorm.DB) {
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				tstzrange(check_in, check_out) WITH &&
			) WHERE (status IN ('pending', 'confirmed', 'checked_in'));
		EXCEPTION
			WHEN duplicate_object THEN NULL;
			WHEN duplicate_table THEN NULL;
		END $$
	`)
}
