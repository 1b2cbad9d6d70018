package database

import (
	"log"

	"github.com/hostelops/reservation-service/internal/models"
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

	if err := db.AutoMigrate(&models.Client{}, &models.Room{}, &models.Reservation{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Overlap queries scan one room's reserved/active rows; keep them indexed.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_room_window
		ON reservations (room_id, status, check_in, check_out)
	`)

	return db
}
