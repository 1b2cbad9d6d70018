package service

import (
	"context"
	"errors"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// capacityChecker decides whether a reservation fits within a room's
// remaining bed capacity over a date range. It is a read-only consumer of the
// reservation store; callers that commit based on its answer must hold the
// room row lock for the duration (see runSerialized).
type capacityChecker struct {
	reservations repository.ReservationRepository
}

// committedBeds sums the worst-case simultaneous bed commitment across the
// overlap set: the room's full bed count for whole-room entries, the
// reserved bed count for by-bed entries.
func committedBeds(overlaps []models.Reservation, room *models.Room) int {
	total := 0
	for i := range overlaps {
		total += overlaps[i].CommittedBeds(room.BedCount)
	}
	return total
}

// checkCapacity validates a requested booking of the given mode against the
// room's reserved/active overlaps in [start, end). excludeID removes the
// caller's own reservation when re-checking an edit. On success it returns
// the committed bed count found, for caller bookkeeping.
func (c *capacityChecker) checkCapacity(ctx context.Context, tx *gorm.DB, room *models.Room, start, end time.Time, mode models.RentalMode, beds int, excludeID uint) (int, error) {
	overlaps, err := c.reservations.FindOverlaps(ctx, tx, room.ID, start, end, excludeID)
	if err != nil {
		return 0, err
	}

	switch mode {
	case models.ModeWholeRoom:
		// A whole-room booking admits no concurrent bookings at all.
		if len(overlaps) > 0 {
			return 0, ErrCapacityExceeded
		}
		return 0, nil
	case models.ModeByBed:
		if beds <= 0 {
			return 0, ErrInvalidBedCount
		}
		committed := committedBeds(overlaps, room)
		if committed+beds > room.BedCount {
			return committed, ErrCapacityExceeded
		}
		return committed, nil
	default:
		return 0, ErrInvalidRentalMode
	}
}

// isTxConflict reports whether err is a concurrency-conflict abort from
// postgres: a serialization failure (40001) or a deadlock (40P01). These are
// the only failures worth one automatic retry.
func isTxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
