package repository

import (
	"context"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"gorm.io/gorm"
)

// ReservationFilter narrows List queries. Nil fields are ignored.
type ReservationFilter struct {
	ClientID    *uint
	RoomID      *uint
	Status      *models.ReservationStatus
	MinCheckIn  *time.Time
	MaxCheckOut *time.Time
}

type ReservationRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, res *models.Reservation) error
	Save(ctx context.Context, tx *gorm.DB, res *models.Reservation) error
	Delete(ctx context.Context, res *models.Reservation) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error)
	Find(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)
	FindOverlaps(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error)
	FindActiveOn(ctx context.Context, date time.Time) ([]models.Reservation, error)
	CountForRoomInStatus(ctx context.Context, roomID uint, statuses []models.ReservationStatus) (int64, error)
	CountEnteringOn(ctx context.Context, date time.Time, statuses []models.ReservationStatus) (int64, error)
	CountExitingActiveOn(ctx context.Context, date time.Time) (int64, error)
	CountDistinctActiveClientsOn(ctx context.Context, date time.Time) (int64, error)
	MostBookedRoomSince(ctx context.Context, since time.Time) (string, error)
	AverageFinalizedStaySince(ctx context.Context, since time.Time) (float64, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// InTx runs fn inside a single database transaction. Capacity-affecting
// writes go through here so the room row lock and the commit share one scope.
func (r *reservationRepository) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// dbOr returns tx when inside a transaction and the base handle otherwise.
func (r *reservationRepository) dbOr(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, res *models.Reservation) error {
	return r.dbOr(tx).WithContext(ctx).Create(res).Error
}

func (r *reservationRepository) Save(ctx context.Context, tx *gorm.DB, res *models.Reservation) error {
	return r.dbOr(tx).WithContext(ctx).Save(res).Error
}

func (r *reservationRepository) Delete(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Delete(res).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.dbOr(tx).WithContext(ctx).
		Preload("Client").
		Preload("Room").
		First(&res, id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Find(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := r.db.WithContext(ctx).Preload("Client").Preload("Room")
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.MinCheckIn != nil {
		q = q.Where("check_in >= ?", *f.MinCheckIn)
	}
	if f.MaxCheckOut != nil {
		q = q.Where("check_out <= ?", *f.MaxCheckOut)
	}

	var out []models.Reservation
	if err := q.Order("check_in DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindOverlaps returns the reserved/active reservations for a room whose
// half-open interval [check_in, check_out) intersects [start, end).
// excludeID removes a reservation from consideration, used when re-checking
// an edit against its own prior record; 0 excludes nothing.
func (r *reservationRepository) FindOverlaps(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error) {
	q := r.dbOr(tx).WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", []models.ReservationStatus{models.StatusReserved, models.StatusActive}).
		Where("check_in < ? AND check_out > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var out []models.Reservation
	if err := q.Order("check_in ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindActiveOn returns every checked-in reservation whose stay covers the
// given date. Check-out day counts as occupied until the guest actually
// leaves, so the upper bound is inclusive here.
func (r *reservationRepository) FindActiveOn(ctx context.Context, date time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusActive).
		Where("check_in <= ? AND check_out >= ?", date, date).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepository) CountForRoomInStatus(ctx context.Context, roomID uint, statuses []models.ReservationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", roomID, statuses).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountEnteringOn(ctx context.Context, date time.Time, statuses []models.ReservationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("check_in = ? AND status IN ?", date, statuses).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountExitingActiveOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("check_out = ? AND status = ?", date, models.StatusActive).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) CountDistinctActiveClientsOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ?", models.StatusActive).
		Where("check_in <= ? AND check_out >= ?", date, date).
		Distinct("client_id").
		Count(&count).Error
	return count, err
}

// MostBookedRoomSince returns the number of the room with the most
// reservations entered since the given date, or "" when there are none.
func (r *reservationRepository) MostBookedRoomSince(ctx context.Context, since time.Time) (string, error) {
	var number string
	err := r.db.WithContext(ctx).Raw(`
		SELECT rooms.number::text
		FROM reservations
		JOIN rooms ON rooms.id = reservations.room_id
		WHERE reservations.check_in >= ?
		GROUP BY rooms.number
		ORDER BY COUNT(*) DESC
		LIMIT 1`, since).Scan(&number).Error
	return number, err
}

// AverageFinalizedStaySince returns the mean stay length in days over
// finalized reservations that entered since the given date.
func (r *reservationRepository) AverageFinalizedStaySince(ctx context.Context, since time.Time) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT AVG(EXTRACT(EPOCH FROM (check_out - check_in)) / 86400.0)
		FROM reservations
		WHERE status = ? AND check_in >= ?`, models.StatusFinalized, since).Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
