package repository

import (
	"context"

	"github.com/hostelops/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomFilter narrows room listings. Nil fields are ignored.
type RoomFilter struct {
	Group   *string
	MinBeds *int
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error)
	FindByNumber(ctx context.Context, number int) (*models.Room, error)
	FindAll(ctx context.Context, f RoomFilter) ([]models.Room, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Delete(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate acquires a row-level lock on the room within the given
// transaction. Holding this lock from the capacity check through the commit
// serializes concurrent bookings against the same room.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	var room models.Room
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByNumber(ctx context.Context, number int) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	q := r.db.WithContext(ctx)
	if f.Group != nil {
		q = q.Where("\"group\" = ?", *f.Group)
	}
	if f.MinBeds != nil {
		q = q.Where("bed_count >= ?", *f.MinBeds)
	}

	var rooms []models.Room
	if err := q.Order("number ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
