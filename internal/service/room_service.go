package service

import (
	"context"
	"errors"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/pkg/cache"
	"gorm.io/gorm"
)

type CreateRoomInput struct {
	Number   int
	BedCount int
	Group    string
}

// RoomAvailability reports a room's committed capacity over a queried range,
// counting both reserved and active reservations.
type RoomAvailability struct {
	Room          *models.Room
	Start         time.Time
	End           time.Time
	CommittedBeds int
	FreeBeds      int
	Status        models.OccupancyStatus
	Conflicts     int
}

type RoomService interface {
	Create(ctx context.Context, in CreateRoomInput) (*models.Room, error)
	Get(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context, f repository.RoomFilter) ([]models.Room, error)
	Update(ctx context.Context, id uint, in CreateRoomInput) (*models.Room, error)
	Delete(ctx context.Context, id uint) error
	Availability(ctx context.Context, roomID uint, start, end time.Time, excludeReservationID uint) (*RoomAvailability, error)
}

type roomService struct {
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
	roomCache    *cache.RoomCache
}

func NewRoomService(rooms repository.RoomRepository, reservations repository.ReservationRepository, roomCache *cache.RoomCache) RoomService {
	return &roomService{rooms: rooms, reservations: reservations, roomCache: roomCache}
}

func (s *roomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	if err := s.checkNumberFree(ctx, in.Number, 0); err != nil {
		return nil, err
	}

	room := &models.Room{Number: in.Number, BedCount: in.BedCount, Group: in.Group}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	if room, ok := s.roomCache.Get(ctx, id); ok {
		return room, nil
	}
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	s.roomCache.Set(ctx, room)
	return room, nil
}

func (s *roomService) List(ctx context.Context, f repository.RoomFilter) ([]models.Room, error) {
	return s.rooms.FindAll(ctx, f)
}

func (s *roomService) Update(ctx context.Context, id uint, in CreateRoomInput) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if err := s.checkNumberFree(ctx, in.Number, id); err != nil {
		return nil, err
	}

	room.Number = in.Number
	room.BedCount = in.BedCount
	room.Group = in.Group
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	// Stale bed counts would corrupt capacity math.
	s.roomCache.Invalidate(ctx, id)
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, id uint) error {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	inUse, err := s.reservations.CountForRoomInStatus(ctx, id, []models.ReservationStatus{models.StatusReserved, models.StatusActive})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrRoomInUse
	}

	if err := s.rooms.Delete(ctx, room); err != nil {
		return err
	}
	s.roomCache.Invalidate(ctx, id)
	return nil
}

// Availability runs the same overlap-and-capacity rule as reservation
// creation, without locking. It is a read-only preview and may observe a
// slightly stale view.
func (s *roomService) Availability(ctx context.Context, roomID uint, start, end time.Time, excludeReservationID uint) (*RoomAvailability, error) {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	startDate := models.DateOnly(start)
	endDate := models.DateOnly(end)
	if !startDate.Before(endDate) {
		return nil, ErrInvalidDateRange
	}

	overlaps, err := s.reservations.FindOverlaps(ctx, nil, roomID, startDate, endDate, excludeReservationID)
	if err != nil {
		return nil, err
	}

	committed := committedBeds(overlaps, room)
	return &RoomAvailability{
		Room:          room,
		Start:         startDate,
		End:           endDate,
		CommittedBeds: committed,
		FreeBeds:      room.BedCount - committed,
		Status:        room.ClassifyOccupancy(committed),
		Conflicts:     len(overlaps),
	}, nil
}

func (s *roomService) checkNumberFree(ctx context.Context, number int, selfID uint) error {
	existing, err := s.rooms.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateRoom
	}
	return nil
}
