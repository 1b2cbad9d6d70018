package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"gorm.io/gorm"
)

// RoomOccupancy is a room's physical occupancy on a given date. Only active
// (checked-in) reservations count here. Reserved ones protect future
// capacity but nobody is sleeping in those beds yet.
type RoomOccupancy struct {
	Room          *models.Room
	CommittedBeds int
	Status        models.OccupancyStatus
}

// FleetSnapshot aggregates occupancy and same-day reservation counts across
// all rooms for the dashboard.
type FleetSnapshot struct {
	AsOf              time.Time
	TotalRooms        int
	FullRooms         int
	PartialRooms      int
	FreeRooms         int
	OccupancyRate     float64
	ReservationsToday int64
	PendingCheckOuts  int64
	NoShows           int64
	ActiveClients     int64
	TomorrowForecast  float64
	MostPopularRoom   string
	AverageStayDays   float64
}

type OccupancyService interface {
	RoomOccupancy(ctx context.Context, roomID uint, asOf time.Time) (*RoomOccupancy, error)
	ListOccupancy(ctx context.Context, asOf time.Time, group *string, status *models.OccupancyStatus) ([]RoomOccupancy, error)
	FleetSnapshot(ctx context.Context, asOf time.Time) (*FleetSnapshot, error)
}

type occupancyService struct {
	reservations repository.ReservationRepository
	rooms        repository.RoomRepository
}

func NewOccupancyService(reservations repository.ReservationRepository, rooms repository.RoomRepository) OccupancyService {
	return &occupancyService{reservations: reservations, rooms: rooms}
}

func (s *occupancyService) RoomOccupancy(ctx context.Context, roomID uint, asOf time.Time) (*RoomOccupancy, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	active, err := s.reservations.FindActiveOn(ctx, models.DateOnly(asOf))
	if err != nil {
		return nil, err
	}

	committed := 0
	for i := range active {
		if active[i].RoomID == room.ID {
			committed += active[i].CommittedBeds(room.BedCount)
		}
	}
	return &RoomOccupancy{
		Room:          room,
		CommittedBeds: committed,
		Status:        room.ClassifyOccupancy(committed),
	}, nil
}

func (s *occupancyService) ListOccupancy(ctx context.Context, asOf time.Time, group *string, status *models.OccupancyStatus) ([]RoomOccupancy, error) {
	rooms, err := s.rooms.FindAll(ctx, repository.RoomFilter{Group: group})
	if err != nil {
		return nil, err
	}
	active, err := s.reservations.FindActiveOn(ctx, models.DateOnly(asOf))
	if err != nil {
		return nil, err
	}

	byRoom := make(map[uint][]models.Reservation)
	for _, res := range active {
		byRoom[res.RoomID] = append(byRoom[res.RoomID], res)
	}

	out := make([]RoomOccupancy, 0, len(rooms))
	for i := range rooms {
		room := rooms[i]
		committed := committedBeds(byRoom[room.ID], &room)
		occ := RoomOccupancy{
			Room:          &rooms[i],
			CommittedBeds: committed,
			Status:        room.ClassifyOccupancy(committed),
		}
		if status != nil && occ.Status != *status {
			continue
		}
		out = append(out, occ)
	}
	return out, nil
}

func (s *occupancyService) FleetSnapshot(ctx context.Context, asOf time.Time) (*FleetSnapshot, error) {
	date := models.DateOnly(asOf)

	occ, err := s.ListOccupancy(ctx, date, nil, nil)
	if err != nil {
		return nil, err
	}

	snap := &FleetSnapshot{AsOf: date, TotalRooms: len(occ)}
	for _, o := range occ {
		switch o.Status {
		case models.OccupancyFull:
			snap.FullRooms++
		case models.OccupancyPartial:
			snap.PartialRooms++
		default:
			snap.FreeRooms++
		}
	}
	if snap.TotalRooms > 0 {
		rate := float64(snap.FullRooms+snap.PartialRooms) / float64(snap.TotalRooms) * 100
		snap.OccupancyRate = round1(rate)
	}

	reserved := []models.ReservationStatus{models.StatusReserved}
	if snap.ReservationsToday, err = s.reservations.CountEnteringOn(ctx, date, reserved); err != nil {
		return nil, err
	}
	if snap.PendingCheckOuts, err = s.reservations.CountExitingActiveOn(ctx, date); err != nil {
		return nil, err
	}
	// No-show detection is a heuristic: yesterday's still-reserved entries.
	// A stay that fully elapsed without check-in on earlier dates is missed.
	yesterday := date.AddDate(0, 0, -1)
	if snap.NoShows, err = s.reservations.CountEnteringOn(ctx, yesterday, reserved); err != nil {
		return nil, err
	}
	if snap.ActiveClients, err = s.reservations.CountDistinctActiveClientsOn(ctx, date); err != nil {
		return nil, err
	}

	tomorrow := date.AddDate(0, 0, 1)
	entering, err := s.reservations.CountEnteringOn(ctx, tomorrow, []models.ReservationStatus{models.StatusReserved, models.StatusActive})
	if err != nil {
		return nil, err
	}
	if snap.TotalRooms > 0 {
		snap.TomorrowForecast = round1(float64(entering) / float64(snap.TotalRooms) * 100)
	}

	thirtyDaysAgo := date.AddDate(0, 0, -30)
	if snap.MostPopularRoom, err = s.reservations.MostBookedRoomSince(ctx, thirtyDaysAgo); err != nil {
		return nil, err
	}
	if snap.MostPopularRoom == "" {
		snap.MostPopularRoom = "N/A"
	}
	avg, err := s.reservations.AverageFinalizedStaySince(ctx, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}
	snap.AverageStayDays = round1(avg)

	return snap, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
