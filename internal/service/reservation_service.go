package service

import (
	"context"
	"errors"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/pkg/rabbitmq"
	"gorm.io/gorm"
)

type CreateReservationInput struct {
	ClientID uint
	RoomID   uint
	CheckIn  time.Time
	CheckOut time.Time
	Mode     models.RentalMode
	Beds     int
	ActorID  uint
}

// UpdateReservationInput carries a partial edit. Nil fields keep the
// reservation's prior values.
type UpdateReservationInput struct {
	RoomID   *uint
	CheckIn  *time.Time
	CheckOut *time.Time
	Mode     *models.RentalMode
	Beds     *int
}

type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error)
	CheckIn(ctx context.Context, id uint) (*models.Reservation, error)
	CheckOut(ctx context.Context, id uint, effectiveDate *time.Time) (*models.Reservation, error)
	SetStatus(ctx context.Context, id uint, target models.ReservationStatus) (*models.Reservation, error)
	Edit(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error)
	Delete(ctx context.Context, id uint) error
}

type reservationService struct {
	capacityChecker
	repo      repository.ReservationRepository
	rooms     repository.RoomRepository
	clients   repository.ClientRepository
	publisher *rabbitmq.Publisher
	now       func() time.Time
}

func NewReservationService(repo repository.ReservationRepository, rooms repository.RoomRepository, clients repository.ClientRepository, publisher *rabbitmq.Publisher) ReservationService {
	return &reservationService{
		capacityChecker: capacityChecker{reservations: repo},
		repo:            repo,
		rooms:           rooms,
		clients:         clients,
		publisher:       publisher,
		now:             time.Now,
	}
}

// runSerialized executes fn in one transaction and retries it exactly once
// when postgres aborts on a serialization failure or deadlock. Business-rule
// errors pass through untouched.
func (s *reservationService) runSerialized(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.repo.InTx(ctx, fn)
	if isTxConflict(err) {
		err = s.repo.InTx(ctx, fn)
	}
	return err
}

func (s *reservationService) publish(routingKey string, payload any) {
	if s.publisher != nil {
		_ = s.publisher.Publish(routingKey, payload)
	}
}

func (s *reservationService) today() time.Time {
	return models.DateOnly(s.now())
}

func validateMode(mode models.RentalMode, beds int) error {
	switch mode {
	case models.ModeWholeRoom:
		return nil
	case models.ModeByBed:
		if beds <= 0 {
			return ErrInvalidBedCount
		}
		return nil
	default:
		return ErrInvalidRentalMode
	}
}

func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	checkIn := models.DateOnly(in.CheckIn)
	checkOut := models.DateOnly(in.CheckOut)

	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}
	if checkIn.Before(s.today()) {
		return nil, ErrEntryDateInPast
	}
	if err := validateMode(in.Mode, in.Beds); err != nil {
		return nil, err
	}

	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	beds := in.Beds
	if in.Mode == models.ModeWholeRoom {
		beds = 0 // full room implied
	}

	res := &models.Reservation{
		ClientID:  in.ClientID,
		RoomID:    in.RoomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Mode:      in.Mode,
		Beds:      beds,
		Status:    models.StatusReserved,
		CreatedBy: in.ActorID,
	}

	err := s.runSerialized(ctx, func(tx *gorm.DB) error {
		// Lock the room row so concurrent capacity checks for it serialize.
		room, err := s.rooms.FindByIDForUpdate(ctx, tx, in.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if _, err := s.checkCapacity(ctx, tx, room, checkIn, checkOut, in.Mode, in.Beds, 0); err != nil {
			return err
		}
		return s.repo.Create(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	s.publish("reservation.created", res)
	return s.Get(ctx, res.ID)
}

func (s *reservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

func (s *reservationService) List(ctx context.Context, f repository.ReservationFilter) ([]models.Reservation, error) {
	if f.MinCheckIn != nil {
		d := models.DateOnly(*f.MinCheckIn)
		f.MinCheckIn = &d
	}
	if f.MaxCheckOut != nil {
		d := models.DateOnly(*f.MaxCheckOut)
		f.MaxCheckOut = &d
	}
	return s.repo.Find(ctx, f)
}

func (s *reservationService) CheckIn(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}
	if !res.Status.CanTransitionTo(models.StatusActive) {
		return nil, ErrInvalidTransition
	}

	res.Status = models.StatusActive
	res.CheckedIn = true
	if err := s.repo.Save(ctx, nil, res); err != nil {
		return nil, err
	}

	s.publish("reservation.checked_in", res)
	return res, nil
}

func (s *reservationService) CheckOut(ctx context.Context, id uint, effectiveDate *time.Time) (*models.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.CheckedIn {
		return nil, ErrNotCheckedIn
	}
	if res.CheckedOut {
		return nil, ErrAlreadyCheckedOut
	}
	if !res.Status.CanTransitionTo(models.StatusFinalized) {
		return nil, ErrInvalidTransition
	}

	today := s.today()
	date := today
	if effectiveDate != nil {
		date = models.DateOnly(*effectiveDate)
	}
	if date.Before(models.DateOnly(res.CheckIn)) {
		return nil, ErrCheckOutBeforeCheckIn
	}
	if date.After(today) {
		return nil, ErrCheckOutInFuture
	}

	res.Status = models.StatusFinalized
	res.CheckedOut = true
	res.CheckOut = date // the actual departure date replaces the planned one
	if err := s.repo.Save(ctx, nil, res); err != nil {
		return nil, err
	}

	s.publish("reservation.checked_out", res)
	return res, nil
}

func (s *reservationService) SetStatus(ctx context.Context, id uint, target models.ReservationStatus) (*models.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch target {
	case models.StatusCancelled:
		if res.CheckedIn || res.CheckedOut {
			return nil, ErrInvalidTransition
		}
		res.Status = models.StatusCancelled
		if err := s.repo.Save(ctx, nil, res); err != nil {
			return nil, err
		}
	case models.StatusReserved:
		if !res.Status.CanTransitionTo(models.StatusReserved) {
			return nil, ErrInvalidTransition
		}
		// Reactivation re-commits capacity that was freed on cancellation,
		// so it runs the same locked capacity check as a fresh booking.
		err := s.runSerialized(ctx, func(tx *gorm.DB) error {
			room, err := s.rooms.FindByIDForUpdate(ctx, tx, res.RoomID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrRoomNotFound
				}
				return err
			}
			if _, err := s.checkCapacity(ctx, tx, room, res.CheckIn, res.CheckOut, res.Mode, res.Beds, res.ID); err != nil {
				return err
			}
			res.Status = models.StatusReserved
			res.CheckedIn = false
			res.CheckedOut = false
			return s.repo.Save(ctx, tx, res)
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidStatus
	}

	s.publish("reservation.status_changed", res)
	return res, nil
}

func (s *reservationService) Edit(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == models.StatusFinalized || res.Status == models.StatusCancelled {
		return nil, ErrNotEditable
	}
	if res.CheckedIn {
		// Post check-in the room, mode, bed count and entry date are locked.
		if (in.RoomID != nil && *in.RoomID != res.RoomID) ||
			(in.Mode != nil && *in.Mode != res.Mode) ||
			(in.Beds != nil && *in.Beds != res.Beds) ||
			in.CheckIn != nil {
			return nil, ErrLockedAfterCheckIn
		}
	}

	// Effective values: provided fields where present, prior values otherwise.
	effRoomID := res.RoomID
	if in.RoomID != nil {
		effRoomID = *in.RoomID
	}
	effCheckIn := models.DateOnly(res.CheckIn)
	if in.CheckIn != nil {
		effCheckIn = models.DateOnly(*in.CheckIn)
	}
	effCheckOut := models.DateOnly(res.CheckOut)
	if in.CheckOut != nil {
		effCheckOut = models.DateOnly(*in.CheckOut)
	}
	effMode := res.Mode
	if in.Mode != nil {
		effMode = *in.Mode
	}
	effBeds := res.Beds
	if in.Beds != nil {
		effBeds = *in.Beds
	}
	if effMode == models.ModeWholeRoom {
		effBeds = 0
	}

	if in.CheckIn != nil {
		if effCheckIn.Before(s.today()) {
			return nil, ErrEntryDateInPast
		}
	}
	if !effCheckIn.Before(effCheckOut) {
		if in.CheckOut != nil && in.CheckIn == nil {
			return nil, ErrCheckOutBeforeCheckIn
		}
		return nil, ErrInvalidDateRange
	}
	if err := validateMode(effMode, effBeds); err != nil {
		return nil, err
	}

	err = s.runSerialized(ctx, func(tx *gorm.DB) error {
		room, err := s.rooms.FindByIDForUpdate(ctx, tx, effRoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		// The reservation's own record never counts against itself.
		if _, err := s.checkCapacity(ctx, tx, room, effCheckIn, effCheckOut, effMode, effBeds, res.ID); err != nil {
			return err
		}
		res.RoomID = effRoomID
		res.CheckIn = effCheckIn
		res.CheckOut = effCheckOut
		res.Mode = effMode
		res.Beds = effBeds
		return s.repo.Save(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	s.publish("reservation.updated", res)
	return s.Get(ctx, res.ID)
}

func (s *reservationService) Delete(ctx context.Context, id uint) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == models.StatusActive || res.Status == models.StatusFinalized {
		return ErrNotDeletable
	}
	if err := s.repo.Delete(ctx, res); err != nil {
		return err
	}

	s.publish("reservation.deleted", map[string]uint{"id": id})
	return nil
}
