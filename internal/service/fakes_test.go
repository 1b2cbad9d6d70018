package service

import (
	"context"
	"sort"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories. InTx simply runs the
// function; the repositories here are only exercised single-threaded.

type fakeReservationRepo struct {
	nextID uint
	items  map[uint]models.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{items: map[uint]models.Reservation{}}
}

func (f *fakeReservationRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (f *fakeReservationRepo) Create(ctx context.Context, tx *gorm.DB, res *models.Reservation) error {
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	f.items[res.ID] = *res
	return nil
}

func (f *fakeReservationRepo) Save(ctx context.Context, tx *gorm.DB, res *models.Reservation) error {
	if _, ok := f.items[res.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[res.ID] = *res
	return nil
}

func (f *fakeReservationRepo) Delete(ctx context.Context, res *models.Reservation) error {
	delete(f.items, res.ID)
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	res, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &res, nil
}

func (f *fakeReservationRepo) Find(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.items {
		if filter.ClientID != nil && res.ClientID != *filter.ClientID {
			continue
		}
		if filter.RoomID != nil && res.RoomID != *filter.RoomID {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		if filter.MinCheckIn != nil && res.CheckIn.Before(*filter.MinCheckIn) {
			continue
		}
		if filter.MaxCheckOut != nil && res.CheckOut.After(*filter.MaxCheckOut) {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return out, nil
}

func (f *fakeReservationRepo) FindOverlaps(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.items {
		if res.RoomID != roomID || res.ID == excludeID {
			continue
		}
		if res.Status != models.StatusReserved && res.Status != models.StatusActive {
			continue
		}
		if res.CheckIn.Before(end) && res.CheckOut.After(start) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReservationRepo) FindActiveOn(ctx context.Context, date time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.items {
		if res.Status != models.StatusActive {
			continue
		}
		if !res.CheckIn.After(date) && !res.CheckOut.Before(date) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CountForRoomInStatus(ctx context.Context, roomID uint, statuses []models.ReservationStatus) (int64, error) {
	var count int64
	for _, res := range f.items {
		if res.RoomID == roomID && statusIn(res.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) CountEnteringOn(ctx context.Context, date time.Time, statuses []models.ReservationStatus) (int64, error) {
	var count int64
	for _, res := range f.items {
		if res.CheckIn.Equal(date) && statusIn(res.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) CountExitingActiveOn(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	for _, res := range f.items {
		if res.CheckOut.Equal(date) && res.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) CountDistinctActiveClientsOn(ctx context.Context, date time.Time) (int64, error) {
	clients := map[uint]struct{}{}
	for _, res := range f.items {
		if res.Status != models.StatusActive {
			continue
		}
		if !res.CheckIn.After(date) && !res.CheckOut.Before(date) {
			clients[res.ClientID] = struct{}{}
		}
	}
	return int64(len(clients)), nil
}

func (f *fakeReservationRepo) MostBookedRoomSince(ctx context.Context, since time.Time) (string, error) {
	return "", nil
}

func (f *fakeReservationRepo) AverageFinalizedStaySince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	var n int
	for _, res := range f.items {
		if res.Status == models.StatusFinalized && !res.CheckIn.Before(since) {
			total += res.CheckOut.Sub(res.CheckIn).Hours() / 24
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return total / float64(n), nil
}

func statusIn(s models.ReservationStatus, set []models.ReservationStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type fakeRoomRepo struct {
	nextID uint
	items  map[uint]models.Room
}

func newFakeRoomRepo(rooms ...models.Room) *fakeRoomRepo {
	f := &fakeRoomRepo{items: map[uint]models.Room{}}
	for _, room := range rooms {
		f.nextID++
		if room.ID == 0 {
			room.ID = f.nextID
		}
		f.items[room.ID] = room
	}
	return f
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	f.nextID++
	room.ID = f.nextID
	f.items[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) Update(ctx context.Context, room *models.Room) error {
	if _, ok := f.items[room.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[room.ID] = *room
	return nil
}

func (f *fakeRoomRepo) Delete(ctx context.Context, room *models.Room) error {
	delete(f.items, room.ID)
	return nil
}

func (f *fakeRoomRepo) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	room, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &room, nil
}

func (f *fakeRoomRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Room, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeRoomRepo) FindByNumber(ctx context.Context, number int) (*models.Room, error) {
	for _, room := range f.items {
		if room.Number == number {
			r := room
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoomRepo) FindAll(ctx context.Context, filter repository.RoomFilter) ([]models.Room, error) {
	var out []models.Room
	for _, room := range f.items {
		if filter.Group != nil && room.Group != *filter.Group {
			continue
		}
		if filter.MinBeds != nil && room.BedCount < *filter.MinBeds {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeClientRepo struct {
	items map[uint]models.Client
}

func newFakeClientRepo(clients ...models.Client) *fakeClientRepo {
	f := &fakeClientRepo{items: map[uint]models.Client{}}
	for i, client := range clients {
		if client.ID == 0 {
			client.ID = uint(i + 1)
		}
		f.items[client.ID] = client
	}
	return f
}

func (f *fakeClientRepo) Create(ctx context.Context, client *models.Client) error {
	client.ID = uint(len(f.items) + 1)
	f.items[client.ID] = *client
	return nil
}

func (f *fakeClientRepo) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	client, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

func (f *fakeClientRepo) FindAll(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	for _, client := range f.items {
		out = append(out, client)
	}
	return out, nil
}
