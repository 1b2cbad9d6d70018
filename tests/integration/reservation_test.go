//go:build integration

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day returns today's date shifted by offset days, normalized like the
// service normalizes check-in/check-out values.
func day(offset int) time.Time {
	return models.DateOnly(time.Now().AddDate(0, 0, offset))
}

func createTestRoom(t *testing.T, number, beds int) *models.Room {
	t.Helper()
	room := &models.Room{Number: number, BedCount: beds, Group: "test"}
	require.NoError(t, testDB.Create(room).Error)
	return room
}

func createTestClient(t *testing.T, name string) *models.Client {
	t.Helper()
	client := &models.Client{Name: name, Document: fmt.Sprintf("doc-%s", name)}
	require.NoError(t, testDB.Create(client).Error)
	return client
}

func newReservationService() service.ReservationService {
	resRepo := repository.NewReservationRepository(testDB)
	roomRepo := repository.NewRoomRepository(testDB)
	clientRepo := repository.NewClientRepository(testDB)
	return service.NewReservationService(resRepo, roomRepo, clientRepo, nil)
}

// Test: 8 clients race for 5 beds in the same window
// → exactly 5 succeed, 3 rejected with capacity exceeded
func TestConcurrentByBedBooking(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, 101, 5)
	svc := newReservationService()

	totalClients := 8
	clients := make([]*models.Client, totalClients)
	for i := range clients {
		clients[i] = createTestClient(t, fmt.Sprintf("guest-%03d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, totalClients)

	wg.Add(totalClients)
	for i := 0; i < totalClients; i++ {
		go func(idx int) {
			defer wg.Done()
			_, err := svc.Create(t.Context(), service.CreateReservationInput{
				ClientID: clients[idx].ID,
				RoomID:   room.ID,
				CheckIn:  day(1),
				CheckOut: day(4),
				Mode:     models.ModeByBed,
				Beds:     1,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, service.ErrCapacityExceeded)
			rejected++
		}
	}
	assert.Equal(t, 5, succeeded, "exactly one booking per bed")
	assert.Equal(t, 3, rejected)

	// The committed beds in the DB must never exceed the room's capacity.
	var total int64
	testDB.Model(&models.Reservation{}).
		Select("COALESCE(SUM(beds), 0)").
		Where("room_id = ? AND status = ?", room.ID, models.StatusReserved).
		Scan(&total)
	assert.Equal(t, int64(5), total)
}

// Test: 10 concurrent whole-room requests for the same window → one winner
func TestConcurrentWholeRoomBooking(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, 102, 3)
	svc := newReservationService()

	attempts := 10
	clients := make([]*models.Client, attempts)
	for i := range clients {
		clients[i] = createTestClient(t, fmt.Sprintf("guest-%03d", i))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(idx int) {
			defer wg.Done()
			_, err := svc.Create(t.Context(), service.CreateReservationInput{
				ClientID: clients[idx].ID,
				RoomID:   room.ID,
				CheckIn:  day(1),
				CheckOut: day(3),
				Mode:     models.ModeWholeRoom,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "only one whole-room booking can win")

	var count int64
	testDB.Model(&models.Reservation{}).
		Where("room_id = ? AND status = ?", room.ID, models.StatusReserved).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

// Test: full stay lifecycle against the real database
func TestReservationLifecycle(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, 103, 2)
	client := createTestClient(t, "lifecycle-guest")
	svc := newReservationService()

	res, err := svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: client.ID,
		RoomID:   room.ID,
		CheckIn:  day(0),
		CheckOut: day(5),
		Mode:     models.ModeByBed,
		Beds:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, res.Status)
	assert.Equal(t, client.Name, res.Client.Name)

	res, err = svc.CheckIn(t.Context(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, res.Status)

	// An active stay cannot be deleted.
	assert.ErrorIs(t, svc.Delete(t.Context(), res.ID), service.ErrNotDeletable)

	res, err = svc.CheckOut(t.Context(), res.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalized, res.Status)
	// The early departure replaces the planned check-out date.
	assert.True(t, res.CheckOut.Equal(day(0)))

	var stored models.Reservation
	require.NoError(t, testDB.First(&stored, res.ID).Error)
	assert.Equal(t, models.StatusFinalized, stored.Status)
	assert.True(t, stored.CheckedOut)
}

// Test: cancelled capacity is released and reactivation re-checks it
func TestCancelReleasesCapacity(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, 104, 2)
	first := createTestClient(t, "first")
	second := createTestClient(t, "second")
	svc := newReservationService()

	original, err := svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: first.ID,
		RoomID:   room.ID,
		CheckIn:  day(1),
		CheckOut: day(4),
		Mode:     models.ModeWholeRoom,
	})
	require.NoError(t, err)

	// Room is fully committed, a second booking must fail.
	_, err = svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: second.ID,
		RoomID:   room.ID,
		CheckIn:  day(2),
		CheckOut: day(3),
		Mode:     models.ModeByBed,
		Beds:     1,
	})
	assert.ErrorIs(t, err, service.ErrCapacityExceeded)

	_, err = svc.SetStatus(t.Context(), original.ID, models.StatusCancelled)
	require.NoError(t, err)

	// Cancellation releases the window.
	taken, err := svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: second.ID,
		RoomID:   room.ID,
		CheckIn:  day(2),
		CheckOut: day(3),
		Mode:     models.ModeByBed,
		Beds:     1,
	})
	require.NoError(t, err)

	// Reactivating the whole-room booking now collides with the new one.
	_, err = svc.SetStatus(t.Context(), original.ID, models.StatusReserved)
	assert.ErrorIs(t, err, service.ErrCapacityExceeded)

	// Freeing it again lets the reactivation through.
	_, err = svc.SetStatus(t.Context(), taken.ID, models.StatusCancelled)
	require.NoError(t, err)
	revived, err := svc.SetStatus(t.Context(), original.ID, models.StatusReserved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, revived.Status)
}

// Test: back-to-back stays share a turnover day without conflict
func TestBackToBackStays(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, 105, 1)
	first := createTestClient(t, "first")
	second := createTestClient(t, "second")
	svc := newReservationService()

	_, err := svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: first.ID,
		RoomID:   room.ID,
		CheckIn:  day(1),
		CheckOut: day(3),
		Mode:     models.ModeWholeRoom,
	})
	require.NoError(t, err)

	_, err = svc.Create(t.Context(), service.CreateReservationInput{
		ClientID: second.ID,
		RoomID:   room.ID,
		CheckIn:  day(3),
		CheckOut: day(5),
		Mode:     models.ModeWholeRoom,
	})
	require.NoError(t, err)
}
