package dto

import (
	"time"

	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/service"
)

const dateLayout = "2006-01-02"

type ReservationResponse struct {
	ID         uint                     `json:"id"`
	ClientID   uint                     `json:"client_id"`
	ClientName string                   `json:"client_name,omitempty"`
	RoomID     uint                     `json:"room_id"`
	RoomNumber int                      `json:"room_number,omitempty"`
	CheckIn    string                   `json:"check_in"`
	CheckOut   string                   `json:"check_out"`
	Mode       models.RentalMode        `json:"mode"`
	Beds       int                      `json:"beds"`
	Status     models.ReservationStatus `json:"status"`
	CheckedIn  bool                     `json:"checked_in"`
	CheckedOut bool                     `json:"checked_out"`
	CreatedBy  uint                     `json:"created_by,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:         r.ID,
		ClientID:   r.ClientID,
		RoomID:     r.RoomID,
		CheckIn:    r.CheckIn.Format(dateLayout),
		CheckOut:   r.CheckOut.Format(dateLayout),
		Mode:       r.Mode,
		Beds:       r.Beds,
		Status:     r.Status,
		CheckedIn:  r.CheckedIn,
		CheckedOut: r.CheckedOut,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
	}
	if r.Client != nil {
		resp.ClientName = r.Client.Name
	}
	if r.Room != nil {
		resp.RoomNumber = r.Room.Number
	}
	return resp
}

type RoomResponse struct {
	ID       uint   `json:"id"`
	Number   int    `json:"number"`
	BedCount int    `json:"bed_count"`
	Group    string `json:"group"`
}

func ToRoomResponse(r *models.Room) RoomResponse {
	return RoomResponse{ID: r.ID, Number: r.Number, BedCount: r.BedCount, Group: r.Group}
}

type RoomAvailabilityResponse struct {
	RoomID        uint                   `json:"room_id"`
	Number        int                    `json:"number"`
	Group         string                 `json:"group"`
	Start         string                 `json:"start"`
	End           string                 `json:"end"`
	TotalBeds     int                    `json:"total_beds"`
	CommittedBeds int                    `json:"committed_beds"`
	FreeBeds      int                    `json:"free_beds"`
	Status        models.OccupancyStatus `json:"status"`
	Conflicts     int                    `json:"conflicts"`
}

func ToRoomAvailabilityResponse(a *service.RoomAvailability) RoomAvailabilityResponse {
	return RoomAvailabilityResponse{
		RoomID:        a.Room.ID,
		Number:        a.Room.Number,
		Group:         a.Room.Group,
		Start:         a.Start.Format(dateLayout),
		End:           a.End.Format(dateLayout),
		TotalBeds:     a.Room.BedCount,
		CommittedBeds: a.CommittedBeds,
		FreeBeds:      a.FreeBeds,
		Status:        a.Status,
		Conflicts:     a.Conflicts,
	}
}

type RoomOccupancyResponse struct {
	RoomID        uint                   `json:"room_id"`
	Number        int                    `json:"number"`
	Group         string                 `json:"group"`
	TotalBeds     int                    `json:"total_beds"`
	CommittedBeds int                    `json:"committed_beds"`
	Status        models.OccupancyStatus `json:"status"`
}

func ToRoomOccupancyResponse(o *service.RoomOccupancy) RoomOccupancyResponse {
	return RoomOccupancyResponse{
		RoomID:        o.Room.ID,
		Number:        o.Room.Number,
		Group:         o.Room.Group,
		TotalBeds:     o.Room.BedCount,
		CommittedBeds: o.CommittedBeds,
		Status:        o.Status,
	}
}

type DashboardResponse struct {
	AsOf              string  `json:"as_of"`
	TotalRooms        int     `json:"total_rooms"`
	FreeRooms         int     `json:"free_rooms"`
	FullRooms         int     `json:"full_rooms"`
	PartialRooms      int     `json:"partial_rooms"`
	OccupancyRate     float64 `json:"occupancy_rate"`
	ReservationsToday int64   `json:"reservations_today"`
	PendingCheckOuts  int64   `json:"pending_check_outs"`
	NoShows           int64   `json:"no_shows"`
	ActiveClients     int64   `json:"active_clients"`
	TomorrowForecast  float64 `json:"tomorrow_forecast"`
	MostPopularRoom   string  `json:"most_popular_room"`
	AverageStayDays   float64 `json:"average_stay_days"`
}

func ToDashboardResponse(s *service.FleetSnapshot) DashboardResponse {
	return DashboardResponse{
		AsOf:              s.AsOf.Format(dateLayout),
		TotalRooms:        s.TotalRooms,
		FreeRooms:         s.FreeRooms,
		FullRooms:         s.FullRooms,
		PartialRooms:      s.PartialRooms,
		OccupancyRate:     s.OccupancyRate,
		ReservationsToday: s.ReservationsToday,
		PendingCheckOuts:  s.PendingCheckOuts,
		NoShows:           s.NoShows,
		ActiveClients:     s.ActiveClients,
		TomorrowForecast:  s.TomorrowForecast,
		MostPopularRoom:   s.MostPopularRoom,
		AverageStayDays:   s.AverageStayDays,
	}
}

type ErrorResponse struct {
	Message string `json:"message"`
}
