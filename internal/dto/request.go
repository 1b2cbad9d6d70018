package dto

import "time"

type CreateReservationRequest struct {
	ClientID uint      `json:"client_id"`
	RoomID   uint      `json:"room_id"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Mode     string    `json:"mode"`
	Beds     int       `json:"beds"`
}

// UpdateReservationRequest carries a partial edit; absent fields keep the
// reservation's current values.
type UpdateReservationRequest struct {
	RoomID   *uint      `json:"room_id"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Mode     *string    `json:"mode"`
	Beds     *int       `json:"beds"`
}

type CheckOutRequest struct {
	Date *time.Time `json:"date"`
}

type RoomRequest struct {
	Number   int    `json:"number"`
	BedCount int    `json:"bed_count"`
	Group    string `json:"group"`
}

type CreateClientRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}
