package models

import "time"

type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "reserved"
	StatusActive    ReservationStatus = "active"
	StatusFinalized ReservationStatus = "finalized"
	StatusCancelled ReservationStatus = "cancelled"
)

type RentalMode string

const (
	ModeWholeRoom RentalMode = "whole_room"
	ModeByBed     RentalMode = "by_bed"
)

// validTransitions is the closed set of legal status moves. The machine is
// forward-only (reserved → active → finalized) except for the explicit
// cancelled → reserved reactivation edge.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusReserved:  {StatusActive, StatusCancelled},
	StatusActive:    {StatusFinalized},
	StatusCancelled: {StatusReserved},
}

// CanTransitionTo reports whether moving from s to target is a legal
// lifecycle transition.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ClientID   uint              `gorm:"not null;index" json:"client_id"`
	RoomID     uint              `gorm:"not null;index" json:"room_id"`
	CheckIn    time.Time         `gorm:"not null" json:"check_in"`
	CheckOut   time.Time         `gorm:"not null" json:"check_out"`
	Mode       RentalMode        `gorm:"type:varchar(20);not null" json:"mode"`
	Beds       int               `gorm:"not null;default:0" json:"beds"`
	Status     ReservationStatus `gorm:"type:varchar(20);not null;default:'reserved'" json:"status"`
	CheckedIn  bool              `gorm:"not null;default:false" json:"checked_in"`
	CheckedOut bool              `gorm:"not null;default:false" json:"checked_out"`
	CreatedBy  uint              `json:"created_by"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Room   *Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// CommittedBeds returns how many of the room's beds this reservation ties up.
// A whole-room rental commits every bed regardless of its Beds field.
func (r *Reservation) CommittedBeds(roomBeds int) int {
	if r.Mode == ModeWholeRoom {
		return roomBeds
	}
	return r.Beds
}

// DateOnly truncates t to a UTC calendar date. All check-in/check-out
// comparisons happen on normalized dates to avoid off-by-one drift from
// client-supplied offsets.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
