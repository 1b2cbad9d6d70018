package models

import "time"

type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;uniqueIndex" json:"number"`
	BedCount  int       `gorm:"not null" json:"bed_count"`
	Group     string    `gorm:"type:varchar(50);not null" json:"group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OccupancyStatus classifies a room by how many beds are committed at a
// point in time.
type OccupancyStatus string

const (
	OccupancyFree    OccupancyStatus = "free"
	OccupancyPartial OccupancyStatus = "partial"
	OccupancyFull    OccupancyStatus = "full"
)

// ClassifyOccupancy maps a committed-bed count against the room's capacity.
func (r *Room) ClassifyOccupancy(committed int) OccupancyStatus {
	switch {
	case committed == 0:
		return OccupancyFree
	case committed < r.BedCount:
		return OccupancyPartial
	default:
		return OccupancyFull
	}
}
