package model

import "time"

// Room belongs to exactly one hostel and owns its seat map.  RoomNo is
// unique within the hostel.  SeatCapacity is descriptive: it is recorded
// at creation and never reconciled with the seat map, which is the only
// source of truth for occupancy.
type Room struct {
	ID           uint64    `json:"id"`           // rooms.id
	HostelID     uint64    `json:"hostelId"`     // rooms.hostel_id
	RoomNo       string    `json:"roomNo"`       // rooms.room_no
	SeatCapacity int       `json:"seatAllocate"` // rooms.seat_capacity
	SeatMap      SeatMap   `json:"seatMap"`      // room_seats rows
	CreatedAt    time.Time `json:"createdAt"`    // rooms.created_at
	UpdatedAt    time.Time `json:"updatedAt"`    // rooms.updated_at
}

// HasVacancy reports whether at least one seat is free.
func (r *Room) HasVacancy() bool { return r.SeatMap.CountVacant() > 0 }

// Summary converts the room into its nested-listing form.
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		RoomID:       r.ID,
		RoomNo:       r.RoomNo,
		SeatAllocate: r.SeatCapacity,
		SeatMap:      r.SeatMap,
	}
}
