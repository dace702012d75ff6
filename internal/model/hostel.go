package model

import "time"

// Hostel is a building that owns rooms.  TotalRooms is advisory display
// metadata; it is never checked against the actual number of rooms.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name (trimmed).
//  TotalRooms – declared room count.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Hostel struct {
	ID         uint64    `json:"id"`         // hostels.id
	Name       string    `json:"name"`       // hostels.name
	TotalRooms int       `json:"totalRooms"` // hostels.total_rooms
	CreatedAt  time.Time `json:"createdAt"`  // hostels.created_at
	UpdatedAt  time.Time `json:"updatedAt"`  // hostels.updated_at
}

// HostelWithRooms is the nested listing used by the allocation screen to
// compute availability client-side.
type HostelWithRooms struct {
	HostelID   uint64        `json:"hostelId"`
	HostelName string        `json:"hostelName"`
	Rooms      []RoomSummary `json:"rooms"`
}

// RoomSummary is the per-room entry of HostelWithRooms.
type RoomSummary struct {
	RoomID       uint64  `json:"roomId"`
	RoomNo       string  `json:"roomNo"`
	SeatAllocate int     `json:"seatAllocate"`
	SeatMap      SeatMap `json:"seatMap"`
}
