package model

import "time"

// Allocation binds a boarder to one room seat.  There is at most one row
// per boarder: re-allocation updates the row in place and deallocation
// only clears Active, so the row is reused on the next allocation.
// RoomNo is a snapshot taken when the row was last written.
type Allocation struct {
	ID        uint64    `json:"id"`        // allocations.id
	BoarderID uint64    `json:"boarderId"` // allocations.boarder_id (unique)
	HostelID  uint64    `json:"hostelId"`  // allocations.hostel_id
	RoomID    uint64    `json:"roomId"`    // allocations.room_id
	RoomNo    string    `json:"roomNo"`    // allocations.room_no
	SeatLabel string    `json:"seatLabel"` // allocations.seat_label
	Active    bool      `json:"active"`    // allocations.active
	CreatedAt time.Time `json:"createdAt"` // allocations.created_at
	UpdatedAt time.Time `json:"updatedAt"` // allocations.updated_at
}

// SameSeat reports whether the allocation points at (roomID, label).
func (a *Allocation) SameSeat(roomID uint64, label string) bool {
	return a.RoomID == roomID && a.SeatLabel == label
}

// AllocationDetails is the display snapshot of a boarder's active
// allocation.  HostelName is empty when the hostel no longer exists.
type AllocationDetails struct {
	BoarderName string    `json:"boarderName"`
	Phone       string    `json:"phone"`
	HostelName  string    `json:"hostelName"`
	RoomNo      string    `json:"roomNo"`
	SeatNumber  string    `json:"seatNumber"`
	AllocatedAt time.Time `json:"allocatedAt"`
}

// AllocationOutcome tells callers what Allocate did.
type AllocationOutcome string

const (
	OutcomeCreated AllocationOutcome = "created"
	OutcomeMoved   AllocationOutcome = "moved"
)
