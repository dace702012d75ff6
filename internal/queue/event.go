// Package queue carries allocation events over RabbitMQ: the publisher
// used by the allocation service and the consumer that appends them to a
// log file.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

// AllocationQueue is the durable queue all allocation events go to.
const AllocationQueue = "allocation.events"

// EventType names what happened to a boarder's allocation.
type EventType string

const (
	EventAllocated   EventType = "allocated"
	EventMoved       EventType = "moved"
	EventDeallocated EventType = "deallocated"
)

// AllocationEvent is published after an allocation change commits.  The
// Prev* fields are set for moves only.
type AllocationEvent struct {
	Type         EventType `json:"type"`
	AllocationID uint64    `json:"allocation_id"`
	BoarderID    uint64    `json:"boarder_id"`
	HostelID     uint64    `json:"hostel_id"`
	RoomID       uint64    `json:"room_id"`
	RoomNo       string    `json:"room_no"`
	SeatLabel    string    `json:"seat_label"`
	PrevRoomID   uint64    `json:"prev_room_id,omitempty"`
	PrevSeat     string    `json:"prev_seat,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewAllocationEvent builds an event from the row as it was committed.
func NewAllocationEvent(t EventType, a *model.Allocation, at time.Time) AllocationEvent {
	return AllocationEvent{
		Type:         t,
		AllocationID: a.ID,
		BoarderID:    a.BoarderID,
		HostelID:     a.HostelID,
		RoomID:       a.RoomID,
		RoomNo:       a.RoomNo,
		SeatLabel:    a.SeatLabel,
		OccurredAt:   at.UTC(),
	}
}

// Line renders the event as one line of the allocation log.
func (e AllocationEvent) Line() string {
	line := fmt.Sprintf("[%s] Seat %s | allocation_id=%d | boarder_id=%d | hostel_id=%d | room_id=%d | room=%q | seat=%q",
		e.OccurredAt.Format(time.RFC3339), e.Type, e.AllocationID, e.BoarderID, e.HostelID, e.RoomID, e.RoomNo, e.SeatLabel)
	if e.Type == EventMoved {
		line += fmt.Sprintf(" | from_room_id=%d | from_seat=%q", e.PrevRoomID, e.PrevSeat)
	}
	return line + "\n"
}
