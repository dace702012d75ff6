package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

// RoomRegistry creates, lists and deletes the rooms of a hostel.  It never
// changes seat occupancy; that is AllocationService's job.
type RoomRegistry struct {
	hostels repository.HostelStore
	rooms   repository.RoomStore
}

func NewRoomRegistry(hostels repository.HostelStore, rooms repository.RoomStore) *RoomRegistry {
	return &RoomRegistry{hostels: hostels, rooms: rooms}
}

// AddRoom creates a room with every seat vacant.  roomNo is trimmed and
// must be unique within the hostel.  Seat labels are kept verbatim.
// SeatCapacity is recorded as the number of labels.
func (r *RoomRegistry) AddRoom(ctx context.Context, hostelID uint64, roomNo string, seatLabels []string) (*model.Room, error) {
	roomNo = strings.TrimSpace(roomNo)
	if roomNo == "" {
		return nil, apperr.Validation("Room number is required")
	}
	if len(roomNo) > model.MaxLabelLen {
		return nil, apperr.Validation(fmt.Sprintf("Room number cannot exceed %d characters", model.MaxLabelLen))
	}
	seatMap, err := model.NewSeatMap(seatLabels)
	if err != nil {
		return nil, err
	}
	if _, err := r.hostels.GetHostel(ctx, hostelID); err != nil {
		return nil, err
	}

	switch _, err := r.rooms.FindRoomByNo(ctx, hostelID, roomNo); {
	case err == nil:
		return nil, apperr.Conflict("Room already exists in this hostel")
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	room := &model.Room{
		HostelID:     hostelID,
		RoomNo:       roomNo,
		SeatCapacity: len(seatLabels),
		SeatMap:      seatMap,
	}
	// the unique index catches a concurrent insert that passed the check above
	if err := r.rooms.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms returns the hostel's rooms sorted by room number.
func (r *RoomRegistry) ListRooms(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	return r.rooms.ListRooms(ctx, hostelID)
}

// GetRoom returns a room by ID.
func (r *RoomRegistry) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	return r.rooms.GetRoom(ctx, roomID)
}

// DeleteRoom removes a room that belongs to hostelID.  Booked seats and
// allocations that reference the room are not checked or updated, so
// those allocations keep pointing at a room that no longer exists.
func (r *RoomRegistry) DeleteRoom(ctx context.Context, hostelID, roomID uint64) error {
	return r.rooms.DeleteRoom(ctx, hostelID, roomID)
}

// GetAvailableRooms returns the hostel's rooms that have at least one
// vacant seat, in room number order.
func (r *RoomRegistry) GetAvailableRooms(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	rooms, err := r.rooms.ListRooms(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(rooms))
	for i := range rooms {
		if rooms[i].HasVacancy() {
			out = append(out, rooms[i])
		}
	}
	return out, nil
}

// GetAvailableSeats returns the vacant seat labels of a room, sorted.
func GetAvailableSeats(room *model.Room) []string {
	return room.SeatMap.VacantLabels()
}

// AvailableSeats loads the room and returns its vacant seat labels.
func (r *RoomRegistry) AvailableSeats(ctx context.Context, roomID uint64) ([]string, error) {
	room, err := r.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return GetAvailableSeats(room), nil
}
