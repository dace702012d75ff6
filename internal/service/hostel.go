package service

import (
	"context"
	"strings"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

// HostelInput is the writable part of a hostel.
type HostelInput struct {
	Name       string
	TotalRooms int
}

func (in *HostelInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("Hostel name is required")
	}
	if in.TotalRooms < 0 {
		return apperr.Validation("Total rooms cannot be negative")
	}
	return nil
}

// HostelService manages hostels.  TotalRooms is stored as given and never
// compared with the rooms that actually exist.
type HostelService struct {
	hostels repository.HostelStore
	rooms   repository.RoomStore
}

func NewHostelService(hostels repository.HostelStore, rooms repository.RoomStore) *HostelService {
	return &HostelService{hostels: hostels, rooms: rooms}
}

func (s *HostelService) Create(ctx context.Context, in HostelInput) (*model.Hostel, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	h := &model.Hostel{Name: in.Name, TotalRooms: in.TotalRooms}
	if err := s.hostels.CreateHostel(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HostelService) Get(ctx context.Context, id uint64) (*model.Hostel, error) {
	return s.hostels.GetHostel(ctx, id)
}

// List returns hostels newest first.
func (s *HostelService) List(ctx context.Context) ([]model.Hostel, error) {
	return s.hostels.ListHostels(ctx)
}

func (s *HostelService) Update(ctx context.Context, id uint64, in HostelInput) (*model.Hostel, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	h := &model.Hostel{ID: id, Name: in.Name, TotalRooms: in.TotalRooms}
	if err := s.hostels.UpdateHostel(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes the hostel record.  Its rooms and any allocations that
// point into them are left untouched.
func (s *HostelService) Delete(ctx context.Context, id uint64) error {
	return s.hostels.DeleteHostel(ctx, id)
}

// ListWithRooms returns every hostel (newest first) with its rooms sorted
// by room number.  Rooms whose hostel was deleted are not listed.
func (s *HostelService) ListWithRooms(ctx context.Context) ([]model.HostelWithRooms, error) {
	hostels, err := s.hostels.ListHostels(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListAllRooms(ctx)
	if err != nil {
		return nil, err
	}
	byHostel := make(map[uint64][]model.RoomSummary, len(hostels))
	for i := range rooms {
		byHostel[rooms[i].HostelID] = append(byHostel[rooms[i].HostelID], rooms[i].Summary())
	}

	out := make([]model.HostelWithRooms, 0, len(hostels))
	for _, h := range hostels {
		rs := byHostel[h.ID]
		if rs == nil {
			rs = []model.RoomSummary{}
		}
		out = append(out, model.HostelWithRooms{HostelID: h.ID, HostelName: h.Name, Rooms: rs})
	}
	return out, nil
}
