package memory

import (
	"context"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

// WithinTx runs fn while holding the store lock.  Writes made through the
// tx are journalled and replayed backwards if fn fails or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.AllocationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &allocationTx{s: s}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) GetAllocation(_ context.Context, boarderID uint64) (*model.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allocations[boarderID]
	if !ok {
		return nil, apperr.NotFound("Boarder is not allocated any room")
	}
	return &a, nil
}

// GetAllocationDetails joins the active row with its boarder and hostel.
// A missing hostel leaves HostelName empty.
func (s *Store) GetAllocationDetails(_ context.Context, boarderID uint64) (*model.AllocationDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.allocations[boarderID]
	if !ok || !a.Active {
		return nil, apperr.NotFound("Boarder is not allocated any room")
	}
	b, ok := s.boarders[boarderID]
	if !ok {
		return nil, apperr.NotFound("Boarder is not allocated any room")
	}
	return &model.AllocationDetails{
		BoarderName: b.Name,
		Phone:       b.Phone,
		HostelName:  s.hostels[a.HostelID].Name,
		RoomNo:      a.RoomNo,
		SeatNumber:  a.SeatLabel,
		AllocatedAt: a.CreatedAt,
	}, nil
}

// allocationTx operates on the store's maps directly; the store lock is
// already held by WithinTx.
type allocationTx struct {
	s    *Store
	undo []func()
}

func (t *allocationTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *allocationTx) GetRoom(_ context.Context, roomID uint64) (*model.Room, error) {
	return t.s.getRoom(roomID)
}

func (t *allocationTx) LockAllocation(_ context.Context, boarderID uint64) (*model.Allocation, error) {
	a, ok := t.s.allocations[boarderID]
	if !ok {
		return nil, apperr.NotFound("Boarder is not allocated any room")
	}
	return &a, nil
}

func (t *allocationTx) BookSeat(_ context.Context, roomID uint64, label string) error {
	r, ok := t.s.rooms[roomID]
	if !ok {
		return apperr.Conflict("Seat already booked")
	}
	o, ok := r.SeatMap.Occupancy(label)
	if !ok || o != model.Vacant {
		return apperr.Conflict("Seat already booked")
	}
	return t.setSeat(r, label, model.Booked)
}

func (t *allocationTx) ReleaseSeat(_ context.Context, roomID uint64, label string) error {
	r, ok := t.s.rooms[roomID]
	if !ok {
		return nil
	}
	o, ok := r.SeatMap.Occupancy(label)
	if !ok || o == model.Vacant {
		return nil
	}
	return t.setSeat(r, label, model.Vacant)
}

func (t *allocationTx) setSeat(r model.Room, label string, o model.Occupancy) error {
	prev, _ := r.SeatMap.Occupancy(label)
	if err := r.SeatMap.SetOccupancy(label, o); err != nil {
		return err
	}
	t.undo = append(t.undo, func() { _ = r.SeatMap.SetOccupancy(label, prev) })
	return nil
}

func (t *allocationTx) InsertAllocation(_ context.Context, a *model.Allocation) error {
	if _, exists := t.s.allocations[a.BoarderID]; exists {
		return apperr.Conflict("Boarder already has an allocation")
	}
	now := t.s.now()
	a.ID = t.s.id("allocations")
	a.CreatedAt, a.UpdatedAt = now, now
	t.s.allocations[a.BoarderID] = *a
	boarderID := a.BoarderID
	t.undo = append(t.undo, func() { delete(t.s.allocations, boarderID) })
	return nil
}

func (t *allocationTx) UpdateAllocation(_ context.Context, a *model.Allocation) error {
	prev, ok := t.s.allocations[a.BoarderID]
	if !ok || prev.ID != a.ID {
		return apperr.NotFound("Boarder is not allocated any room")
	}
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = t.s.now()
	t.s.allocations[a.BoarderID] = *a
	t.undo = append(t.undo, func() { t.s.allocations[prev.BoarderID] = prev })
	return nil
}
