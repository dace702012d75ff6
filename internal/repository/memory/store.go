// Package memory is an in-process implementation of the repository
// contracts.  It backs STORE_DRIVER=memory and the service and handler
// tests.  A single mutex serialises every call; WithinTx holds it for
// the whole callback and undoes recorded writes when the callback fails,
// which gives the same all-or-nothing behaviour as the MySQL store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

// Store keeps every table in maps keyed by primary key.
type Store struct {
	mu sync.Mutex

	hostels     map[uint64]model.Hostel
	rooms       map[uint64]model.Room
	boarders    map[uint64]model.Boarder
	admins      map[uint64]model.Admin
	allocations map[uint64]model.Allocation // keyed by boarder ID

	nextID map[string]uint64
	now    func() time.Time
}

var (
	_ repository.HostelStore     = (*Store)(nil)
	_ repository.RoomStore       = (*Store)(nil)
	_ repository.BoarderStore    = (*Store)(nil)
	_ repository.AdminStore      = (*Store)(nil)
	_ repository.AllocationStore = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		hostels:     map[uint64]model.Hostel{},
		rooms:       map[uint64]model.Room{},
		boarders:    map[uint64]model.Boarder{},
		admins:      map[uint64]model.Admin{},
		allocations: map[uint64]model.Allocation{},
		nextID:      map[string]uint64{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) id(table string) uint64 {
	s.nextID[table]++
	return s.nextID[table]
}

// ---------- hostels ----------

func (s *Store) CreateHostel(_ context.Context, h *model.Hostel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	h.ID = s.id("hostels")
	h.CreatedAt, h.UpdatedAt = now, now
	s.hostels[h.ID] = *h
	return nil
}

func (s *Store) GetHostel(_ context.Context, id uint64) (*model.Hostel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hostels[id]
	if !ok {
		return nil, apperr.NotFound("Hostel not found")
	}
	return &h, nil
}

func (s *Store) ListHostels(_ context.Context) ([]model.Hostel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Hostel, 0, len(s.hostels))
	for _, h := range s.hostels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateHostel(_ context.Context, h *model.Hostel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.hostels[h.ID]
	if !ok {
		return apperr.NotFound("Hostel not found")
	}
	cur.Name, cur.TotalRooms, cur.UpdatedAt = h.Name, h.TotalRooms, s.now()
	s.hostels[h.ID] = cur
	*h = cur
	return nil
}

// DeleteHostel removes the hostel only; its rooms stay.
func (s *Store) DeleteHostel(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hostels[id]; !ok {
		return apperr.NotFound("Hostel not found")
	}
	delete(s.hostels, id)
	return nil
}

// ---------- rooms ----------

func (s *Store) CreateRoom(_ context.Context, r *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.rooms {
		if cur.HostelID == r.HostelID && cur.RoomNo == r.RoomNo {
			return apperr.Conflict("Room already exists in this hostel")
		}
	}
	now := s.now()
	r.ID = s.id("rooms")
	r.CreatedAt, r.UpdatedAt = now, now
	stored := *r
	stored.SeatMap = r.SeatMap.Clone()
	s.rooms[r.ID] = stored
	return nil
}

func (s *Store) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getRoom(id)
}

func (s *Store) getRoom(id uint64) (*model.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, apperr.NotFound("Room not found")
	}
	r.SeatMap = r.SeatMap.Clone()
	return &r, nil
}

func (s *Store) FindRoomByNo(_ context.Context, hostelID uint64, roomNo string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rooms {
		if r.HostelID == hostelID && r.RoomNo == roomNo {
			return s.getRoom(id)
		}
	}
	return nil, apperr.NotFound("Room not found")
}

func (s *Store) ListRooms(_ context.Context, hostelID uint64) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRooms(func(r model.Room) bool { return r.HostelID == hostelID }), nil
}

func (s *Store) ListAllRooms(_ context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRooms(func(model.Room) bool { return true }), nil
}

func (s *Store) listRooms(keep func(model.Room) bool) []model.Room {
	out := []model.Room{}
	for _, r := range s.rooms {
		if keep(r) {
			r.SeatMap = r.SeatMap.Clone()
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HostelID != out[j].HostelID {
			return out[i].HostelID < out[j].HostelID
		}
		return out[i].RoomNo < out[j].RoomNo
	})
	return out
}

// DeleteRoom drops the room without looking at allocations that point
// at it.
func (s *Store) DeleteRoom(_ context.Context, hostelID, roomID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok || r.HostelID != hostelID {
		return apperr.NotFound("Room not found")
	}
	delete(s.rooms, roomID)
	return nil
}

// ---------- boarders ----------

func (s *Store) CreateBoarder(_ context.Context, b *model.Boarder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	b.ID = s.id("boarders")
	b.CreatedAt, b.UpdatedAt = now, now
	s.boarders[b.ID] = *b
	return nil
}

func (s *Store) GetBoarder(_ context.Context, id uint64) (*model.Boarder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boarders[id]
	if !ok {
		return nil, apperr.NotFound("Boarder not found")
	}
	return &b, nil
}

func (s *Store) ListBoarders(_ context.Context, q model.BoarderQuery) ([]model.BoarderListItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	var matched []model.Boarder
	for _, b := range s.boarders {
		if needle == "" || matches(b, needle) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < total {
		end = start + q.Limit
	}

	out := make([]model.BoarderListItem, 0, end-start)
	for _, b := range matched[start:end] {
		a, ok := s.allocations[b.ID]
		out = append(out, model.BoarderListItem{Boarder: b, IsAllocated: ok && a.Active})
	}
	return out, total, nil
}

func matches(b model.Boarder, needle string) bool {
	for _, f := range []string{b.Name, b.Email, b.Phone, b.ParentName} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ---------- admins ----------

func (s *Store) CreateAdmin(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.admins {
		if cur.Username == a.Username {
			return apperr.Conflict("Username already taken")
		}
	}
	a.ID = s.id("admins")
	a.CreatedAt = s.now()
	s.admins[a.ID] = *a
	return nil
}

func (s *Store) GetAdmin(_ context.Context, id uint64) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, apperr.NotFound("Admin not found")
	}
	return &a, nil
}

func (s *Store) GetAdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, apperr.NotFound("Admin not found")
}
