package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository/memory"
	"github.com/iliyamo/hostel-seat-allocation/internal/utils"
)

func TestHostelService_CRUD(t *testing.T) {
	store := memory.New()
	svc := NewHostelService(store, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, HostelInput{Name: "  "})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.Create(ctx, HostelInput{Name: "North", TotalRooms: -1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	h, err := svc.Create(ctx, HostelInput{Name: " North ", TotalRooms: 2})
	require.NoError(t, err)
	assert.Equal(t, "North", h.Name)

	up, err := svc.Update(ctx, h.ID, HostelInput{Name: "North Wing", TotalRooms: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, up.TotalRooms)

	_, err = svc.Update(ctx, 999, HostelInput{Name: "x"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, h.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, h.ID), apperr.ErrNotFound))
}

func TestHostelService_ListWithRooms(t *testing.T) {
	store := memory.New()
	hostels := NewHostelService(store, store)
	rooms := NewRoomRegistry(store, store)
	ctx := context.Background()

	h1, _ := hostels.Create(ctx, HostelInput{Name: "North"})
	h2, _ := hostels.Create(ctx, HostelInput{Name: "South"})
	_, err := rooms.AddRoom(ctx, h1.ID, "102", []string{"A1"})
	require.NoError(t, err)
	_, err = rooms.AddRoom(ctx, h1.ID, "101", []string{"A1", "A2"})
	require.NoError(t, err)

	list, err := hostels.ListWithRooms(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, h2.ID, list[0].HostelID)
	assert.NotNil(t, list[0].Rooms)
	assert.Empty(t, list[0].Rooms)
	require.Len(t, list[1].Rooms, 2)
	assert.Equal(t, "101", list[1].Rooms[0].RoomNo)
	assert.Equal(t, 2, list[1].Rooms[0].SeatAllocate)
}

func TestRoomRegistry_AddRoom(t *testing.T) {
	store := memory.New()
	h, _ := NewHostelService(store, store).Create(context.Background(), HostelInput{Name: "North"})
	reg := NewRoomRegistry(store, store)
	ctx := context.Background()

	r, err := reg.AddRoom(ctx, h.ID, " 101 ", []string{"A1", "a1", " A2"})
	require.NoError(t, err)
	assert.Equal(t, "101", r.RoomNo)
	assert.Equal(t, 3, r.SeatCapacity)
	assert.Equal(t, 0, r.SeatMap.CountBooked())
	assert.True(t, r.SeatMap.Has(" A2"))

	_, err = reg.AddRoom(ctx, h.ID, "101", []string{"B1"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	_, err = reg.AddRoom(ctx, h.ID, "101  ", []string{"B1"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = reg.AddRoom(ctx, h.ID, "102", nil)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = reg.AddRoom(ctx, h.ID, "102", []string{"A1", "A1"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = reg.AddRoom(ctx, h.ID, "", []string{"A1"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = reg.AddRoom(ctx, 999, "102", []string{"A1"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	long := strings.Repeat("9", model.MaxLabelLen+1)
	rejects := map[string]struct {
		roomNo string
		labels []string
	}{
		"room number too long": {roomNo: long, labels: []string{"A1"}},
		"seat label too long":  {roomNo: "103", labels: []string{"A1", long}},
	}
	for name, tc := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := reg.AddRoom(ctx, h.ID, tc.roomNo, tc.labels)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
		})
	}
	_, err = reg.AddRoom(ctx, h.ID, strings.Repeat("9", model.MaxLabelLen), []string{strings.Repeat("S", model.MaxLabelLen)})
	assert.NoError(t, err)
}

func TestRoomRegistry_AvailableRooms(t *testing.T) {
	store := memory.New()
	h, _ := NewHostelService(store, store).Create(context.Background(), HostelInput{Name: "North"})
	reg := NewRoomRegistry(store, store)
	alloc := NewAllocationService(store, store, nil, zap.NewNop())
	ctx := context.Background()

	full, err := reg.AddRoom(ctx, h.ID, "101", []string{"A1"})
	require.NoError(t, err)
	open, err := reg.AddRoom(ctx, h.ID, "102", []string{"B1", "B2"})
	require.NoError(t, err)

	b := &model.Boarder{Name: "Asha"}
	require.NoError(t, store.CreateBoarder(ctx, b))
	_, _, err = alloc.Allocate(ctx, AllocateInput{BoarderID: b.ID, HostelID: h.ID, RoomID: full.ID, RoomNo: "101", SeatLabel: "A1"})
	require.NoError(t, err)

	avail, err := reg.GetAvailableRooms(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, open.ID, avail[0].ID)

	seats, err := reg.AvailableSeats(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, seats)

	// a full room is still addressable directly
	b2 := &model.Boarder{Name: "Ravi"}
	require.NoError(t, store.CreateBoarder(ctx, b2))
	_, _, err = alloc.Allocate(ctx, AllocateInput{BoarderID: b2.ID, HostelID: h.ID, RoomID: full.ID, RoomNo: "101", SeatLabel: "A1"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestRoomRegistry_DeleteRoomScoped(t *testing.T) {
	store := memory.New()
	hs := NewHostelService(store, store)
	h1, _ := hs.Create(context.Background(), HostelInput{Name: "North"})
	h2, _ := hs.Create(context.Background(), HostelInput{Name: "South"})
	reg := NewRoomRegistry(store, store)
	ctx := context.Background()

	r, err := reg.AddRoom(ctx, h1.ID, "101", []string{"A1"})
	require.NoError(t, err)

	assert.True(t, errors.Is(reg.DeleteRoom(ctx, h2.ID, r.ID), apperr.ErrNotFound))
	require.NoError(t, reg.DeleteRoom(ctx, h1.ID, r.ID))
	list, err := reg.ListRooms(ctx, h1.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBoarderService(t *testing.T) {
	store := memory.New()
	svc := NewBoarderService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.Boarder{Name: "Asha"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	for i := 0; i < 12; i++ {
		_, err := svc.Register(ctx, model.Boarder{
			Name: "Asha", Email: "a@x.io", DOB: "2001-01-01", Phone: "555",
			ParentName: "Bob", ParentNumber: "556",
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, model.BoarderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 10)

	page, err = svc.List(ctx, model.BoarderQuery{Page: 2, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Empty(t, page.Items)
}

func TestAuthService(t *testing.T) {
	store := memory.New()
	svc := NewAuthService(store, AuthConfig{Secret: "s3cret", TTLMin: 60, BcryptCost: bcrypt.MinCost}, zap.NewNop())
	ctx := context.Background()

	a, err := svc.CreateAdmin(ctx, "HostelAdmin", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", a.PasswordHash)

	_, err = svc.CreateAdmin(ctx, "HostelAdmin", "pw2")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, _, err = svc.Login(ctx, "HostelAdmin", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, _, err = svc.Login(ctx, "HostelAdmin", "nope")
	assert.True(t, errors.Is(err, apperr.ErrAuth))
	_, _, err = svc.Login(ctx, "ghost", "pw")
	assert.True(t, errors.Is(err, apperr.ErrAuth))

	admin, tok, err := svc.Login(ctx, "HostelAdmin", "pw")
	require.NoError(t, err)
	claims, err := utils.ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "HostelAdmin", claims.Role)

	got, err := svc.Admin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "HostelAdmin", got.Username)
	_, err = svc.Admin(ctx, 999)
	assert.True(t, errors.Is(err, apperr.ErrAuth))
}
