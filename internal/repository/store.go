package repository

import (
	"context"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

// The interfaces below are the storage contracts shared by the MySQL
// repositories in this package and the in-process store in
// repository/memory.  Services only see these interfaces.

// HostelStore persists hostels.
type HostelStore interface {
	CreateHostel(ctx context.Context, h *model.Hostel) error
	GetHostel(ctx context.Context, id uint64) (*model.Hostel, error)
	// ListHostels returns hostels newest first.
	ListHostels(ctx context.Context) ([]model.Hostel, error)
	UpdateHostel(ctx context.Context, h *model.Hostel) error
	DeleteHostel(ctx context.Context, id uint64) error
}

// RoomStore persists rooms together with their seat maps.
type RoomStore interface {
	// CreateRoom stores the room and its seat map.  A duplicate room
	// number within the hostel yields a Conflict error.
	CreateRoom(ctx context.Context, r *model.Room) error
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	FindRoomByNo(ctx context.Context, hostelID uint64, roomNo string) (*model.Room, error)
	// ListRooms returns the hostel's rooms sorted by room number.
	ListRooms(ctx context.Context, hostelID uint64) ([]model.Room, error)
	// ListAllRooms returns every room sorted by hostel then room number.
	ListAllRooms(ctx context.Context) ([]model.Room, error)
	// DeleteRoom removes the room only if it belongs to hostelID.
	DeleteRoom(ctx context.Context, hostelID, roomID uint64) error
}

// BoarderStore persists boarders.
type BoarderStore interface {
	CreateBoarder(ctx context.Context, b *model.Boarder) error
	GetBoarder(ctx context.Context, id uint64) (*model.Boarder, error)
	// ListBoarders returns one page, newest first, and the total number
	// of boarders matching the search.
	ListBoarders(ctx context.Context, q model.BoarderQuery) ([]model.BoarderListItem, int, error)
}

// AdminStore persists admin accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, a *model.Admin) error
	GetAdmin(ctx context.Context, id uint64) (*model.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// AllocationStore owns the allocation ledger.  Every write goes through
// WithinTx so the seat map and the ledger change together or not at all.
type AllocationStore interface {
	// WithinTx runs fn in a transaction.  The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx AllocationTx) error) error
	// GetAllocation returns the boarder's ledger row, active or not.
	GetAllocation(ctx context.Context, boarderID uint64) (*model.Allocation, error)
	// GetAllocationDetails returns the display snapshot of an active row.
	GetAllocationDetails(ctx context.Context, boarderID uint64) (*model.AllocationDetails, error)
}

// AllocationTx is the set of operations available inside WithinTx.
type AllocationTx interface {
	GetRoom(ctx context.Context, roomID uint64) (*model.Room, error)
	// LockAllocation returns the boarder's row and holds it for the rest
	// of the transaction.  NotFound when the boarder has no row yet.
	LockAllocation(ctx context.Context, boarderID uint64) (*model.Allocation, error)
	// BookSeat flips a vacant seat to booked in one conditional write.
	// It fails with Conflict when the seat is not vacant at write time.
	BookSeat(ctx context.Context, roomID uint64, label string) error
	// ReleaseSeat marks the seat vacant.  A seat whose room no longer
	// exists is ignored.
	ReleaseSeat(ctx context.Context, roomID uint64, label string) error
	// InsertAllocation adds the boarder's first row.  A concurrent insert
	// for the same boarder yields Conflict.
	InsertAllocation(ctx context.Context, a *model.Allocation) error
	UpdateAllocation(ctx context.Context, a *model.Allocation) error
}
