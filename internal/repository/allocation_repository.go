package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

const (
	allocationNotFound = "Boarder is not allocated any room"
	seatTaken          = "Seat already booked"
	allocationExists   = "Boarder already has an allocation"
)

// AllocationRepo is the MySQL allocation ledger.  Seat occupancy lives in
// room_seats and is only changed from inside WithinTx.
type AllocationRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewAllocationRepo constructs an AllocationRepo with the given DB handle.
func NewAllocationRepo(db *sql.DB) *AllocationRepo {
	return &AllocationRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithinTx opens a transaction, hands it to fn and commits when fn
// returns nil.  Any error, including a panic in fn, rolls it back.
func (r *AllocationRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx AllocationTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, &allocationTx{tx: tx, now: r.now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return translate(err, "commit allocation", "", "")
	}
	committed = true
	return nil
}

// GetAllocation returns the boarder's row whether active or not.
func (r *AllocationRepo) GetAllocation(ctx context.Context, boarderID uint64) (*model.Allocation, error) {
	const q = `SELECT id, boarder_id, hostel_id, room_id, room_no, seat_label, active, created_at, updated_at
	           FROM allocations WHERE boarder_id = ?`
	a, err := scanAllocation(r.db.QueryRowContext(ctx, q, boarderID))
	if err != nil {
		return nil, translate(err, "get allocation", allocationNotFound, "")
	}
	return a, nil
}

// GetAllocationDetails returns the display snapshot of the boarder's
// active allocation.  The hostel is LEFT JOINed: a deleted hostel leaves
// the name empty instead of hiding the allocation.
func (r *AllocationRepo) GetAllocationDetails(ctx context.Context, boarderID uint64) (*model.AllocationDetails, error) {
	const q = `SELECT b.name, b.phone, COALESCE(h.name, ''), a.room_no, a.seat_label, a.created_at
	           FROM allocations a
	           JOIN boarders b ON b.id = a.boarder_id
	           LEFT JOIN hostels h ON h.id = a.hostel_id
	           WHERE a.boarder_id = ? AND a.active = 1`
	var d model.AllocationDetails
	err := r.db.QueryRowContext(ctx, q, boarderID).
		Scan(&d.BoarderName, &d.Phone, &d.HostelName, &d.RoomNo, &d.SeatNumber, &d.AllocatedAt)
	if err != nil {
		return nil, translate(err, "get allocation details", allocationNotFound, "")
	}
	return &d, nil
}

type allocationTx struct {
	tx  *sql.Tx
	now func() time.Time
}

func (t *allocationTx) GetRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
	return loadRoom(ctx, t.tx, roomID)
}

func (t *allocationTx) LockAllocation(ctx context.Context, boarderID uint64) (*model.Allocation, error) {
	const q = `SELECT id, boarder_id, hostel_id, room_id, room_no, seat_label, active, created_at, updated_at
	           FROM allocations WHERE boarder_id = ? FOR UPDATE`
	a, err := scanAllocation(t.tx.QueryRowContext(ctx, q, boarderID))
	if err != nil {
		return nil, translate(err, "lock allocation", allocationNotFound, "")
	}
	return a, nil
}

// BookSeat is the compare-and-set on the occupancy bit: the row only
// changes while it is still vacant.
func (t *allocationTx) BookSeat(ctx context.Context, roomID uint64, label string) error {
	const q = `UPDATE room_seats SET booked = 1 WHERE room_id = ? AND seat_label = ? AND booked = 0`
	res, err := t.tx.ExecContext(ctx, q, roomID, label)
	if err != nil {
		return translate(err, "book seat", "", "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.Conflict(seatTaken)
	}
	return nil
}

func (t *allocationTx) ReleaseSeat(ctx context.Context, roomID uint64, label string) error {
	const q = `UPDATE room_seats SET booked = 0 WHERE room_id = ? AND seat_label = ?`
	if _, err := t.tx.ExecContext(ctx, q, roomID, label); err != nil {
		return translate(err, "release seat", "", "")
	}
	return nil
}

func (t *allocationTx) InsertAllocation(ctx context.Context, a *model.Allocation) error {
	now := t.now()
	const q = `INSERT INTO allocations (boarder_id, hostel_id, room_id, room_no, seat_label, active, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, a.BoarderID, a.HostelID, a.RoomID, a.RoomNo, a.SeatLabel, a.Active, now, now)
	if err != nil {
		return translate(err, "insert allocation", "", allocationExists)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}

// UpdateAllocation rewrites the row in place.  created_at is left alone
// so the row keeps its original creation time across moves.
func (t *allocationTx) UpdateAllocation(ctx context.Context, a *model.Allocation) error {
	now := t.now()
	const q = `UPDATE allocations
	           SET hostel_id = ?, room_id = ?, room_no = ?, seat_label = ?, active = ?, updated_at = ?
	           WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, a.HostelID, a.RoomID, a.RoomNo, a.SeatLabel, a.Active, now, a.ID)
	if err != nil {
		return translate(err, "update allocation", "", "")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(allocationNotFound)
	}
	a.UpdatedAt = now
	return nil
}

func scanAllocation(row *sql.Row) (*model.Allocation, error) {
	var a model.Allocation
	err := row.Scan(&a.ID, &a.BoarderID, &a.HostelID, &a.RoomID, &a.RoomNo, &a.SeatLabel, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
