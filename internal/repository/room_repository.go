package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

const (
	roomNotFound = "Room not found"
	roomExists   = "Room already exists in this hostel"
)

// querier is satisfied by both *sql.DB and *sql.Tx so room loading can
// run inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RoomRepo stores rooms in the rooms table and their seat maps in
// room_seats, one row per seat label.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// CreateRoom inserts the room and every seat of its map in a single
// transaction.  The unique (hostel_id, room_no) index turns a concurrent
// duplicate into a Conflict.
func (r *RoomRepo) CreateRoom(ctx context.Context, room *model.Room) error {
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

	now := time.Now().UTC()
	const qRoom = `INSERT INTO rooms (hostel_id, room_no, seat_capacity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qRoom, room.HostelID, room.RoomNo, room.SeatCapacity, now, now)
	if err != nil {
		return translate(err, "create room", "", roomExists)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	labels := room.SeatMap.Labels()
	if len(labels) > 0 {
		var b strings.Builder
		b.WriteString(`INSERT INTO room_seats (room_id, seat_label, booked) VALUES `)
		args := make([]any, 0, len(labels)*3)
		for i, l := range labels {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("(?, ?, ?)")
			o, _ := room.SeatMap.Occupancy(l)
			args = append(args, id, l, uint8(o))
		}
		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return translate(err, "create room seats", "", "")
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	room.ID = uint64(id)
	room.CreatedAt, room.UpdatedAt = now, now
	return nil
}

// GetRoom loads a room and its seat map.
func (r *RoomRepo) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return loadRoom(ctx, r.db, id)
}

// FindRoomByNo looks a room up by its number within a hostel.  roomNo is
// compared exactly (the column uses a binary collation).
func (r *RoomRepo) FindRoomByNo(ctx context.Context, hostelID uint64, roomNo string) (*model.Room, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM rooms WHERE hostel_id = ? AND room_no = ?`, hostelID, roomNo).Scan(&id)
	if err != nil {
		return nil, translate(err, "find room", roomNotFound, "")
	}
	return loadRoom(ctx, r.db, id)
}

// ListRooms returns the hostel's rooms ordered by room_no.  room_no has a
// binary collation, so the order is plain byte-wise lexicographic.
func (r *RoomRepo) ListRooms(ctx context.Context, hostelID uint64) ([]model.Room, error) {
	const qRooms = `SELECT id, hostel_id, room_no, seat_capacity, created_at, updated_at
	                FROM rooms WHERE hostel_id = ? ORDER BY room_no`
	const qSeats = `SELECT s.room_id, s.seat_label, s.booked
	                FROM room_seats s JOIN rooms r ON r.id = s.room_id
	                WHERE r.hostel_id = ?`
	return r.listRooms(ctx, qRooms, qSeats, hostelID)
}

// ListAllRooms returns every room ordered by hostel then room_no.
func (r *RoomRepo) ListAllRooms(ctx context.Context) ([]model.Room, error) {
	const qRooms = `SELECT id, hostel_id, room_no, seat_capacity, created_at, updated_at
	                FROM rooms ORDER BY hostel_id, room_no`
	const qSeats = `SELECT room_id, seat_label, booked FROM room_seats`
	return r.listRooms(ctx, qRooms, qSeats)
}

func (r *RoomRepo) listRooms(ctx context.Context, qRooms, qSeats string, args ...any) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, qRooms, args...)
	if err != nil {
		return nil, translate(err, "list rooms", "", "")
	}
	var rooms []model.Room
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HostelID, &rm.RoomNo, &rm.SeatCapacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []model.Room{}, nil
	}

	seats, err := r.db.QueryContext(ctx, qSeats, args...)
	if err != nil {
		return nil, translate(err, "list room seats", "", "")
	}
	defer seats.Close()
	state := make(map[uint64]map[string]model.Occupancy, len(rooms))
	for seats.Next() {
		var (
			roomID uint64
			label  string
			booked uint8
		)
		if err := seats.Scan(&roomID, &label, &booked); err != nil {
			return nil, err
		}
		if state[roomID] == nil {
			state[roomID] = map[string]model.Occupancy{}
		}
		state[roomID][label] = model.Occupancy(booked)
	}
	if err := seats.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		rooms[i].SeatMap = model.RestoreSeatMap(state[rooms[i].ID])
	}
	return rooms, nil
}

// DeleteRoom removes the room if it belongs to hostelID.  Its seats go
// with it (ON DELETE CASCADE).  Allocation rows that point at the room
// are not touched and occupancy is not checked.
func (r *RoomRepo) DeleteRoom(ctx context.Context, hostelID, roomID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ? AND hostel_id = ?`, roomID, hostelID)
	if err != nil {
		return translate(err, "delete room", "", "")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(roomNotFound)
	}
	return nil
}

// loadRoom reads one room and its seats through q.
func loadRoom(ctx context.Context, q querier, id uint64) (*model.Room, error) {
	const qRoom = `SELECT id, hostel_id, room_no, seat_capacity, created_at, updated_at FROM rooms WHERE id = ?`
	var rm model.Room
	err := q.QueryRowContext(ctx, qRoom, id).
		Scan(&rm.ID, &rm.HostelID, &rm.RoomNo, &rm.SeatCapacity, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, translate(err, "get room", roomNotFound, "")
	}

	rows, err := q.QueryContext(ctx, `SELECT seat_label, booked FROM room_seats WHERE room_id = ?`, id)
	if err != nil {
		return nil, translate(err, "get room seats", "", "")
	}
	defer rows.Close()
	state := map[string]model.Occupancy{}
	for rows.Next() {
		var (
			label  string
			booked uint8
		)
		if err := rows.Scan(&label, &booked); err != nil {
			return nil, err
		}
		state[label] = model.Occupancy(booked)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rm.SeatMap = model.RestoreSeatMap(state)
	return &rm, nil
}
