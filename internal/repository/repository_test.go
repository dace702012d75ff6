package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil, "op", "x", "y"))

	err := translate(sql.ErrNoRows, "op", "Room not found", "")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "Room not found", err.Error())

	err = translate(&mysql.MySQLError{Number: 1062}, "op", "", "dup")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	err = translate(&mysql.MySQLError{Number: 1213}, "op", "", "")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	err = translate(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'name'"}, "op", "", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// no message for the kind: stays an internal error
	err = translate(&mysql.MySQLError{Number: 1062}, "op", "", "")
	assert.Equal(t, apperr.Kind(0), apperr.KindOf(err))
	assert.Contains(t, err.Error(), "op: ")

	err = translate(apperr.Validation("bad"), "op", "", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestHostelRepo_CreateAndGet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHostelRepo(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO hostels`)).
		WithArgs("North Wing", 12, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	h := &model.Hostel{Name: "North Wing", TotalRooms: 12}
	require.NoError(t, repo.CreateHostel(ctx, h))
	assert.Equal(t, uint64(3), h.ID)
	assert.False(t, h.CreatedAt.IsZero())

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM hostels WHERE id = ?`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_rooms", "created_at", "updated_at"}).
			AddRow(3, "North Wing", 12, now, now))
	got, err := repo.GetHostel(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "North Wing", got.Name)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM hostels WHERE id = ?`)).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetHostel(ctx, 4)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHostelRepo_ListEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHostelRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC, id DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_rooms", "created_at", "updated_at"}))
	list, err := repo.ListHostels(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHostelRepo_DeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewHostelRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM hostels WHERE id = ?`)).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.DeleteHostel(context.Background(), 9)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_CreateRoomWritesSeats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	sm, err := model.NewSeatMap([]string{"A2", "A1"})
	require.NoError(t, err)
	room := &model.Room{HostelID: 1, RoomNo: "101", SeatCapacity: 2, SeatMap: sm}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WithArgs(1, "101", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO room_seats (room_id, seat_label, booked) VALUES (?, ?, ?),(?, ?, ?)`)).
		WithArgs(7, "A1", 0, 7, "A2", 0).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateRoom(context.Background(), room))
	assert.Equal(t, uint64(7), room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_CreateRoomDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	sm, _ := model.NewSeatMap([]string{"A1"})
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repo.CreateRoom(context.Background(), &model.Room{HostelID: 1, RoomNo: "101", SeatMap: sm})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, "Room already exists in this hostel", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_ListRoomsAttachesSeats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE hostel_id = ? ORDER BY room_no`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_id", "room_no", "seat_capacity", "created_at", "updated_at"}).
			AddRow(2, 1, "101", 2, now, now).
			AddRow(5, 1, "102", 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM room_seats s JOIN rooms r ON r.id = s.room_id`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "seat_label", "booked"}).
			AddRow(2, "A1", 1).
			AddRow(2, "A2", 0).
			AddRow(5, "B1", 1))

	rooms, err := repo.ListRooms(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNo)
	assert.Equal(t, 1, rooms[0].SeatMap.CountBooked())
	assert.Equal(t, []string{"A2"}, rooms[0].SeatMap.VacantLabels())
	assert.False(t, rooms[1].HasVacancy())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_ListRoomsEmptySkipsSeatQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE hostel_id = ?`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_id", "room_no", "seat_capacity", "created_at", "updated_at"}))

	rooms, err := repo.ListRooms(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepo_DeleteRoomScopedToHostel(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE id = ? AND hostel_id = ?`)).
		WithArgs(7, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.DeleteRoom(context.Background(), 2, 7)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE id = ? AND hostel_id = ?`)).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteRoom(context.Background(), 1, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_BookSeatIsConditional(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAllocationRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_seats SET booked = 1 WHERE room_id = ? AND seat_label = ? AND booked = 0`)).
		WithArgs(7, "A1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx AllocationTx) error {
		return tx.BookSeat(ctx, 7, "A1")
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_CreateFlowCommits(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAllocationRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM allocations WHERE boarder_id = ? FOR UPDATE`)).
		WithArgs(11).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_seats SET booked = 1`)).
		WithArgs(7, "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO allocations`)).
		WithArgs(11, 1, 7, "101", "A1", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	var created model.Allocation
	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx AllocationTx) error {
		if _, err := tx.LockAllocation(ctx, 11); !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if err := tx.BookSeat(ctx, 7, "A1"); err != nil {
			return err
		}
		created = model.Allocation{BoarderID: 11, HostelID: 1, RoomID: 7, RoomNo: "101", SeatLabel: "A1", Active: true}
		return tx.InsertAllocation(ctx, &created)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_DuplicateInsertIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAllocationRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO allocations`)).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx AllocationTx) error {
		return tx.InsertAllocation(ctx, &model.Allocation{BoarderID: 11, RoomID: 7, SeatLabel: "A1", Active: true})
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_MoveUpdatesInPlace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAllocationRepo(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "boarder_id", "hostel_id", "room_id", "room_no", "seat_label", "active", "created_at", "updated_at"}).
			AddRow(42, 11, 1, 7, "101", "A1", 1, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_seats SET booked = 0 WHERE room_id = ? AND seat_label = ?`)).
		WithArgs(7, "A1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_seats SET booked = 1`)).
		WithArgs(8, "B1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE allocations`)).
		WithArgs(2, 8, "201", "B1", true, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(ctx context.Context, tx AllocationTx) error {
		a, err := tx.LockAllocation(ctx, 11)
		if err != nil {
			return err
		}
		assert.True(t, a.Active)
		if err := tx.ReleaseSeat(ctx, a.RoomID, a.SeatLabel); err != nil {
			return err
		}
		if err := tx.BookSeat(ctx, 8, "B1"); err != nil {
			return err
		}
		a.HostelID, a.RoomID, a.RoomNo, a.SeatLabel = 2, 8, "201", "B1"
		return tx.UpdateAllocation(ctx, a)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocationRepo_DetailsNotAllocated(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAllocationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.boarder_id = ? AND a.active = 1`)).
		WithArgs(11).
		WillReturnError(sql.ErrNoRows)
	_, err := repo.GetAllocationDetails(context.Background(), 11)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "Boarder is not allocated any room", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoarderRepo_ListWithSearch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBoarderRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM boarders WHERE LOWER(name) LIKE ?`)).
		WithArgs("%ann\\_%", "%ann\\_%", "%ann\\_%", "%ann\\_%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT ? OFFSET ?`)).
		WithArgs("%ann\\_%", "%ann\\_%", "%ann\\_%", "%ann\\_%", 2, 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "dob", "phone", "photo_url", "id_card_url", "is_student",
			"organisation", "parent_name", "parent_number", "created_at", "updated_at", "allocated",
		}).AddRow(5, "Ann_A", "a@x.io", "2001-01-01", "555", "", "", 1, "", "Bob", "556", now, now, 1))

	items, total, err := repo.ListBoarders(context.Background(), model.BoarderQuery{Page: 2, Limit: 2, Search: " Ann_ "})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsAllocated)
	assert.True(t, items[0].IsStudent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepo_DuplicateUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO admins`)).
		WithArgs("HostelAdmin", "hash", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	err := repo.CreateAdmin(context.Background(), &model.Admin{Username: "HostelAdmin", PasswordHash: "hash"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM admins WHERE username = ?`)).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetAdminByUsername(context.Background(), "nobody")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
