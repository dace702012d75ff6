package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

const hostelNotFound = "Hostel not found"

// HostelRepo provides CRUD for the hostels table.
type HostelRepo struct {
	db *sql.DB
}

// NewHostelRepo constructs a HostelRepo with the given DB handle.
func NewHostelRepo(db *sql.DB) *HostelRepo { return &HostelRepo{db: db} }

// CreateHostel inserts the hostel and fills in ID and timestamps.
func (r *HostelRepo) CreateHostel(ctx context.Context, h *model.Hostel) error {
	now := time.Now().UTC()
	const q = `INSERT INTO hostels (name, total_rooms, created_at, updated_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.TotalRooms, now, now)
	if err != nil {
		return translate(err, "create hostel", "", "")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	h.CreatedAt, h.UpdatedAt = now, now
	return nil
}

// GetHostel fetches a hostel by ID.
func (r *HostelRepo) GetHostel(ctx context.Context, id uint64) (*model.Hostel, error) {
	const q = `SELECT id, name, total_rooms, created_at, updated_at FROM hostels WHERE id = ?`
	var h model.Hostel
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.TotalRooms, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, translate(err, "get hostel", hostelNotFound, "")
	}
	return &h, nil
}

// ListHostels returns all hostels, newest first.
func (r *HostelRepo) ListHostels(ctx context.Context) ([]model.Hostel, error) {
	const q = `SELECT id, name, total_rooms, created_at, updated_at
	           FROM hostels
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, translate(err, "list hostels", "", "")
	}
	defer rows.Close()

	out := []model.Hostel{}
	for rows.Next() {
		var h model.Hostel
		if err := rows.Scan(&h.ID, &h.Name, &h.TotalRooms, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateHostel overwrites name and total_rooms.  NotFound when no row
// matches; an update that changes nothing still counts as found.
func (r *HostelRepo) UpdateHostel(ctx context.Context, h *model.Hostel) error {
	now := time.Now().UTC()
	const q = `UPDATE hostels SET name = ?, total_rooms = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, h.Name, h.TotalRooms, now, h.ID); err != nil {
		return translate(err, "update hostel", "", "")
	}
	// RowsAffected is 0 for unchanged rows too, so re-read to detect absence
	fresh, err := r.GetHostel(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *fresh
	return nil
}

// DeleteHostel removes the hostel row only.  Rooms that reference it are
// left in place.
func (r *HostelRepo) DeleteHostel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hostels WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete hostel", "", "")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(hostelNotFound)
	}
	return nil
}
