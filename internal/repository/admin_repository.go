package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
)

const adminNotFound = "Admin not found"

// AdminRepo provides access to the admins table.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo with the given DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// CreateAdmin inserts a new admin.  Usernames are unique.
func (r *AdminRepo) CreateAdmin(ctx context.Context, a *model.Admin) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)`,
		a.Username, a.PasswordHash, now)
	if err != nil {
		return translate(err, "create admin", "", "Username already taken")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.CreatedAt = now
	return nil
}

// GetAdmin fetches an admin by ID.
func (r *AdminRepo) GetAdmin(ctx context.Context, id uint64) (*model.Admin, error) {
	return r.getBy(ctx, `id = ?`, id)
}

// GetAdminByUsername fetches an admin by username.
func (r *AdminRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.getBy(ctx, `username = ?`, username)
}

func (r *AdminRepo) getBy(ctx context.Context, cond string, arg any) (*model.Admin, error) {
	var a model.Admin
	err := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE `+cond, arg).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, translate(err, "get admin", adminNotFound, "")
	}
	return &a, nil
}
