package model

import "time"

// Admin is an operator account.  Username doubles as the role name that
// route groups check (e.g. "HostelAdmin").
type Admin struct {
	ID           uint64    // admins.id
	Username     string    // admins.username
	PasswordHash string    // admins.password_hash (bcrypt)
	CreatedAt    time.Time // admins.created_at
}
