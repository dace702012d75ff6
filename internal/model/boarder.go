package model

import "time"

// Boarder is a registered resident.  The allocation core only needs the
// ID; the remaining fields serve the registry listing and the allocation
// details view.  PhotoURL and IDCardURL are opaque URLs produced by an
// external file store.
type Boarder struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DOB          string    `json:"dob"`
	Phone        string    `json:"phone"`
	PhotoURL     string    `json:"photo,omitempty"`
	IDCardURL    string    `json:"aadharCard,omitempty"`
	IsStudent    bool      `json:"isStudent"`
	Organisation string    `json:"organisation,omitempty"`
	ParentName   string    `json:"parentName"`
	ParentNumber string    `json:"parentNumber"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BoarderListItem is a boarder plus whether an active allocation exists.
type BoarderListItem struct {
	Boarder
	IsAllocated bool `json:"isAllocated"`
}

// BoarderQuery selects a page of boarders.  Search matches name, email,
// phone or parent name (case-insensitive substring).
type BoarderQuery struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the number of rows to skip for the page.
func (q BoarderQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}
