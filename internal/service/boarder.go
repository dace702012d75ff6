package service

import (
	"context"
	"strings"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

const (
	defaultBoarderPage  = 1
	defaultBoarderLimit = 10
	maxBoarderLimit     = 100
)

// BoarderPage is one page of the boarder listing.
type BoarderPage struct {
	Items      []model.BoarderListItem
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// BoarderService registers and lists boarders.  Allocation state is only
// read here.
type BoarderService struct {
	boarders repository.BoarderStore
}

func NewBoarderService(boarders repository.BoarderStore) *BoarderService {
	return &BoarderService{boarders: boarders}
}

// Register stores a new boarder.  Photo and ID card are URLs produced by
// an external file store and are optional here.
func (s *BoarderService) Register(ctx context.Context, b model.Boarder) (*model.Boarder, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.Phone = strings.TrimSpace(b.Phone)
	b.ParentName = strings.TrimSpace(b.ParentName)
	b.ParentNumber = strings.TrimSpace(b.ParentNumber)
	if b.Name == "" || b.Email == "" || b.DOB == "" || b.Phone == "" || b.ParentName == "" || b.ParentNumber == "" {
		return nil, apperr.Validation("All required fields must be filled")
	}
	b.ID = 0
	if err := s.boarders.CreateBoarder(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BoarderService) Get(ctx context.Context, id uint64) (*model.Boarder, error) {
	return s.boarders.GetBoarder(ctx, id)
}

// List returns a page of boarders, newest first.  Page defaults to 1 and
// limit to 10; limit is capped at 100.
func (s *BoarderService) List(ctx context.Context, q model.BoarderQuery) (*BoarderPage, error) {
	if q.Page < 1 {
		q.Page = defaultBoarderPage
	}
	if q.Limit < 1 {
		q.Limit = defaultBoarderLimit
	}
	if q.Limit > maxBoarderLimit {
		q.Limit = maxBoarderLimit
	}
	q.Search = strings.TrimSpace(q.Search)

	items, total, err := s.boarders.ListBoarders(ctx, q)
	if err != nil {
		return nil, err
	}
	return &BoarderPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}
