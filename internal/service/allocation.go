package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/queue"
	"github.com/iliyamo/hostel-seat-allocation/internal/repository"
)

// AllocateInput identifies the boarder and the seat to put them in.
// RoomNo is what the caller believes the room number is; the stored
// snapshot is always taken from the room itself.
type AllocateInput struct {
	BoarderID uint64
	HostelID  uint64
	RoomID    uint64
	RoomNo    string
	SeatLabel string
}

func (in AllocateInput) validate() error {
	if in.BoarderID == 0 || in.HostelID == 0 || in.RoomID == 0 ||
		strings.TrimSpace(in.RoomNo) == "" || in.SeatLabel == "" {
		return apperr.Validation("All fields are required")
	}
	return nil
}

// AllocationService is the only writer of seat occupancy and allocation
// rows.  Every operation runs inside one store transaction, so a failure
// at any step leaves both the seat maps and the ledger as they were.
type AllocationService struct {
	ledger    repository.AllocationStore
	boarders  repository.BoarderStore
	publisher EventPublisher
	log       *zap.Logger
	now       Clock
}

func NewAllocationService(ledger repository.AllocationStore, boarders repository.BoarderStore, publisher EventPublisher, log *zap.Logger) *AllocationService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &AllocationService{
		ledger:    ledger,
		boarders:  boarders,
		publisher: publisher,
		log:       log.Named("allocation"),
		now:       utcNow,
	}
}

// WithClock overrides the event timestamp source.
func (s *AllocationService) WithClock(now Clock) *AllocationService {
	s.now = now
	return s
}

// Allocate puts the boarder in the seat.  A boarder without a ledger row
// gets a new one.  A boarder with a row has it rewritten in place; if the
// row was active the previous seat is freed in the same transaction.
//
// Conflict is returned when the seat is booked (including a concurrent
// booking that wins the compare-and-set) and when the boarder already
// holds exactly this seat.
func (s *AllocationService) Allocate(ctx context.Context, in AllocateInput) (*model.Allocation, model.AllocationOutcome, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	if _, err := s.boarders.GetBoarder(ctx, in.BoarderID); err != nil {
		return nil, "", err
	}

	var (
		result  model.Allocation
		outcome model.AllocationOutcome
		prev    *model.Allocation
	)
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx repository.AllocationTx) error {
		room, err := tx.GetRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if room.HostelID != in.HostelID {
			return apperr.Validation("Room does not belong to this hostel")
		}
		if !room.SeatMap.Has(in.SeatLabel) {
			return apperr.Validation("Invalid seat number")
		}

		existing, err := tx.LockAllocation(ctx, in.BoarderID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Active && existing.SameSeat(in.RoomID, in.SeatLabel) {
			return apperr.Conflict("Boarder already in this seat")
		}
		if vacant, _ := room.SeatMap.IsVacant(in.SeatLabel); !vacant {
			return apperr.Conflict("Seat already booked")
		}

		if existing == nil {
			if err := tx.BookSeat(ctx, room.ID, in.SeatLabel); err != nil {
				return err
			}
			result = model.Allocation{
				BoarderID: in.BoarderID,
				HostelID:  room.HostelID,
				RoomID:    room.ID,
				RoomNo:    room.RoomNo,
				SeatLabel: in.SeatLabel,
				Active:    true,
			}
			outcome = model.OutcomeCreated
			return tx.InsertAllocation(ctx, &result)
		}

		if existing.Active {
			if err := tx.ReleaseSeat(ctx, existing.RoomID, existing.SeatLabel); err != nil {
				return err
			}
			before := *existing
			prev = &before
			outcome = model.OutcomeMoved
		} else {
			outcome = model.OutcomeCreated
		}
		if err := tx.BookSeat(ctx, room.ID, in.SeatLabel); err != nil {
			return err
		}
		result = *existing
		result.HostelID = room.HostelID
		result.RoomID = room.ID
		result.RoomNo = room.RoomNo
		result.SeatLabel = in.SeatLabel
		result.Active = true
		return tx.UpdateAllocation(ctx, &result)
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info("seat allocated",
		zap.Uint64("boarder_id", result.BoarderID),
		zap.Uint64("room_id", result.RoomID),
		zap.String("seat", result.SeatLabel),
		zap.String("outcome", string(outcome)),
	)
	evType := queue.EventAllocated
	if outcome == model.OutcomeMoved {
		evType = queue.EventMoved
	}
	ev := queue.NewAllocationEvent(evType, &result, s.now())
	if prev != nil {
		ev.PrevRoomID, ev.PrevSeat = prev.RoomID, prev.SeatLabel
	}
	s.publish(ctx, ev)
	return &result, outcome, nil
}

// Deallocate frees the boarder's seat and marks the row inactive.  The
// row is kept and reused by the next Allocate.
func (s *AllocationService) Deallocate(ctx context.Context, boarderID uint64) error {
	if boarderID == 0 {
		return apperr.Validation("Invalid Boarder ID")
	}
	var result model.Allocation
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx repository.AllocationTx) error {
		a, err := tx.LockAllocation(ctx, boarderID)
		if errors.Is(err, apperr.ErrNotFound) || (err == nil && !a.Active) {
			return apperr.NotFound("No active room allocation found")
		}
		if err != nil {
			return err
		}
		// a room deleted since allocation has no seat to free
		if err := tx.ReleaseSeat(ctx, a.RoomID, a.SeatLabel); err != nil {
			return err
		}
		a.Active = false
		result = *a
		return tx.UpdateAllocation(ctx, a)
	})
	if err != nil {
		return err
	}

	s.log.Info("seat vacated",
		zap.Uint64("boarder_id", boarderID),
		zap.Uint64("room_id", result.RoomID),
		zap.String("seat", result.SeatLabel),
	)
	s.publish(ctx, queue.NewAllocationEvent(queue.EventDeallocated, &result, s.now()))
	return nil
}

// GetAllocationDetails returns the display snapshot of the boarder's
// active allocation.
func (s *AllocationService) GetAllocationDetails(ctx context.Context, boarderID uint64) (*model.AllocationDetails, error) {
	if boarderID == 0 {
		return nil, apperr.Validation("Invalid Boarder ID")
	}
	return s.ledger.GetAllocationDetails(ctx, boarderID)
}

// publish never fails the caller: the allocation is already committed.
func (s *AllocationService) publish(ctx context.Context, ev queue.AllocationEvent) {
	if err := s.publisher.PublishAllocation(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("publish allocation event failed",
			zap.Error(err),
			zap.String("type", string(ev.Type)),
			zap.Uint64("boarder_id", ev.BoarderID),
		)
	}
}
