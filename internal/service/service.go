// Package service holds the business rules of the hostel: the hostel and
// room registries, the boarder registry, admin authentication and the
// allocation protocol that keeps seat maps and the allocation ledger in
// step.  Services depend on the repository contracts only.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/hostel-seat-allocation/internal/queue"
)

// EventPublisher receives allocation events after they commit.
type EventPublisher interface {
	PublishAllocation(ctx context.Context, ev queue.AllocationEvent) error
}

// NopPublisher drops every event.  Used when the queue is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishAllocation(context.Context, queue.AllocationEvent) error { return nil }

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
