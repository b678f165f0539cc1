package events

import (
	"context"
	"errors"
	"time"
)

// Type names a domain event. It doubles as the NATS subject suffix.
type Type string

const (
	FriendRequestSent     Type = "friend.request.sent"
	FriendRequestAccepted Type = "friend.request.accepted"
	PostCommented         Type = "post.commented"
	PostReported          Type = "post.reported"
)

// Event is a notification about a state change. RecipientID is the user the
// event is addressed to, or 0 for events with no single recipient.
type Event struct {
	Type        Type      `json:"type"`
	RecipientID uint      `json:"recipient_id,omitempty"`
	ActorID     uint      `json:"actor_id"`
	PostID      uint      `json:"post_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers events. Implementations must not block for long; a
// failed publish never rolls back the state change that produced it.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
