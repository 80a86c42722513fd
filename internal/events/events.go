// Package events publishes product lifecycle notifications.
package events

import (
	"context"
	"fmt"
	"time"

	"ecommerce-api/internal/model"
)

// Action names a product lifecycle change.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the message emitted after a product changes.
// Product is nil for deletions.
type Event struct {
	Action     Action         `json:"action"`
	ProductID  int64          `json:"productId"`
	Product    *model.Product `json:"product,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Key returns the partitioning key, e.g. "product.created.42".
func (e Event) Key() string {
	return fmt.Sprintf("product.%s.%d", e.Action, e.ProductID)
}

// Publisher delivers product events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func (nopPublisher) Close() error { return nil }
