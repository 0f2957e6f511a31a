package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoPublishedEvent is emitted after a video becomes visible, for async
// consumers such as feed builders and subscriber notifiers.
type VideoPublishedEvent struct {
	RequestID   string    `json:"request_id,omitempty"` // For distributed tracing
	VideoID     uuid.UUID `json:"video_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishVideoEvent publishes a video lifecycle event for async processing
	PublishVideoEvent(ctx context.Context, event *VideoPublishedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
