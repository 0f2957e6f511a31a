package usecase

import (
	"context"

	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/service"

	"github.com/google/uuid"
)

// FeedUsecase defines the interface for subscriber feed operations. Writes
// come from the publish-event worker; reads serve the feed endpoint.
type FeedUsecase interface {
	// BuildFeedEntries fans a published video out into the feeds of every
	// subscriber of its channel. Safe to call again for a redelivered event.
	BuildFeedEntries(ctx context.Context, event *service.VideoPublishedEvent) error

	// GetFeed returns the videos in a user's feed, newest first.
	GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Video, error)
}
