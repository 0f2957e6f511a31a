package repository

import (
	"context"
	"time"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// FeedRepository defines the interface for subscriber feed persistence. Feeds
// are fan-out-on-write: the worker inserts one entry per subscriber when a
// video is published, so reads are a plain indexed scan.
type FeedRepository interface {
	// FanOut inserts a feed entry for every subscriber. Redelivered events are
	// absorbed; existing entries are left untouched.
	FanOut(ctx context.Context, videoID uuid.UUID, publishedAt time.Time, subscriberIDs []uuid.UUID) error

	// FindByUser retrieves the feed videos of a user, newest first, each with
	// its sanitized owner joined.
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Video, error)
}
