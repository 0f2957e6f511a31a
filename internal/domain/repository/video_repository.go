// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrVideoNotFound is returned when a video is not found.
var ErrVideoNotFound = errors.New("video not found")

// VideoRepository defines the interface for video-related database operations.
type VideoRepository interface {
	// Create persists a new video entity to the storage.
	Create(ctx context.Context, video *entity.Video) error

	// FindByID retrieves a video by its unique ID with the sanitized owner joined.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error)

	// FindByOwner retrieves all published videos of a single owner, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Video, error)

	// Update modifies the title, description and thumbnail of an existing video.
	Update(ctx context.Context, video *entity.Video) error

	// IncrementViews bumps the view counter of a video.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// AppendWatchHistory records that a user watched a video. Re-watching moves
	// the entry to the front instead of duplicating it.
	AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error

	// FindWatchHistory retrieves the videos a user watched, most recent first,
	// each with its sanitized owner joined.
	FindWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Video, error)
}
