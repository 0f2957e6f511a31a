package usecase

import (
	"context"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// PublishVideoInput defines the data required to publish a new video.
// Both media files are required.
type PublishVideoInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    float64
	VideoFile   *MediaUpload
	Thumbnail   *MediaUpload
}

// UpdateVideoInput defines the mutable fields of a published video.
type UpdateVideoInput struct {
	RequesterID uuid.UUID
	VideoID     uuid.UUID
	Title       string
	Description string
	Thumbnail   *MediaUpload
}

// --- Output DTOs ---

// PublishVideoOutput returns the newly published video.
type PublishVideoOutput struct {
	Video *entity.Video `json:"video"`
}

// VideoUsecase defines the interface for video-related business operations.
type VideoUsecase interface {
	// PublishVideo stores the media files, creates the video record and emits
	// a published event for downstream consumers.
	PublishVideo(ctx context.Context, input *PublishVideoInput) (*PublishVideoOutput, error)

	// GetVideo returns a single video. When viewerID is not uuid.Nil the view
	// is counted and recorded in the viewer's watch history.
	GetVideo(ctx context.Context, videoID, viewerID uuid.UUID) (*entity.Video, error)

	// UpdateVideo modifies title, description and optionally the thumbnail.
	// Only the owner may update a video.
	UpdateVideo(ctx context.Context, input *UpdateVideoInput) (*entity.Video, error)

	// ListChannelVideos returns the published videos of a channel, newest first.
	ListChannelVideos(ctx context.Context, channelUsername string) ([]*entity.Video, error)
}
