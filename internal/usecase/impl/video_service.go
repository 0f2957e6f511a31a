package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// videoService implements the VideoUsecase interface.
type videoService struct {
	videoRepo      repository.VideoRepository
	userRepo       repository.UserRepository
	mediaStorage   service.MediaStorage
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// VideoServiceParams holds dependencies for VideoService, injected by Fx.
type VideoServiceParams struct {
	fx.In

	VideoRepo      repository.VideoRepository
	UserRepo       repository.UserRepository
	MediaStorage   service.MediaStorage
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewVideoService is the constructor for videoService.
func NewVideoService(params VideoServiceParams) usecase.VideoUsecase {
	return &videoService{
		videoRepo:      params.VideoRepo,
		userRepo:       params.UserRepo,
		mediaStorage:   params.MediaStorage,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *videoService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PublishVideo stores the media files, creates the video record and emits a
// published event for async consumers.
func (srv *videoService) PublishVideo(ctx context.Context, input *usecase.PublishVideoInput) (*usecase.PublishVideoOutput, error) {
	srv.log(ctx).Info("Publishing video", slog.Any("ownerID", input.OwnerID), slog.String("title", input.Title))

	if input.VideoFile == nil || input.Thumbnail == nil {
		return nil, errors.Wrap(domainerrors.ErrMediaFileRequired, "video file and thumbnail are required")
	}

	videoURL, err := srv.uploadMedia(ctx, "videos", input.VideoFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload video file")
	}

	thumbnailURL, err := srv.uploadMedia(ctx, "thumbnails", input.Thumbnail)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload thumbnail")
	}

	video := &entity.Video{
		OwnerID:      input.OwnerID,
		Title:        input.Title,
		Description:  input.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     input.Duration,
		IsPublished:  true,
	}

	if err := srv.videoRepo.Create(ctx, video); err != nil {
		return nil, errors.Wrap(err, "failed to create video record")
	}

	// The event is best effort. A publish failure must not unpublish the video,
	// so it is logged and swallowed.
	event := &service.VideoPublishedEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		VideoID:     video.ID,
		OwnerID:     video.OwnerID,
		Title:       video.Title,
		PublishedAt: time.Now(),
	}
	if err := srv.eventPublisher.PublishVideoEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish video event", slog.Any("videoID", video.ID), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Video published", slog.Any("videoID", video.ID))

	return &usecase.PublishVideoOutput{Video: video}, nil
}

// GetVideo returns a single video. Unpublished videos are visible only to
// their owner; for anyone else they do not exist. An authenticated view bumps
// the counter and lands in the viewer's watch history.
func (srv *videoService) GetVideo(ctx context.Context, videoID, viewerID uuid.UUID) (*entity.Video, error) {
	video, err := srv.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, errors.Wrap(domainerrors.ErrVideoNotFound, "video not found")
		}

		return nil, errors.Wrap(err, "failed to find video")
	}

	if !video.IsPublished && !service.OwnsResource(video.OwnerID, viewerID) {
		return nil, errors.Wrap(domainerrors.ErrVideoNotFound, "video not found")
	}

	if viewerID != uuid.Nil {
		if err := srv.videoRepo.IncrementViews(ctx, videoID); err != nil {
			srv.log(ctx).Warn("Failed to increment views", slog.Any("videoID", videoID), slog.Any("error", err))
		} else {
			video.Views++
		}

		if err := srv.videoRepo.AppendWatchHistory(ctx, viewerID, videoID); err != nil {
			srv.log(ctx).Warn("Failed to record watch history", slog.Any("videoID", videoID), slog.Any("error", err))
		}
	}

	return video, nil
}

// UpdateVideo modifies title, description and optionally the thumbnail.
// The not-found check runs before the ownership check, so probing for
// someone else's video id and probing for a missing one look different
// only when the video actually exists.
func (srv *videoService) UpdateVideo(ctx context.Context, input *usecase.UpdateVideoInput) (*entity.Video, error) {
	video, err := srv.videoRepo.FindByID(ctx, input.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, errors.Wrap(domainerrors.ErrVideoNotFound, "video not found")
		}

		return nil, errors.Wrap(err, "failed to find video for update")
	}

	if err := service.RequireOwnership(video.OwnerID, input.RequesterID); err != nil {
		srv.log(ctx).Warn("Video update rejected", slog.Any("videoID", input.VideoID), slog.Any("requesterID", input.RequesterID))

		return nil, errors.Wrap(err, "only the owner may update a video")
	}

	if input.Title != "" {
		video.Title = input.Title
	}
	if input.Description != "" {
		video.Description = input.Description
	}
	if input.Thumbnail != nil {
		thumbnailURL, uploadErr := srv.uploadMedia(ctx, "thumbnails", input.Thumbnail)
		if uploadErr != nil {
			return nil, errors.Wrap(uploadErr, "failed to upload new thumbnail")
		}
		video.ThumbnailURL = thumbnailURL
	}

	if err := srv.videoRepo.Update(ctx, video); err != nil {
		return nil, errors.Wrap(err, "failed to update video")
	}

	srv.log(ctx).Debug("Video updated", slog.Any("videoID", video.ID))

	return video, nil
}

// ListChannelVideos returns the published videos of a channel, newest first.
func (srv *videoService) ListChannelVideos(ctx context.Context, channelUsername string) ([]*entity.Video, error) {
	channel, err := srv.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrChannelNotFound, "channel not found")
		}

		return nil, errors.Wrap(err, "failed to find channel")
	}

	videos, err := srv.videoRepo.FindByOwner(ctx, channel.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list channel videos")
	}

	return videos, nil
}

func (srv *videoService) uploadMedia(ctx context.Context, prefix string, upload *usecase.MediaUpload) (string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(upload.FileName))

	url, err := srv.mediaStorage.Upload(ctx, key, upload.ContentType, upload.Content)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrMediaUploadFailed, err.Error())
	}

	return url, nil
}
