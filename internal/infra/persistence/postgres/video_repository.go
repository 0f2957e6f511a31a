// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// videoRepository implements the domain.VideoRepository interface using GORM.
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository is the constructor for videoRepository.
func NewVideoRepository(db *gorm.DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// Create persists a new video entity to the database.
func (repo *videoRepository) Create(ctx context.Context, video *entity.Video) error {
	videoM := fromVideoDomain(video)

	if err := repo.db.WithContext(ctx).Create(videoM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrVideoUploadFailed.WrapMessage("invalid owner reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrVideoUploadFailed.WrapMessage("missing required video information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create video")
	}

	video.ID = videoM.ID
	video.CreatedAt = videoM.CreatedAt
	video.UpdatedAt = videoM.UpdatedAt

	return nil
}

// FindByID retrieves a video by its unique ID with the owner joined.
func (repo *videoRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Video, error) {
	var videoM model.VideoModel
	if err := repo.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&videoM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVideoNotFound
		}

		return nil, errors.Wrap(err, "failed to find video by id")
	}

	return toVideoDomain(&videoM), nil
}

// FindByOwner retrieves all published videos of a single owner, newest first.
func (repo *videoRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Video, error) {
	var videoModels []*model.VideoModel
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ? AND is_published = ?", ownerID, true).
		Order("created_at DESC").
		Find(&videoModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find videos by owner")
	}

	videos := make([]*entity.Video, 0, len(videoModels))
	for _, videoM := range videoModels {
		videos = append(videos, toVideoDomain(videoM))
	}

	return videos, nil
}

// Update modifies the title, description and thumbnail of an existing video.
func (repo *videoRepository) Update(ctx context.Context, video *entity.Video) error {
	result := repo.db.WithContext(ctx).
		Model(&model.VideoModel{}).
		Where("id = ?", video.ID).
		Updates(map[string]any{
			"title":         video.Title,
			"description":   video.Description,
			"thumbnail_url": video.ThumbnailURL,
		})

	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update video")
	}

	if result.RowsAffected == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// IncrementViews bumps the view counter of a video.
func (repo *videoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.VideoModel{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1"))

	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to increment views")
	}

	if result.RowsAffected == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// AppendWatchHistory records that a user watched a video. The upsert keeps one
// row per user/video pair and refreshes watched_at on re-watch.
func (repo *videoRepository) AppendWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &model.WatchHistoryModel{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
		}).
		Create(entry).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrVideoNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append watch history")
	}

	return nil
}

// FindWatchHistory retrieves the videos a user watched, most recent first.
func (repo *videoRepository) FindWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Video, error) {
	var entries []*model.WatchHistoryModel
	if err := repo.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find watch history")
	}

	videos := make([]*entity.Video, 0, len(entries))
	for _, entry := range entries {
		if entry.Video == nil {
			continue
		}
		videos = append(videos, toVideoDomain(entry.Video))
	}

	return videos, nil
}

// --- Mapper Functions ---

// toVideoDomain converts a GORM VideoModel to a domain Video entity.
// The joined owner comes back sanitized; credential material never leaves the mapper.
func toVideoDomain(data *model.VideoModel) *entity.Video {
	if data == nil {
		return nil
	}

	return &entity.Video{
		ID:           data.ID,
		OwnerID:      data.OwnerID,
		Owner:        toUserDomain(data.Owner).Sanitized(),
		Title:        data.Title,
		Description:  data.Description,
		VideoURL:     data.VideoURL,
		ThumbnailURL: data.ThumbnailURL,
		Duration:     data.Duration,
		Views:        data.Views,
		IsPublished:  data.IsPublished,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromVideoDomain converts a domain Video entity to a GORM VideoModel for persistence.
func fromVideoDomain(data *entity.Video) *model.VideoModel {
	if data == nil {
		return nil
	}

	return &model.VideoModel{
		ID:           data.ID,
		OwnerID:      data.OwnerID,
		Title:        data.Title,
		Description:  data.Description,
		VideoURL:     data.VideoURL,
		ThumbnailURL: data.ThumbnailURL,
		Duration:     data.Duration,
		Views:        data.Views,
		IsPublished:  data.IsPublished,
	}
}
