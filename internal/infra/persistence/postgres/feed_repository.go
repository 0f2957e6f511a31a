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

// feedRepository implements the repository.FeedRepository interface.
type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository is the constructor for feedRepository.
func NewFeedRepository(db *gorm.DB) repository.FeedRepository {
	return &feedRepository{db: db}
}

// FanOut inserts a feed entry for every subscriber. Pub/Sub delivers at least
// once, so conflicts on (user_id, video_id) are skipped rather than failed.
func (repo *feedRepository) FanOut(ctx context.Context, videoID uuid.UUID, publishedAt time.Time, subscriberIDs []uuid.UUID) error {
	if len(subscriberIDs) == 0 {
		return nil
	}

	entries := make([]*model.FeedEntryModel, 0, len(subscriberIDs))
	for _, subscriberID := range subscriberIDs {
		entries = append(entries, &model.FeedEntryModel{
			UserID:      subscriberID,
			VideoID:     videoID,
			PublishedAt: publishedAt,
		})
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(entries).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrVideoNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to fan out feed entries")
	}

	return nil
}

// FindByUser retrieves the feed videos of a user, newest first.
func (repo *feedRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Video, error) {
	query := repo.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("published_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []*model.FeedEntryModel
	if err := query.Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find feed entries")
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
