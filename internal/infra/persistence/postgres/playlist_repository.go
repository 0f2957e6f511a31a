// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// playlistRepository implements the domain.PlaylistRepository interface using GORM.
type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository is the constructor for playlistRepository.
func NewPlaylistRepository(db *gorm.DB) repository.PlaylistRepository {
	return &playlistRepository{db: db}
}

// Create persists a new playlist entity to the database.
func (repo *playlistRepository) Create(ctx context.Context, playlist *entity.Playlist) error {
	playlistM := fromPlaylistDomain(playlist)

	if err := repo.db.WithContext(ctx).Create(playlistM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlaylistName
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required playlist information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create playlist")
	}

	playlist.ID = playlistM.ID
	playlist.CreatedAt = playlistM.CreatedAt
	playlist.UpdatedAt = playlistM.UpdatedAt

	return nil
}

// FindByID retrieves a playlist by its unique ID with member videos joined in insertion order.
func (repo *playlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Playlist, error) {
	var playlistM model.PlaylistModel
	if err := repo.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("playlist_videos.position ASC")
		}).
		Preload("Videos.Video").
		Preload("Videos.Video.Owner").
		Where("id = ?", id).
		First(&playlistM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlaylistNotFound
		}

		return nil, errors.Wrap(err, "failed to find playlist by id")
	}

	return toPlaylistDomain(&playlistM), nil
}

// FindByOwnerAndName retrieves a playlist by its owner and name.
func (repo *playlistRepository) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*entity.Playlist, error) {
	var playlistM model.PlaylistModel
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&playlistM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlaylistNotFound
		}

		return nil, errors.Wrap(err, "failed to find playlist by owner and name")
	}

	return toPlaylistDomain(&playlistM), nil
}

// FindByOwner retrieves all playlists of a single owner with member videos joined.
func (repo *playlistRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Playlist, error) {
	var playlistModels []*model.PlaylistModel
	if err := repo.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("playlist_videos.position ASC")
		}).
		Preload("Videos.Video").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&playlistModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find playlists by owner")
	}

	playlists := make([]*entity.Playlist, 0, len(playlistModels))
	for _, playlistM := range playlistModels {
		playlists = append(playlists, toPlaylistDomain(playlistM))
	}

	return playlists, nil
}

// Update modifies the name and description of an existing playlist.
func (repo *playlistRepository) Update(ctx context.Context, playlist *entity.Playlist) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlaylistModel{}).
		Where("id = ?", playlist.ID).
		Updates(map[string]any{
			"name":        playlist.Name,
			"description": playlist.Description,
		})

	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlaylistName
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update playlist")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

// Delete removes a playlist and its memberships.
func (repo *playlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("playlist_id = ?", id).
		Delete(&model.PlaylistVideoModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete playlist memberships")
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PlaylistModel{})

	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete playlist")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlaylistNotFound
	}

	return nil
}

// AddVideo appends a video to the playlist. The next position comes from the
// current member count; AddVideo is called inside a transaction so the count
// cannot race with another append to the same playlist.
func (repo *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PlaylistVideoModel{}).
		Where("playlist_id = ?", playlistID).
		Count(&count).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to count playlist videos")
	}

	entry := &model.PlaylistVideoModel{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Position:   int(count),
	}

	if err := repo.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlaylistVideo
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrVideoNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add video to playlist")
	}

	return nil
}

// RemoveVideo removes a video from the playlist.
func (repo *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideoModel{})

	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove video from playlist")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlaylistVideoNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toPlaylistDomain converts a GORM PlaylistModel to a domain Playlist entity.
func toPlaylistDomain(data *model.PlaylistModel) *entity.Playlist {
	if data == nil {
		return nil
	}

	videos := make([]*entity.Video, 0, len(data.Videos))
	for _, member := range data.Videos {
		if member.Video == nil {
			continue
		}
		videos = append(videos, toVideoDomain(member.Video))
	}

	return &entity.Playlist{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Description: data.Description,
		Videos:      videos,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromPlaylistDomain converts a domain Playlist entity to a GORM PlaylistModel for persistence.
func fromPlaylistDomain(data *entity.Playlist) *model.PlaylistModel {
	if data == nil {
		return nil
	}

	return &model.PlaylistModel{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Description: data.Description,
	}
}
