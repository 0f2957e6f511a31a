package impl

import (
	"context"
	"log/slog"
	"strings"

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

// playlistService implements the PlaylistUsecase interface.
type playlistService struct {
	txManager     repository.TransactionManager
	playlistRepo  repository.PlaylistRepository
	qrcodeService service.QRCodeService
	logger        *slog.Logger
}

// PlaylistServiceParams holds dependencies for PlaylistService, injected by Fx.
type PlaylistServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	PlaylistRepo  repository.PlaylistRepository
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// NewPlaylistService is the constructor for playlistService.
func NewPlaylistService(params PlaylistServiceParams) usecase.PlaylistUsecase {
	return &playlistService{
		txManager:     params.TxManager,
		playlistRepo:  params.PlaylistRepo,
		qrcodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

func (srv *playlistService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePlaylist creates a playlist. The name check and the insert run in one
// transaction so two requests cannot both claim the same name.
func (srv *playlistService) CreatePlaylist(ctx context.Context, input *usecase.CreatePlaylistInput) (*entity.Playlist, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "playlist name is required")
	}

	playlist := &entity.Playlist{
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: input.Description,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playlistRepo := repoFactory.NewPlaylistRepository()

		if _, findErr := playlistRepo.FindByOwnerAndName(ctx, input.OwnerID, name); findErr == nil {
			return errors.Wrap(domainerrors.ErrPlaylistNameTaken, "playlist name already in use")
		} else if !errors.Is(findErr, repository.ErrPlaylistNotFound) {
			return errors.Wrap(findErr, "failed to check playlist name availability")
		}

		if createErr := playlistRepo.Create(ctx, playlist); createErr != nil {
			if errors.Is(createErr, repository.ErrDuplicatePlaylistName) {
				return errors.Wrap(domainerrors.ErrPlaylistNameTaken, "playlist name already in use")
			}

			return errors.Wrap(createErr, "failed to create playlist")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create playlist", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Playlist created", slog.Any("playlistID", playlist.ID))

	return playlist, nil
}

// GetPlaylist returns a playlist with its member videos in insertion order.
func (srv *playlistService) GetPlaylist(ctx context.Context, playlistID uuid.UUID) (*entity.Playlist, error) {
	playlist, err := srv.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPlaylistNotFound, "playlist not found")
		}

		return nil, errors.Wrap(err, "failed to find playlist")
	}

	return playlist, nil
}

// ListUserPlaylists returns all playlists of a user, newest first.
func (srv *playlistService) ListUserPlaylists(ctx context.Context, ownerID uuid.UUID) ([]*entity.Playlist, error) {
	playlists, err := srv.playlistRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list playlists")
	}

	return playlists, nil
}

// UpdatePlaylist renames a playlist or changes its description. Only the owner
// may do either; the existence check runs first so a missing playlist is
// reported as missing, not forbidden.
func (srv *playlistService) UpdatePlaylist(ctx context.Context, input *usecase.UpdatePlaylistInput) (*entity.Playlist, error) {
	playlist, err := srv.resolveOwnedPlaylist(ctx, input.PlaylistID, input.RequesterID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		playlist.Name = name
	}
	if input.Description != "" {
		playlist.Description = input.Description
	}

	if err := srv.playlistRepo.Update(ctx, playlist); err != nil {
		if errors.Is(err, repository.ErrDuplicatePlaylistName) {
			return nil, errors.Wrap(domainerrors.ErrPlaylistNameTaken, "playlist name already in use")
		}
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPlaylistNotFound, "playlist vanished during update")
		}

		return nil, errors.Wrap(err, "failed to update playlist")
	}

	srv.log(ctx).Debug("Playlist updated", slog.Any("playlistID", playlist.ID))

	return playlist, nil
}

// DeletePlaylist removes a playlist and its memberships.
func (srv *playlistService) DeletePlaylist(ctx context.Context, requesterID, playlistID uuid.UUID) error {
	if _, err := srv.resolveOwnedPlaylist(ctx, playlistID, requesterID); err != nil {
		return err
	}

	if err := srv.playlistRepo.Delete(ctx, playlistID); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return errors.Wrap(domainerrors.ErrPlaylistNotFound, "playlist vanished during delete")
		}

		return errors.Wrap(err, "failed to delete playlist")
	}

	srv.log(ctx).Debug("Playlist deleted", slog.Any("playlistID", playlistID))

	return nil
}

// AddVideo appends a video to the end of the playlist. The ownership check and
// the positioned insert share one transaction.
func (srv *playlistService) AddVideo(ctx context.Context, input *usecase.PlaylistVideoInput) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		playlistRepo := repoFactory.NewPlaylistRepository()
		videoRepo := repoFactory.NewVideoRepository()

		playlist, findErr := playlistRepo.FindByID(ctx, input.PlaylistID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrPlaylistNotFound) {
				return errors.Wrap(domainerrors.ErrPlaylistNotFound, "playlist not found")
			}

			return errors.Wrap(findErr, "failed to find playlist")
		}

		if ownErr := service.RequireOwnership(playlist.OwnerID, input.RequesterID); ownErr != nil {
			return errors.Wrap(ownErr, "only the owner may modify a playlist")
		}

		if _, findErr := videoRepo.FindByID(ctx, input.VideoID); findErr != nil {
			if errors.Is(findErr, repository.ErrVideoNotFound) {
				return errors.Wrap(domainerrors.ErrVideoNotFound, "video not found")
			}

			return errors.Wrap(findErr, "failed to find video")
		}

		if addErr := playlistRepo.AddVideo(ctx, input.PlaylistID, input.VideoID); addErr != nil {
			if errors.Is(addErr, repository.ErrDuplicatePlaylistVideo) {
				return errors.Wrap(domainerrors.ErrVideoAlreadyInPlaylist, "video already in playlist")
			}
			if errors.Is(addErr, repository.ErrVideoNotFound) {
				return errors.Wrap(domainerrors.ErrVideoNotFound, "video vanished during add")
			}

			return errors.Wrap(addErr, "failed to add video to playlist")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add video to playlist", slog.Any("playlistID", input.PlaylistID), slog.Any("videoID", input.VideoID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Debug("Video added to playlist", slog.Any("playlistID", input.PlaylistID), slog.Any("videoID", input.VideoID))

	return nil
}

// RemoveVideo removes a video from the playlist.
func (srv *playlistService) RemoveVideo(ctx context.Context, input *usecase.PlaylistVideoInput) error {
	if _, err := srv.resolveOwnedPlaylist(ctx, input.PlaylistID, input.RequesterID); err != nil {
		return err
	}

	if err := srv.playlistRepo.RemoveVideo(ctx, input.PlaylistID, input.VideoID); err != nil {
		if errors.Is(err, repository.ErrPlaylistVideoNotFound) {
			return errors.Wrap(domainerrors.ErrVideoNotInPlaylist, "video not in playlist")
		}

		return errors.Wrap(err, "failed to remove video from playlist")
	}

	srv.log(ctx).Debug("Video removed from playlist", slog.Any("playlistID", input.PlaylistID), slog.Any("videoID", input.VideoID))

	return nil
}

// SharePlaylist generates a share link and QR code for a playlist.
func (srv *playlistService) SharePlaylist(ctx context.Context, playlistID uuid.UUID) (*usecase.SharePlaylistOutput, error) {
	if _, err := srv.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	qrBytes, err := srv.qrcodeService.GeneratePlaylistQR(playlistID)
	if err != nil {
		srv.log(ctx).Error("Failed to generate playlist QR code", slog.Any("playlistID", playlistID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate playlist QR code")
	}

	return &usecase.SharePlaylistOutput{
		ShareURL: srv.qrcodeService.PlaylistShareURL(playlistID),
		QRCode:   qrBytes,
	}, nil
}

// resolveOwnedPlaylist loads a playlist and verifies the requester owns it.
// Missing playlists fail with not-found before ownership is evaluated.
func (srv *playlistService) resolveOwnedPlaylist(ctx context.Context, playlistID, requesterID uuid.UUID) (*entity.Playlist, error) {
	playlist, err := srv.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPlaylistNotFound, "playlist not found")
		}

		return nil, errors.Wrap(err, "failed to find playlist")
	}

	if err := service.RequireOwnership(playlist.OwnerID, requesterID); err != nil {
		srv.log(ctx).Warn("Playlist access rejected", slog.Any("playlistID", playlistID), slog.Any("requesterID", requesterID))

		return nil, errors.Wrap(err, "only the owner may modify a playlist")
	}

	return playlist, nil
}
