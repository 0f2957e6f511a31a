package usecase

import (
	"context"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreatePlaylistInput defines the data required to create a playlist.
type CreatePlaylistInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
}

// UpdatePlaylistInput defines the mutable fields of a playlist.
type UpdatePlaylistInput struct {
	RequesterID uuid.UUID
	PlaylistID  uuid.UUID
	Name        string
	Description string
}

// PlaylistVideoInput identifies a playlist membership operation.
type PlaylistVideoInput struct {
	RequesterID uuid.UUID
	PlaylistID  uuid.UUID
	VideoID     uuid.UUID
}

// --- Output DTOs ---

// SharePlaylistOutput returns the share link and its QR code image.
type SharePlaylistOutput struct {
	ShareURL string
	QRCode   []byte
}

// PlaylistUsecase defines the interface for playlist-related business operations.
// Mutating operations verify ownership; a playlist that exists but belongs to
// someone else is reported as forbidden, not as missing.
type PlaylistUsecase interface {
	// CreatePlaylist creates a playlist. Names are unique per owner.
	CreatePlaylist(ctx context.Context, input *CreatePlaylistInput) (*entity.Playlist, error)

	// GetPlaylist returns a playlist with its member videos in insertion order.
	GetPlaylist(ctx context.Context, playlistID uuid.UUID) (*entity.Playlist, error)

	// ListUserPlaylists returns all playlists of a user, newest first.
	ListUserPlaylists(ctx context.Context, ownerID uuid.UUID) ([]*entity.Playlist, error)

	// UpdatePlaylist renames a playlist or changes its description.
	UpdatePlaylist(ctx context.Context, input *UpdatePlaylistInput) (*entity.Playlist, error)

	// DeletePlaylist removes a playlist and its memberships.
	DeletePlaylist(ctx context.Context, requesterID, playlistID uuid.UUID) error

	// AddVideo appends a video to the end of the playlist.
	AddVideo(ctx context.Context, input *PlaylistVideoInput) error

	// RemoveVideo removes a video from the playlist.
	RemoveVideo(ctx context.Context, input *PlaylistVideoInput) error

	// SharePlaylist generates a share link and QR code for a playlist.
	SharePlaylist(ctx context.Context, playlistID uuid.UUID) (*SharePlaylistOutput, error)
}
