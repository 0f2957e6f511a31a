// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for playlist persistence.
var (
	// ErrPlaylistNotFound is returned when a playlist is not found.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrDuplicatePlaylistName is returned when the owner already has a playlist with the same name.
	ErrDuplicatePlaylistName = errors.New("playlist name already exists for owner")
	// ErrDuplicatePlaylistVideo is returned when a video is already a member of the playlist.
	ErrDuplicatePlaylistVideo = errors.New("video already in playlist")
	// ErrPlaylistVideoNotFound is returned when a video is not a member of the playlist.
	ErrPlaylistVideoNotFound = errors.New("video not in playlist")
)

// PlaylistRepository defines the interface for playlist-related database operations.
type PlaylistRepository interface {
	// Create persists a new playlist entity to the storage.
	Create(ctx context.Context, playlist *entity.Playlist) error

	// FindByID retrieves a playlist by its unique ID with member videos joined in insertion order.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Playlist, error)

	// FindByOwnerAndName retrieves a playlist by its owner and name.
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*entity.Playlist, error)

	// FindByOwner retrieves all playlists of a single owner with member videos joined.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Playlist, error)

	// Update modifies the name and description of an existing playlist.
	Update(ctx context.Context, playlist *entity.Playlist) error

	// Delete removes a playlist and its memberships.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddVideo appends a video to the playlist.
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error

	// RemoveVideo removes a video from the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
}
