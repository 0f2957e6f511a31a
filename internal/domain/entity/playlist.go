// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a named, ordered collection of videos owned by a single user.
// Playlist names are unique per owner.
type Playlist struct {
	ID          uuid.UUID `json:"id"`               // The Global Unique Identifier (GUID) for the playlist.
	OwnerID     uuid.UUID `json:"owner_id"`         // The ID of the user who owns the playlist.
	Name        string    `json:"name"`             // Display name, unique among the owner's playlists.
	Description string    `json:"description"`      // Free-form description.
	Videos      []*Video  `json:"videos,omitempty"` // Member videos in insertion order, populated on read paths that join them.
	CreatedAt   time.Time `json:"created_at"`       // Timestamp of when the playlist was created.
	UpdatedAt   time.Time `json:"updated_at"`       // Timestamp of the last modification.
}

// ContainsVideo reports whether the given video is already a member.
func (p *Playlist) ContainsVideo(videoID uuid.UUID) bool {
	for _, v := range p.Videos {
		if v != nil && v.ID == videoID {
			return true
		}
	}
	return false
}
