// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Video represents a published video and its stored media.
type Video struct {
	ID           uuid.UUID `json:"id"`              // The Global Unique Identifier (GUID) for the video.
	OwnerID      uuid.UUID `json:"owner_id"`        // The ID of the user who published the video.
	Owner        *User     `json:"owner,omitempty"` // Sanitized owner, populated on read paths that join it.
	Title        string    `json:"title"`           // Display title, required.
	Description  string    `json:"description"`     // Free-form description.
	VideoURL     string    `json:"video_url"`       // Public URL of the stored video file.
	ThumbnailURL string    `json:"thumbnail_url"`   // Public URL of the thumbnail image.
	Duration     float64   `json:"duration"`        // Length in seconds, zero when unknown.
	Views        int64     `json:"views"`           // Total recorded views.
	IsPublished  bool      `json:"is_published"`    // Whether the video is visible to other users.
	CreatedAt    time.Time `json:"created_at"`      // Timestamp of when the video was published.
	UpdatedAt    time.Time `json:"updated_at"`      // Timestamp of the last modification.
}

// WatchHistoryEntry records that a user watched a video at a point in time.
type WatchHistoryEntry struct {
	UserID    uuid.UUID `json:"user_id"`
	VideoID   uuid.UUID `json:"video_id"`
	WatchedAt time.Time `json:"watched_at"`
}
