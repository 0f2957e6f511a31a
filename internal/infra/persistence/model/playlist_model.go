package model

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistModel mirrors the 'playlists' table. The (owner_id, name) pair is
// unique so an owner can never hold two playlists with the same name.
type PlaylistModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlists_owner_name"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_playlists_owner_name"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time `gorm:"index"`

	Videos []PlaylistVideoModel `gorm:"foreignKey:PlaylistID"`
}

// TableName explicitly sets the table name for GORM.
func (PlaylistModel) TableName() string {
	return "playlists"
}

// PlaylistVideoModel mirrors the 'playlist_videos' join table and preserves
// insertion order through the position column.
type PlaylistVideoModel struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"not null"`
	CreatedAt  time.Time

	Video *VideoModel `gorm:"foreignKey:VideoID"`
}

// TableName explicitly sets the table name for GORM.
func (PlaylistVideoModel) TableName() string {
	return "playlist_videos"
}
