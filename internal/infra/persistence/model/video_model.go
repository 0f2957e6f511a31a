package model

import (
	"time"

	"github.com/google/uuid"
)

// VideoModel mirrors the 'videos' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type VideoModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	VideoURL     string    `gorm:"type:text;not null"`
	ThumbnailURL string    `gorm:"type:text"`
	Duration     float64
	Views        int64 `gorm:"not null;default:0"`
	IsPublished  bool  `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`

	Owner *UserModel `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (VideoModel) TableName() string {
	return "videos"
}

// WatchHistoryModel mirrors the 'watch_history' table. One row per user/video
// pair; re-watching refreshes watched_at instead of inserting a duplicate.
type WatchHistoryModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	WatchedAt time.Time `gorm:"not null;index"`

	Video *VideoModel `gorm:"foreignKey:VideoID"`
}

// TableName explicitly sets the table name for GORM.
func (WatchHistoryModel) TableName() string {
	return "watch_history"
}
