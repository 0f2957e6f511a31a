package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedEntryModel mirrors the 'feed_entries' table. One row per subscriber per
// published video; redelivered publish events upsert instead of duplicating.
type FeedEntryModel struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PublishedAt time.Time `gorm:"not null;index"`

	Video *VideoModel `gorm:"foreignKey:VideoID"`
}

// TableName explicitly sets the table name for GORM.
func (FeedEntryModel) TableName() string {
	return "feed_entries"
}
