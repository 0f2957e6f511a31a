package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
// The single active refresh credential lives on the user row itself: rotating a
// session is one conditional UPDATE of refresh_token_hash.
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Username         string    `gorm:"type:varchar(100);unique;not null"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	FullName         string    `gorm:"type:varchar(100);not null"`
	AvatarURL        string    `gorm:"type:text;not null"`
	CoverImageURL    string    `gorm:"type:text"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	RefreshTokenHash string    `gorm:"type:varchar(64);index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time `gorm:"index"`

	Videos    []VideoModel    `gorm:"foreignKey:OwnerID"`
	Playlists []PlaylistModel `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
