// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// Every account doubles as a channel other users can subscribe to.
type User struct {
	ID               uuid.UUID `json:"id"`                    // The Global Unique Identifier (GUID) for the user.
	Username         string    `json:"username"`              // Unique handle, stored lowercase, also the channel name.
	Email            string    `json:"email"`                 // The user's primary contact email, usable as a login identifier.
	FullName         string    `json:"fullname"`              // The user's display name.
	AvatarURL        string    `json:"avatar"`                // Public URL of the avatar image.
	CoverImageURL    string    `json:"cover_image,omitempty"` // Public URL of the channel cover image, optional.
	PasswordHash     string    `json:"-"`                     // Bcrypt digest of the password. Never serialized.
	RefreshTokenHash string    `json:"-"`                     // SHA-256 digest of the single active refresh token, empty when logged out.
	CreatedAt        time.Time `json:"created_at"`            // Timestamp of when this account was created.
	UpdatedAt        time.Time `json:"updated_at"`            // Timestamp of the last modification to this account.
}

// Sanitized returns a copy of the user with credential material stripped.
// Everything that leaves the usecase layer goes through this.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clean := *u
	clean.PasswordHash = ""
	clean.RefreshTokenHash = ""
	return &clean
}

// ChannelProfile is the public view of a user together with subscription stats,
// computed relative to the viewing user.
type ChannelProfile struct {
	User                 *User `json:"user"`
	SubscriberCount      int64 `json:"subscriber_count"`       // How many users subscribe to this channel.
	ChannelsSubscribedTo int64 `json:"channels_subscribed_to"` // How many channels this user subscribes to.
	IsSubscribed         bool  `json:"is_subscribed"`          // Whether the viewer subscribes to this channel.
}
