// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"io"

	"vidhub/internal/domain/entity"

	"github.com/google/uuid"
)

// MediaUpload carries one uploaded file from the delivery layer into a use case.
type MediaUpload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
// Avatar is required, CoverImage optional.
type RegisterUserInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *MediaUpload
	CoverImage *MediaUpload
}

// LoginInput defines the data required for a user to log in.
// Identity is the username or email.
type LoginInput struct {
	Identity string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateUserDetailsInput defines the mutable profile fields.
type UpdateUserDetailsInput struct {
	UserID   uuid.UUID
	FullName string
	Email    string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User `json:"user"`
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *entity.User `json:"user"`
}

// RefreshOutput returns the rotated token pair.
type RefreshOutput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
// All returned users are sanitized; credential material never crosses this boundary.
type UserUsecase interface {
	// RegisterUser creates a new account, storing the media uploads and the password hash.
	RegisterUser(ctx context.Context, input *RegisterUserInput) (*RegisterOutput, error)

	// Login authenticates by username or email and establishes the single
	// active session, overwriting any previous refresh reference.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// RefreshSession rotates the refresh credential. The presented token must
	// match the stored reference; exactly one concurrent rotation succeeds.
	RefreshSession(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout clears the stored refresh reference. Idempotent.
	Logout(ctx context.Context, userID uuid.UUID) error

	// ChangePassword verifies the old password and stores the new hash.
	// The active session survives a password change.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	// GetCurrentUser returns the sanitized account of the given user.
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateUserDetails updates fullname and email.
	UpdateUserDetails(ctx context.Context, input *UpdateUserDetailsInput) (*entity.User, error)

	// UpdateAvatar stores a new avatar image and returns the updated account.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *MediaUpload) (*entity.User, error)

	// UpdateCoverImage stores a new cover image and returns the updated account.
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload *MediaUpload) (*entity.User, error)

	// GetChannelProfile returns the public channel view with subscription stats
	// relative to the viewer. viewerID may be uuid.Nil for anonymous viewers.
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error)

	// Subscribe makes the viewer follow the channel.
	Subscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) error

	// Unsubscribe makes the viewer stop following the channel. Idempotent.
	Unsubscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) error

	// GetWatchHistory returns the videos the user watched, most recent first.
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Video, error)
}
