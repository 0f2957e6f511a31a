// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"
	"vidhub/internal/domain/service"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	subscriptionRepo repository.SubscriptionRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	mediaStorage     service.MediaStorage
	logger           *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	VideoRepo        repository.VideoRepository
	SubscriptionRepo repository.SubscriptionRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	MediaStorage     service.MediaStorage
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		videoRepo:        params.VideoRepo,
		subscriptionRepo: params.SubscriptionRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		mediaStorage:     params.MediaStorage,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser orchestrates the complete user registration process.
// The avatar is mandatory; the cover image is not.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username), slog.String("email", input.Email))

	if input.Avatar == nil {
		return nil, errors.Wrap(domainerrors.ErrMediaFileRequired, "avatar image is required for registration")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}

	// Hash outside the transaction (bcrypt is CPU-bound).
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	// Media uploads happen before the transaction as well. If the transaction
	// later rolls back the objects are orphaned, which is acceptable: keys are
	// random and storage is cheap compared to holding a DB transaction open
	// across network uploads.
	avatarURL, err := srv.uploadMedia(ctx, "avatars", input.Avatar)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload avatar during registration")
	}

	var coverURL string
	if input.CoverImage != nil {
		coverURL, err = srv.uploadMedia(ctx, "covers", input.CoverImage)
		if err != nil {
			return nil, errors.Wrap(err, "failed to upload cover image during registration")
		}
	}

	newUser := &entity.User{
		Username:      strings.ToLower(strings.TrimSpace(input.Username)),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:      input.FullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if _, findErr := userRepo.FindByIdentity(ctx, newUser.Username); findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "username already taken")
		} else if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check username availability")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			if errors.Is(createErr, repository.ErrDuplicateUser) {
				return errors.Wrap(domainerrors.ErrUserAlreadyExists, "username or email already registered")
			}

			return errors.Wrap(createErr, "failed to create user during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", newUser.Username), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser.Sanitized()}, nil
}

// Login orchestrates the user login process. A successful login overwrites any
// previously stored refresh reference, so the account holds one active session.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	// Registration stores usernames and emails lowercased, so the presented
	// identity is normalized the same way before lookup.
	identity := strings.ToLower(strings.TrimSpace(input.Identity))

	srv.log(ctx).Debug("Starting user login", slog.String("identity", identity))

	user, err := srv.userRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown identity", slog.String("identity", identity))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by identity")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Username)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.userRepo.UpdateRefreshTokenHash(ctx, user.ID, srv.tokenService.HashToken(refreshToken)); err != nil {
		srv.log(ctx).Error("Failed to store refresh reference during login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to store refresh token reference")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Sanitized(),
	}, nil
}

// RefreshSession rotates the refresh credential. The presented token must both
// verify cryptographically and match the stored reference; the conditional
// update in the repository lets exactly one concurrent rotation win. Every
// failure mode surfaces as the same unauthenticated error.
func (srv *userService) RefreshSession(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh rejected, token validation failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token validation failed")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Refresh rejected, user no longer exists", slog.Any("userID", claims.UserID))

			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token owner not found")
		}

		return nil, errors.Wrap(err, "failed to find user for refresh")
	}

	presentedHash := srv.tokenService.HashToken(refreshToken)
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != presentedHash {
		srv.log(ctx).Warn("Refresh rejected, stored reference mismatch", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token does not match stored reference")
	}

	newAccessToken, newRefreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Username)
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens during refresh", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate rotated tokens")
	}

	// The conditional update is the serialization point. If another rotation
	// (or a logout) slipped in between the read above and this write, zero
	// rows match and this request loses.
	err = srv.userRepo.RotateRefreshTokenHash(ctx, user.ID, presentedHash, srv.tokenService.HashToken(newRefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenMismatch) {
			srv.log(ctx).Warn("Refresh rejected, lost rotation race", slog.Any("userID", user.ID))

			return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "refresh token already rotated")
		}

		return nil, errors.Wrap(err, "failed to rotate refresh token reference")
	}

	srv.log(ctx).Debug("Session refreshed", slog.Any("userID", user.ID))

	return &usecase.RefreshOutput{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout clears the stored refresh reference. Clearing an already empty
// reference succeeds, so repeated logouts are harmless.
func (srv *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to log out", slog.Any("userID", userID))

	if err := srv.userRepo.UpdateRefreshTokenHash(ctx, userID, ""); err != nil {
		srv.log(ctx).Error("Failed to clear refresh reference", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to clear refresh token reference")
	}

	return nil
}

// ChangePassword verifies the old password before storing the new hash.
// The stored refresh reference is untouched, so the active session survives.
func (srv *userService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Attempting password change", slog.Any("userID", input.UserID))

	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "user not found for password change")
		}

		return errors.Wrap(err, "failed to find user for password change")
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change rejected, old password mismatch", slog.Any("userID", input.UserID))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "old password is incorrect")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "new password does not meet security requirements")
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	if err := srv.userRepo.UpdatePasswordHash(ctx, input.UserID, newHash); err != nil {
		return errors.Wrap(err, "failed to store new password hash")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", input.UserID))

	return nil
}

// GetCurrentUser returns the sanitized account of the given user.
func (srv *userService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "current user not found")
		}

		return nil, errors.Wrap(err, "failed to find current user")
	}

	return user.Sanitized(), nil
}

// UpdateUserDetails updates fullname and email.
func (srv *userService) UpdateUserDetails(ctx context.Context, input *usecase.UpdateUserDetailsInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found for details update")
		}

		return nil, errors.Wrap(err, "failed to find user for details update")
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}

		return nil, errors.Wrap(err, "failed to update user details")
	}

	srv.log(ctx).Debug("User details updated", slog.Any("userID", user.ID))

	return user.Sanitized(), nil
}

// UpdateAvatar stores a new avatar image and returns the updated account.
func (srv *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *usecase.MediaUpload) (*entity.User, error) {
	return srv.updateUserImage(ctx, userID, upload, "avatars", func(user *entity.User, url string) {
		user.AvatarURL = url
	})
}

// UpdateCoverImage stores a new cover image and returns the updated account.
func (srv *userService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload *usecase.MediaUpload) (*entity.User, error) {
	return srv.updateUserImage(ctx, userID, upload, "covers", func(user *entity.User, url string) {
		user.CoverImageURL = url
	})
}

func (srv *userService) updateUserImage(
	ctx context.Context,
	userID uuid.UUID,
	upload *usecase.MediaUpload,
	prefix string,
	apply func(*entity.User, string),
) (*entity.User, error) {
	if upload == nil {
		return nil, errors.Wrap(domainerrors.ErrMediaFileRequired, "image file is required")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found for image update")
		}

		return nil, errors.Wrap(err, "failed to find user for image update")
	}

	url, err := srv.uploadMedia(ctx, prefix, upload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload image")
	}

	apply(user, url)

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to store new image url")
	}

	srv.log(ctx).Debug("User image updated", slog.Any("userID", userID), slog.String("prefix", prefix))

	return user.Sanitized(), nil
}

// GetChannelProfile returns the public channel view with subscription stats
// relative to the viewer.
func (srv *userService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error) {
	channel, err := srv.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrChannelNotFound, "channel not found")
		}

		return nil, errors.Wrap(err, "failed to find channel by username")
	}

	subscriberCount, err := srv.subscriptionRepo.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count channel subscribers")
	}

	subscribedTo, err := srv.subscriptionRepo.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count subscribed channels")
	}

	isSubscribed := false
	if viewerID != uuid.Nil {
		isSubscribed, err = srv.subscriptionRepo.Exists(ctx, viewerID, channel.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check viewer subscription")
		}
	}

	return &entity.ChannelProfile{
		User:                 channel.Sanitized(),
		SubscriberCount:      subscriberCount,
		ChannelsSubscribedTo: subscribedTo,
		IsSubscribed:         isSubscribed,
	}, nil
}

// Subscribe makes the viewer follow the channel. Subscribing to oneself or to
// an already followed channel is rejected.
func (srv *userService) Subscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) error {
	channel, err := srv.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrChannelNotFound, "channel not found")
		}

		return errors.Wrap(err, "failed to find channel for subscription")
	}

	if channel.ID == viewerID {
		return errors.Wrap(domainerrors.ErrSelfSubscription, "cannot subscribe to own channel")
	}

	subscription := &entity.Subscription{
		SubscriberID: viewerID,
		ChannelID:    channel.ID,
	}

	if err := srv.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubscription) {
			return errors.Wrap(domainerrors.ErrAlreadySubscribed, "already subscribed to this channel")
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrChannelNotFound, "channel vanished during subscription")
		}

		return errors.Wrap(err, "failed to create subscription")
	}

	srv.log(ctx).Debug("Subscribed", slog.Any("viewerID", viewerID), slog.Any("channelID", channel.ID))

	return nil
}

// Unsubscribe makes the viewer stop following the channel. Unsubscribing from
// a channel that was never followed is not an error.
func (srv *userService) Unsubscribe(ctx context.Context, viewerID uuid.UUID, channelUsername string) error {
	channel, err := srv.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrChannelNotFound, "channel not found")
		}

		return errors.Wrap(err, "failed to find channel for unsubscription")
	}

	if err := srv.subscriptionRepo.Delete(ctx, viewerID, channel.ID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to delete subscription")
	}

	srv.log(ctx).Debug("Unsubscribed", slog.Any("viewerID", viewerID), slog.Any("channelID", channel.ID))

	return nil
}

// GetWatchHistory returns the videos the user watched, most recent first.
func (srv *userService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]*entity.Video, error) {
	videos, err := srv.videoRepo.FindWatchHistory(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load watch history")
	}

	return videos, nil
}

// uploadMedia stores one uploaded file under a random key and returns its public URL.
func (srv *userService) uploadMedia(ctx context.Context, prefix string, upload *usecase.MediaUpload) (string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), path.Ext(upload.FileName))

	url, err := srv.mediaStorage.Upload(ctx, key, upload.ContentType, upload.Content)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrMediaUploadFailed, err.Error())
	}

	return url, nil
}
