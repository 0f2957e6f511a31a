// Package handler contains the HTTP handlers for the application.
package handler

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/middleware"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/service"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc       usecase.UserUsecase
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	Usecase  usecase.UserUsecase
	TokenSvc service.TokenService
	Logger   *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		uc:       params.Usecase,
		tokenSvc: params.TokenSvc,
		logger:   params.Logger,
	}
}

type loginRequest struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type updateDetailsRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// formUpload converts a multipart file header into a usecase upload, opening
// the file. The caller owns the returned closer.
func formUpload(fileHeader *multipart.FileHeader) (*usecase.MediaUpload, multipart.File, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open uploaded file")
	}

	return &usecase.MediaUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     file,
	}, file, nil
}

// setSessionCookies writes both token cookies. HttpOnly keeps them away from
// scripts; SameSite limits cross-site sends.
func (h *UserHandler) setSessionCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.tokenSvc.GetAccessTokenDuration() / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.tokenSvc.GetRefreshTokenDuration() / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both token cookies.
func (h *UserHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Register handles the multipart user registration request. The avatar part is
// required, the cover image part is optional.
func (h *UserHandler) Register(c echo.Context) error {
	input := &usecase.RegisterUserInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		FullName: c.FormValue("fullname"),
		Password: c.FormValue("password"),
	}

	if avatarHeader, err := c.FormFile("avatar"); err == nil {
		upload, file, openErr := formUpload(avatarHeader)
		if openErr != nil {
			return response.BadRequest(c, "INVALID_UPLOAD", "Could not read avatar upload")
		}
		defer file.Close()
		input.Avatar = upload
	}

	if coverHeader, err := c.FormFile("cover_image"); err == nil {
		upload, file, openErr := formUpload(coverHeader)
		if openErr != nil {
			return response.BadRequest(c, "INVALID_UPLOAD", "Could not read cover image upload")
		}
		defer file.Close()
		input.CoverImage = upload
	}

	output, err := h.uc.RegisterUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User)
}

// Login authenticates by username or email and establishes the session.
// Tokens are returned both in the body and as http-only cookies.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Identity: req.Identity,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.setSessionCookies(c, output.AccessToken, output.RefreshToken)

	return response.Success(c, http.StatusOK, output)
}

// Refresh rotates the refresh credential. The token comes from the cookie, or
// from the body for clients that do not use cookies.
func (h *UserHandler) Refresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
	}

	output, err := h.uc.RefreshSession(c.Request().Context(), refreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setSessionCookies(c, output.AccessToken, output.RefreshToken)

	return response.Success(c, http.StatusOK, output)
}

// Logout clears the stored refresh reference and expires the cookies.
func (h *UserHandler) Logout(c echo.Context) error {
	userID := deliverycontext.GetCurrentUserID(c)

	if err := h.uc.Logout(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	h.clearSessionCookies(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ChangePassword verifies the old password and stores the new one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		UserID:      deliverycontext.GetCurrentUserID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed"})
}

// GetCurrentUser returns the authenticated account.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.uc.GetCurrentUser(c.Request().Context(), deliverycontext.GetCurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateDetails updates fullname and email.
func (h *UserHandler) UpdateDetails(c echo.Context) error {
	var req updateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid details input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateUserDetails(c.Request().Context(), &usecase.UpdateUserDetailsInput{
		UserID:   deliverycontext.GetCurrentUserID(c),
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateAvatar replaces the avatar image.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.uc.UpdateAvatar)
}

// UpdateCoverImage replaces the channel cover image.
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "cover_image", h.uc.UpdateCoverImage)
}

func (h *UserHandler) updateImage(
	c echo.Context,
	field string,
	update func(ctx context.Context, userID uuid.UUID, upload *usecase.MediaUpload) (*entity.User, error),
) error {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return response.BadRequest(c, "MEDIA_FILE_REQUIRED", "Image file is required")
	}

	upload, file, err := formUpload(fileHeader)
	if err != nil {
		return response.BadRequest(c, "INVALID_UPLOAD", "Could not read image upload")
	}
	defer file.Close()

	user, err := update(c.Request().Context(), deliverycontext.GetCurrentUserID(c), upload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// GetChannelProfile returns the public channel view for a username. Works for
// anonymous viewers; authenticated viewers also get their subscription flag.
func (h *UserHandler) GetChannelProfile(c echo.Context) error {
	profile, err := h.uc.GetChannelProfile(c.Request().Context(), c.Param("username"), deliverycontext.GetCurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// Subscribe makes the viewer follow the channel.
func (h *UserHandler) Subscribe(c echo.Context) error {
	err := h.uc.Subscribe(c.Request().Context(), deliverycontext.GetCurrentUserID(c), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": "Subscribed"})
}

// Unsubscribe makes the viewer stop following the channel.
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	err := h.uc.Unsubscribe(c.Request().Context(), deliverycontext.GetCurrentUserID(c), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Unsubscribed"})
}

// GetWatchHistory returns the viewer's watch history, most recent first.
func (h *UserHandler) GetWatchHistory(c echo.Context) error {
	videos, err := h.uc.GetWatchHistory(c.Request().Context(), deliverycontext.GetCurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, videos)
}
