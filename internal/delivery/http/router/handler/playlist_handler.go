package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// PlaylistHandler holds dependencies for playlist-related handlers.
type PlaylistHandler struct {
	uc     usecase.PlaylistUsecase
	logger *slog.Logger
}

// PlaylistHandlerParams holds dependencies for PlaylistHandler, injected by Fx.
type PlaylistHandlerParams struct {
	fx.In

	Usecase usecase.PlaylistUsecase
	Logger  *slog.Logger
}

// NewPlaylistHandler is the constructor for PlaylistHandler.
func NewPlaylistHandler(params PlaylistHandlerParams) *PlaylistHandler {
	return &PlaylistHandler{
		uc:     params.Usecase,
		logger: params.Logger,
	}
}

type createPlaylistRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type sharePlaylistResponse struct {
	ShareURL string `json:"share_url"`
	QRCode   []byte `json:"qr_code"`
}

func playlistIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("playlistID"))
}

// Create creates a playlist owned by the authenticated user.
func (h *PlaylistHandler) Create(c echo.Context) error {
	var req createPlaylistRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid playlist input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	playlist, err := h.uc.CreatePlaylist(c.Request().Context(), &usecase.CreatePlaylistInput{
		OwnerID:     deliverycontext.GetCurrentUserID(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, playlist)
}

// Get returns a playlist with its member videos in insertion order.
func (h *PlaylistHandler) Get(c echo.Context) error {
	playlistID, err := playlistIDParam(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist ID")
	}

	playlist, err := h.uc.GetPlaylist(c.Request().Context(), playlistID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, playlist)
}

// ListMine returns the authenticated user's playlists, newest first.
func (h *PlaylistHandler) ListMine(c echo.Context) error {
	playlists, err := h.uc.ListUserPlaylists(c.Request().Context(), deliverycontext.GetCurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, playlists)
}

// Update renames a playlist or changes its description.
func (h *PlaylistHandler) Update(c echo.Context) error {
	playlistID, err := playlistIDParam(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist ID")
	}

	var req updatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid playlist input")
	}

	playlist, err := h.uc.UpdatePlaylist(c.Request().Context(), &usecase.UpdatePlaylistInput{
		RequesterID: deliverycontext.GetCurrentUserID(c),
		PlaylistID:  playlistID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, playlist)
}

// Delete removes a playlist and its memberships.
func (h *PlaylistHandler) Delete(c echo.Context) error {
	playlistID, err := playlistIDParam(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist ID")
	}

	err = h.uc.DeletePlaylist(c.Request().Context(), deliverycontext.GetCurrentUserID(c), playlistID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Playlist deleted"})
}

// AddVideo appends a video to the end of the playlist.
func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	input, err := h.membershipInput(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist or video ID")
	}

	if err := h.uc.AddVideo(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": "Video added"})
}

// RemoveVideo removes a video from the playlist.
func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	input, err := h.membershipInput(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist or video ID")
	}

	if err := h.uc.RemoveVideo(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Video removed"})
}

// Share returns the share link and QR code image for a playlist.
func (h *PlaylistHandler) Share(c echo.Context) error {
	playlistID, err := playlistIDParam(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid playlist ID")
	}

	output, err := h.uc.SharePlaylist(c.Request().Context(), playlistID)
	if err != nil {
		return errors.WithStack(err)
	}

	// Image clients can request the raw PNG directly.
	if c.QueryParam("format") == "png" {
		return c.Blob(http.StatusOK, "image/png", output.QRCode)
	}

	return response.Success(c, http.StatusOK, sharePlaylistResponse{
		ShareURL: output.ShareURL,
		QRCode:   output.QRCode,
	})
}

func (h *PlaylistHandler) membershipInput(c echo.Context) (*usecase.PlaylistVideoInput, error) {
	playlistID, err := playlistIDParam(c)
	if err != nil {
		return nil, err
	}

	videoID, err := uuid.Parse(c.Param("videoID"))
	if err != nil {
		return nil, err
	}

	return &usecase.PlaylistVideoInput{
		RequesterID: deliverycontext.GetCurrentUserID(c),
		PlaylistID:  playlistID,
		VideoID:     videoID,
	}, nil
}
