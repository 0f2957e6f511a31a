package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// VideoHandler holds dependencies for video-related handlers.
type VideoHandler struct {
	uc     usecase.VideoUsecase
	logger *slog.Logger
}

// VideoHandlerParams holds dependencies for VideoHandler, injected by Fx.
type VideoHandlerParams struct {
	fx.In

	Usecase usecase.VideoUsecase
	Logger  *slog.Logger
}

// NewVideoHandler is the constructor for VideoHandler.
func NewVideoHandler(params VideoHandlerParams) *VideoHandler {
	return &VideoHandler{
		uc:     params.Usecase,
		logger: params.Logger,
	}
}

// Publish handles the multipart video upload. Both the video file and the
// thumbnail are required.
func (h *VideoHandler) Publish(c echo.Context) error {
	input := &usecase.PublishVideoInput{
		OwnerID:     deliverycontext.GetCurrentUserID(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if rawDuration := c.FormValue("duration"); rawDuration != "" {
		seconds, err := strconv.ParseFloat(rawDuration, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Duration must be a number of seconds")
		}
		input.Duration = seconds
	}

	if videoHeader, err := c.FormFile("video"); err == nil {
		upload, file, openErr := formUpload(videoHeader)
		if openErr != nil {
			return response.BadRequest(c, "INVALID_UPLOAD", "Could not read video upload")
		}
		defer file.Close()
		input.VideoFile = upload
	}

	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		upload, file, openErr := formUpload(thumbHeader)
		if openErr != nil {
			return response.BadRequest(c, "INVALID_UPLOAD", "Could not read thumbnail upload")
		}
		defer file.Close()
		input.Thumbnail = upload
	}

	output, err := h.uc.PublishVideo(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.Video)
}

// Get returns a single video. Authenticated viewers have the view counted and
// the video added to their watch history.
func (h *VideoHandler) Get(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("videoID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid video ID")
	}

	video, err := h.uc.GetVideo(c.Request().Context(), videoID, deliverycontext.GetCurrentUserID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, video)
}

// Update edits video metadata. Only the owner may update; the thumbnail part
// is optional.
func (h *VideoHandler) Update(c echo.Context) error {
	videoID, err := uuid.Parse(c.Param("videoID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid video ID")
	}

	input := &usecase.UpdateVideoInput{
		RequesterID: deliverycontext.GetCurrentUserID(c),
		VideoID:     videoID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		upload, file, openErr := formUpload(thumbHeader)
		if openErr != nil {
			return response.BadRequest(c, "INVALID_UPLOAD", "Could not read thumbnail upload")
		}
		defer file.Close()
		input.Thumbnail = upload
	}

	video, err := h.uc.UpdateVideo(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, video)
}

// ListChannelVideos returns the published videos of a channel, newest first.
func (h *VideoHandler) ListChannelVideos(c echo.Context) error {
	videos, err := h.uc.ListChannelVideos(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, videos)
}
