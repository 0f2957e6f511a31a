package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "vidhub/internal/delivery/context"
	"vidhub/internal/delivery/http/response"
	"vidhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// FeedHandler serves the subscriber feed.
type FeedHandler struct {
	uc     usecase.FeedUsecase
	logger *slog.Logger
}

// FeedHandlerParams holds dependencies for FeedHandler, injected by Fx.
type FeedHandlerParams struct {
	fx.In

	Usecase usecase.FeedUsecase
	Logger  *slog.Logger
}

// NewFeedHandler is the constructor for FeedHandler.
func NewFeedHandler(params FeedHandlerParams) *FeedHandler {
	return &FeedHandler{
		uc:     params.Usecase,
		logger: params.Logger,
	}
}

// GetFeed returns the videos published by channels the user subscribes to,
// newest first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit := 0
	if rawLimit := c.QueryParam("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "INVALID_INPUT", "Limit must be a non-negative integer")
		}
		limit = parsed
	}

	videos, err := h.uc.GetFeed(c.Request().Context(), deliverycontext.GetCurrentUserID(c), limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, videos)
}
