// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"vidhub/internal/delivery/http/middleware"
	"vidhub/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	VideoHandler    *handler.VideoHandler
	PlaylistHandler *handler.PlaylistHandler
	FeedHandler     *handler.FeedHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	videoHandler    *handler.VideoHandler
	playlistHandler *handler.PlaylistHandler
	feedHandler     *handler.FeedHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		videoHandler:    params.VideoHandler,
		playlistHandler: params.PlaylistHandler,
		feedHandler:     params.FeedHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.Refresh)
		authGroup.POST("/logout", r.userHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.POST("/change-password", r.userHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// User routes that require authentication
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.GetCurrentUser)
		userGroup.PATCH("/me", r.userHandler.UpdateDetails)
		userGroup.PUT("/me/avatar", r.userHandler.UpdateAvatar)
		userGroup.PUT("/me/cover", r.userHandler.UpdateCoverImage)
		userGroup.GET("/me/history", r.userHandler.GetWatchHistory)
		userGroup.GET("/me/feed", r.feedHandler.GetFeed)
	}

	// Channel routes are public; the viewer, when authenticated, affects the
	// subscription flag in the response.
	channelGroup := e.Group("/channels")
	{
		channelGroup.GET("/:username", r.userHandler.GetChannelProfile, r.authMiddleware.AuthenticateOptional)
		channelGroup.GET("/:username/videos", r.videoHandler.ListChannelVideos)
		channelGroup.POST("/:username/subscribe", r.userHandler.Subscribe, r.authMiddleware.Authenticate)
		channelGroup.DELETE("/:username/subscribe", r.userHandler.Unsubscribe, r.authMiddleware.Authenticate)
	}

	// Video routes
	videoGroup := e.Group("/videos")
	{
		videoGroup.POST("", r.videoHandler.Publish, r.authMiddleware.Authenticate)
		videoGroup.GET("/:videoID", r.videoHandler.Get, r.authMiddleware.AuthenticateOptional)
		videoGroup.PATCH("/:videoID", r.videoHandler.Update, r.authMiddleware.Authenticate)
	}

	// Playlist routes
	playlistGroup := e.Group("/playlists")
	{
		playlistGroup.POST("", r.playlistHandler.Create, r.authMiddleware.Authenticate)
		playlistGroup.GET("/mine", r.playlistHandler.ListMine, r.authMiddleware.Authenticate)
		playlistGroup.GET("/:playlistID", r.playlistHandler.Get)
		playlistGroup.PATCH("/:playlistID", r.playlistHandler.Update, r.authMiddleware.Authenticate)
		playlistGroup.DELETE("/:playlistID", r.playlistHandler.Delete, r.authMiddleware.Authenticate)
		playlistGroup.POST("/:playlistID/videos/:videoID", r.playlistHandler.AddVideo, r.authMiddleware.Authenticate)
		playlistGroup.DELETE("/:playlistID/videos/:videoID", r.playlistHandler.RemoveVideo, r.authMiddleware.Authenticate)
		playlistGroup.GET("/:playlistID/share", r.playlistHandler.Share)
	}
}
