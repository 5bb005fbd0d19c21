package main

import (
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/internal/tracing"
)

func setupRouter(api *API, tokens *auth.TokenService, loginLimiter *ratelimit.Limiter, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(api.log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigin))
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))

	if cfg.Tracing.Enabled {
		router.Use(tracing.Middleware(opentracing.GlobalTracer()))
	}

	requireAuth := middleware.RequireAuth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	v1 := router.Group("/api/v1")

	v1.GET("/healthcheck", api.healthcheck)

	users := v1.Group("/users")
	{
		users.POST("/register", api.registerUser)
		users.POST("/login", middleware.CredentialRateLimit(loginLimiter, "login"), api.loginUser)
		users.POST("/refresh-token", middleware.CredentialRateLimit(loginLimiter, "refresh"), api.refreshAccessToken)
		users.POST("/logout", requireAuth, api.logoutUser)
		users.POST("/change-password", requireAuth, api.changePassword)
		users.GET("/current-user", requireAuth, api.currentUser)
		users.PATCH("/update-account", requireAuth, api.updateAccountDetails)
		users.PATCH("/avatar", requireAuth, api.updateAvatar)
		users.PATCH("/cover-image", requireAuth, api.updateCoverImage)
		users.GET("/c/:username", optionalAuth, api.channelProfile)
		users.GET("/history", requireAuth, api.watchHistory)
	}

	videos := v1.Group("/videos")
	{
		videos.GET("", optionalAuth, api.listVideos)
		videos.POST("", requireAuth, api.publishVideo)
		videos.GET("/:videoId", optionalAuth, api.getVideo)
		videos.PATCH("/:videoId", requireAuth, api.updateVideo)
		videos.DELETE("/:videoId", requireAuth, api.deleteVideo)
		videos.PATCH("/toggle/publish/:videoId", requireAuth, api.togglePublish)
	}

	comments := v1.Group("/comments")
	{
		comments.GET("/:videoId", optionalAuth, api.listComments)
		comments.POST("/:videoId", requireAuth, api.addComment)
		comments.PATCH("/c/:commentId", requireAuth, api.updateComment)
		comments.DELETE("/c/:commentId", requireAuth, api.deleteComment)
	}

	likes := v1.Group("/likes", requireAuth)
	{
		likes.POST("/toggle/v/:videoId", api.toggleVideoLike)
		likes.POST("/toggle/c/:commentId", api.toggleCommentLike)
		likes.POST("/toggle/t/:tweetId", api.toggleTweetLike)
		likes.GET("/videos", api.likedVideos)
	}

	playlists := v1.Group("/playlist", requireAuth)
	{
		playlists.POST("", api.createPlaylist)
		playlists.GET("/:playlistId", api.getPlaylist)
		playlists.PATCH("/:playlistId", api.updatePlaylist)
		playlists.DELETE("/:playlistId", api.deletePlaylist)
		playlists.PATCH("/add/:videoId/:playlistId", api.addVideoToPlaylist)
		playlists.PATCH("/remove/:videoId/:playlistId", api.removeVideoFromPlaylist)
		playlists.GET("/user/:userId", api.userPlaylists)
	}

	subscriptions := v1.Group("/subscriptions", requireAuth)
	{
		subscriptions.POST("/c/:channelId", api.toggleSubscription)
		subscriptions.GET("/c/:channelId", api.channelSubscribers)
		subscriptions.GET("/u/:subscriberId", api.subscribedChannels)
	}

	tweets := v1.Group("/tweets")
	{
		tweets.POST("", requireAuth, api.createTweet)
		tweets.GET("/user/:userId", api.userTweets)
		tweets.PATCH("/:tweetId", requireAuth, api.updateTweet)
		tweets.DELETE("/:tweetId", requireAuth, api.deleteTweet)
	}

	dashboard := v1.Group("/dashboard", requireAuth)
	{
		dashboard.GET("/stats", api.channelStats)
		dashboard.GET("/videos", api.channelVideos)
	}

	return router
}
