package main

import (
	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/middleware"
)

func (api *API) toggleVideoLike(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	// Liking requires the target to be visible to the caller.
	if _, err := api.videos.GetVideoView(c.Request.Context(), videoID, userID); err != nil {
		respondError(c, err)
		return
	}

	liked, err := api.likes.ToggleVideoLike(c.Request.Context(), videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordLikeToggle("video", liked)
	respondOK(c, gin.H{"liked": liked}, "video like toggled")
}

func (api *API) toggleCommentLike(c *gin.Context) {
	commentID, err := pathID(c, "commentId", "comment")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.comments.GetComment(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}

	liked, err := api.likes.ToggleCommentLike(c.Request.Context(), commentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordLikeToggle("comment", liked)
	respondOK(c, gin.H{"liked": liked}, "comment like toggled")
}

func (api *API) toggleTweetLike(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId", "tweet")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.tweets.GetTweet(c.Request.Context(), tweetID); err != nil {
		respondError(c, err)
		return
	}

	liked, err := api.likes.ToggleTweetLike(c.Request.Context(), tweetID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordLikeToggle("tweet", liked)
	respondOK(c, gin.H{"liked": liked}, "tweet like toggled")
}

func (api *API) likedVideos(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	videos, err := api.likes.GetLikedVideos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, videos, "liked videos fetched")
}
