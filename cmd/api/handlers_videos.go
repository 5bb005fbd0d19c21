package main

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/pkg/models"
)

func (api *API) listVideos(c *gin.Context) {
	q, err := query.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	videos, err := api.videos.ListVideos(c.Request.Context(), q, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"videos": videos,
		"page":   q.Page,
		"limit":  q.Limit,
	}, "videos fetched")
}

func (api *API) publishVideo(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		respondError(c, errs.InvalidArgument("title and description are required"))
		return
	}

	duration, err := strconv.ParseFloat(c.PostForm("duration"), 64)
	if err != nil || duration < 0 {
		respondError(c, errs.InvalidArgument("duration must be a non-negative number"))
		return
	}

	videoFile, err := api.uploadFormFile(c, "videoFile", storage.KindVideo, true)
	if err != nil {
		respondError(c, err)
		return
	}
	thumbnail, err := api.uploadFormFile(c, "thumbnail", storage.KindThumbnail, true)
	if err != nil {
		api.deleteMedia(c, videoFile)
		respondError(c, err)
		return
	}

	video := &models.Video{
		OwnerID:     userID,
		Title:       title,
		Description: description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
		Duration:    duration,
		IsPublished: true,
	}

	if err := api.videos.CreateVideo(c.Request.Context(), video); err != nil {
		api.deleteMedia(c, videoFile)
		api.deleteMedia(c, thumbnail)
		respondError(c, err)
		return
	}

	respondCreated(c, video, "video published successfully")
}

func (api *API) getVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	video, err := api.videos.GetVideoView(c.Request.Context(), videoID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	// A fetch counts as a view; authenticated viewers also get the video
	// recorded in their watch history.
	views, err := api.videos.IncrementViews(c.Request.Context(), videoID)
	if err == nil {
		video.Views = views
		metrics.VideoViewsTotal.Inc()
	}
	if viewerID != "" {
		if err := api.users.AppendWatchHistory(c.Request.Context(), viewerID, videoID); err != nil {
			api.log.WithUserID(viewerID).ErrorWithErr("failed to record watch history", err)
		}
	}

	respondOK(c, video, "video fetched")
}

// requireVideoOwner loads the video and verifies the caller owns it.
func (api *API) requireVideoOwner(c *gin.Context, videoID, userID string) (*models.Video, error) {
	video, err := api.videos.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, errs.Forbidden("only the owner can modify this video")
	}
	return video, nil
}

func (api *API) updateVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	video, err := api.requireVideoOwner(c, videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		respondError(c, errs.InvalidArgument("title and description are required"))
		return
	}

	newThumbnail, err := api.uploadFormFile(c, "thumbnail", storage.KindThumbnail, false)
	if err != nil {
		respondError(c, err)
		return
	}

	oldThumbnail := video.Thumbnail
	video.Title = title
	video.Description = description
	if newThumbnail != "" {
		video.Thumbnail = newThumbnail
	}

	if err := api.videos.UpdateVideo(c.Request.Context(), video); err != nil {
		api.deleteMedia(c, newThumbnail)
		respondError(c, err)
		return
	}
	if newThumbnail != "" {
		api.deleteMedia(c, oldThumbnail)
	}

	respondOK(c, video, "video updated")
}

func (api *API) deleteVideo(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	video, err := api.requireVideoOwner(c, videoID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := api.videos.DeleteVideo(c.Request.Context(), videoID); err != nil {
		respondError(c, err)
		return
	}

	api.deleteMedia(c, video.VideoFile)
	api.deleteMedia(c, video.Thumbnail)

	respondOK(c, gin.H{"videoId": videoID}, "video deleted")
}

func (api *API) togglePublish(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requireVideoOwner(c, videoID, userID); err != nil {
		respondError(c, err)
		return
	}

	video, err := api.videos.TogglePublishState(c.Request.Context(), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, video, "publish state toggled")
}
