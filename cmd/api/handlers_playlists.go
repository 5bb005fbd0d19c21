package main

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/pkg/models"
)

func (api *API) createPlaylist(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, errs.InvalidArgument("name is required"))
		return
	}

	playlist := &models.Playlist{
		OwnerID:     userID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := api.playlists.CreatePlaylist(c.Request.Context(), playlist); err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, playlist, "playlist created")
}

func (api *API) getPlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId", "playlist")
	if err != nil {
		respondError(c, err)
		return
	}

	playlist, err := api.playlists.GetPlaylist(c.Request.Context(), playlistID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, playlist, "playlist fetched")
}

func (api *API) userPlaylists(c *gin.Context) {
	userID, err := pathID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}

	playlists, err := api.playlists.ListUserPlaylists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, playlists, "playlists fetched")
}

func (api *API) requirePlaylistOwner(c *gin.Context, playlistID, userID string) (*models.Playlist, error) {
	playlist, err := api.playlists.GetPlaylist(c.Request.Context(), playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		return nil, errs.Forbidden("only the owner can modify this playlist")
	}
	return playlist, nil
}

func (api *API) updatePlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId", "playlist")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(c, errs.InvalidArgument("name is required"))
		return
	}

	playlist, err := api.requirePlaylistOwner(c, playlistID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	playlist.Name = req.Name
	playlist.Description = strings.TrimSpace(req.Description)
	if err := api.playlists.UpdatePlaylist(c.Request.Context(), playlist); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, playlist, "playlist updated")
}

func (api *API) deletePlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId", "playlist")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requirePlaylistOwner(c, playlistID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := api.playlists.DeletePlaylist(c.Request.Context(), playlistID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID}, "playlist deleted")
}

func (api *API) addVideoToPlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId", "playlist")
	if err != nil {
		respondError(c, err)
		return
	}
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requirePlaylistOwner(c, playlistID, userID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := api.videos.GetVideoView(c.Request.Context(), videoID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := api.playlists.AddVideoToPlaylist(c.Request.Context(), playlistID, videoID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID, "videoId": videoID}, "video added to playlist")
}

func (api *API) removeVideoFromPlaylist(c *gin.Context) {
	playlistID, err := pathID(c, "playlistId", "playlist")
	if err != nil {
		respondError(c, err)
		return
	}
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requirePlaylistOwner(c, playlistID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := api.playlists.RemoveVideoFromPlaylist(c.Request.Context(), playlistID, videoID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID, "videoId": videoID}, "video removed from playlist")
}
