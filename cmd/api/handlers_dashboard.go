package main

import (
	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/middleware"
)

// channelStats returns the caller's channel aggregates. The dashboard is
// always scoped to the authenticated user.
func (api *API) channelStats(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	stats, err := api.dashboard.GetChannelStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, stats, "channel stats fetched")
}

func (api *API) channelVideos(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	videos, err := api.dashboard.GetChannelVideos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, videos, "channel videos fetched")
}
