package main

import (
	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/middleware"
)

func (api *API) toggleSubscription(c *gin.Context) {
	channelID, err := pathID(c, "channelId", "channel")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if channelID == userID {
		respondError(c, errs.InvalidArgument("cannot subscribe to your own channel"))
		return
	}

	if _, err := api.users.GetUserByID(c.Request.Context(), channelID); err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := api.subscriptions.ToggleSubscription(c.Request.Context(), userID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordSubscriptionToggle(subscribed)
	respondOK(c, gin.H{"subscribed": subscribed}, "subscription toggled")
}

func (api *API) channelSubscribers(c *gin.Context) {
	channelID, err := pathID(c, "channelId", "channel")
	if err != nil {
		respondError(c, err)
		return
	}

	subscribers, err := api.subscriptions.GetChannelSubscribers(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, subscribers, "subscribers fetched")
}

func (api *API) subscribedChannels(c *gin.Context) {
	subscriberID, err := pathID(c, "subscriberId", "subscriber")
	if err != nil {
		respondError(c, err)
		return
	}

	channels, err := api.subscriptions.GetSubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, channels, "subscribed channels fetched")
}
