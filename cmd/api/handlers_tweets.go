package main

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/pkg/models"
)

func (api *API) createTweet(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(c, errs.InvalidArgument("content is required"))
		return
	}

	tweet := &models.Tweet{
		OwnerID: userID,
		Content: req.Content,
	}

	if err := api.tweets.CreateTweet(c.Request.Context(), tweet); err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, tweet, "tweet created")
}

func (api *API) userTweets(c *gin.Context) {
	userID, err := pathID(c, "userId", "user")
	if err != nil {
		respondError(c, err)
		return
	}

	tweets, err := api.tweets.ListUserTweets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, tweets, "tweets fetched")
}

func (api *API) requireTweetOwner(c *gin.Context, tweetID, userID string) (*models.Tweet, error) {
	tweet, err := api.tweets.GetTweet(c.Request.Context(), tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != userID {
		return nil, errs.Forbidden("only the owner can modify this tweet")
	}
	return tweet, nil
}

func (api *API) updateTweet(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId", "tweet")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		respondError(c, errs.InvalidArgument("content is required"))
		return
	}

	tweet, err := api.requireTweetOwner(c, tweetID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	tweet.Content = req.Content
	if err := api.tweets.UpdateTweet(c.Request.Context(), tweet); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, tweet, "tweet updated")
}

func (api *API) deleteTweet(c *gin.Context) {
	tweetID, err := pathID(c, "tweetId", "tweet")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requireTweetOwner(c, tweetID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := api.tweets.DeleteTweet(c.Request.Context(), tweetID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"tweetId": tweetID}, "tweet deleted")
}
