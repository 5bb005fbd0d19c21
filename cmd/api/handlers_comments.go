package main

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/pkg/models"
)

func (api *API) listComments(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
	if err != nil {
		respondError(c, err)
		return
	}

	q, err := query.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	// The visibility rule applies to the parent video, not individual
	// comments.
	if _, err := api.videos.GetVideoView(c.Request.Context(), videoID, viewerID); err != nil {
		respondError(c, err)
		return
	}

	comments, err := api.comments.ListVideoComments(c.Request.Context(), videoID, q.Limit, q.Offset())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"comments": comments,
		"page":     q.Page,
		"limit":    q.Limit,
	}, "comments fetched")
}

func (api *API) addComment(c *gin.Context) {
	videoID, err := pathID(c, "videoId", "video")
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

	if _, err := api.videos.GetVideoView(c.Request.Context(), videoID, userID); err != nil {
		respondError(c, err)
		return
	}

	comment := &models.Comment{
		VideoID: videoID,
		OwnerID: userID,
		Content: req.Content,
	}

	if err := api.comments.CreateComment(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, comment, "comment added")
}

func (api *API) requireCommentOwner(c *gin.Context, commentID, userID string) (*models.Comment, error) {
	comment, err := api.comments.GetComment(c.Request.Context(), commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != userID {
		return nil, errs.Forbidden("only the owner can modify this comment")
	}
	return comment, nil
}

func (api *API) updateComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId", "comment")
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

	comment, err := api.requireCommentOwner(c, commentID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	comment.Content = req.Content
	if err := api.comments.UpdateComment(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, comment, "comment updated")
}

func (api *API) deleteComment(c *gin.Context) {
	commentID, err := pathID(c, "commentId", "comment")
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.GetUserID(c)

	if _, err := api.requireCommentOwner(c, commentID, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := api.comments.DeleteComment(c.Request.Context(), commentID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"commentId": commentID}, "comment deleted")
}
