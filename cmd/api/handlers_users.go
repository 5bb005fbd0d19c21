package main

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/metrics"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/storage"
	"github.com/vidtube/backend/pkg/models"
)

// uploadFormFile streams one multipart file into object storage and returns
// the object key. required decides whether a missing file is an error.
func (api *API) uploadFormFile(c *gin.Context, field string, kind storage.Kind, required bool) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if required {
			return "", errs.InvalidArgument(field + " file is required")
		}
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", errs.Internal("failed to read uploaded file", err)
	}
	defer src.Close()

	objectName := storage.ObjectName(kind, file.Filename)
	start := time.Now()
	err = api.media.Upload(c.Request.Context(), objectName, src, file.Size, storage.ContentType(file.Filename))
	if err != nil {
		metrics.RecordStorageOperation("upload", "failure", time.Since(start).Seconds())
		return "", errs.Internal("failed to upload "+field, err)
	}
	metrics.RecordStorageOperation("upload", "success", time.Since(start).Seconds())
	metrics.RecordMediaUpload(string(kind), file.Size)

	return objectName, nil
}

// deleteMedia removes a stored object, logging instead of failing the request
// when cleanup does not succeed.
func (api *API) deleteMedia(c *gin.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := api.media.Delete(c.Request.Context(), objectName); err != nil {
		api.log.WithField("object", objectName).ErrorWithErr("failed to delete media object", err)
	}
}

func pathID(c *gin.Context, param, label string) (string, error) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.InvalidArgument("invalid " + label + " id")
	}
	return id, nil
}

func (api *API) registerUser(c *gin.Context) {
	fullName := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(c, errs.InvalidArgument("all fields are required"))
		return
	}

	avatar, err := api.uploadFormFile(c, "avatar", storage.KindAvatar, true)
	if err != nil {
		respondError(c, err)
		return
	}
	coverImage, err := api.uploadFormFile(c, "coverImage", storage.KindCover, false)
	if err != nil {
		api.deleteMedia(c, avatar)
		respondError(c, err)
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		respondError(c, errs.Internal("failed to hash password", err))
		return
	}

	user := &models.User{
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(email),
		FullName:     fullName,
		Avatar:       avatar,
		CoverImage:   coverImage,
		PasswordHash: passwordHash,
	}

	if err := api.users.CreateUser(c.Request.Context(), user); err != nil {
		api.deleteMedia(c, avatar)
		api.deleteMedia(c, coverImage)
		respondError(c, err)
		return
	}

	api.log.LogAuthEvent("register", user.ID, true)
	respondCreated(c, user.Sanitize(), "user registered successfully")
}

func (api *API) loginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	session, err := api.sessions.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		metrics.RecordLogin(false)
		api.log.LogAuthEvent("login", identifier, false)
		respondError(c, err)
		return
	}

	metrics.RecordLogin(true)
	api.log.LogAuthEvent("login", session.User.ID, true)
	api.setAuthCookies(c, session.AccessToken, session.RefreshToken)
	respondOK(c, session, "user logged in successfully")
}

func (api *API) refreshAccessToken(c *gin.Context) {
	incoming, _ := c.Cookie(refreshTokenCookie)
	if incoming == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	session, err := api.sessions.Refresh(c.Request.Context(), incoming)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		respondError(c, err)
		return
	}

	metrics.RecordTokenRefresh(true)
	api.setAuthCookies(c, session.AccessToken, session.RefreshToken)
	respondOK(c, gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, "access token refreshed")
}

func (api *API) logoutUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := api.sessions.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	api.log.LogAuthEvent("logout", userID, true)
	api.clearAuthCookies(c)
	respondOK(c, gin.H{}, "user logged out")
}

func (api *API) changePassword(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		respondError(c, errs.InvalidArgument("old and new password are required"))
		return
	}

	user, err := api.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		respondError(c, errs.InvalidArgument("invalid old password"))
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, errs.Internal("failed to hash password", err))
		return
	}

	if err := api.users.UpdatePassword(c.Request.Context(), userID, passwordHash); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{}, "password changed successfully")
}

func (api *API) currentUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := api.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, user.Sanitize(), "current user fetched")
}

func (api *API) updateAccountDetails(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.InvalidArgument("invalid request body"))
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" {
		respondError(c, errs.InvalidArgument("fullName and email are required"))
		return
	}

	user, err := api.users.UpdateAccountDetails(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, user.Sanitize(), "account details updated")
}

func (api *API) updateAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	avatar, err := api.uploadFormFile(c, "avatar", storage.KindAvatar, true)
	if err != nil {
		respondError(c, err)
		return
	}

	old, err := api.users.UpdateAvatar(c.Request.Context(), userID, avatar)
	if err != nil {
		api.deleteMedia(c, avatar)
		respondError(c, err)
		return
	}
	api.deleteMedia(c, old)

	user, err := api.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, user.Sanitize(), "avatar updated")
}

func (api *API) updateCoverImage(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	coverImage, err := api.uploadFormFile(c, "coverImage", storage.KindCover, true)
	if err != nil {
		respondError(c, err)
		return
	}

	old, err := api.users.UpdateCoverImage(c.Request.Context(), userID, coverImage)
	if err != nil {
		api.deleteMedia(c, coverImage)
		respondError(c, err)
		return
	}
	api.deleteMedia(c, old)

	user, err := api.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, user.Sanitize(), "cover image updated")
}

func (api *API) channelProfile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		respondError(c, errs.InvalidArgument("username is required"))
		return
	}

	viewerID, _ := middleware.GetUserID(c)

	profile, err := api.users.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, profile, "channel profile fetched")
}

func (api *API) watchHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	videos, err := api.users.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, videos, "watch history fetched")
}
