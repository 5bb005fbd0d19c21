package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/pkg/models"
)

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, "POST", "/api/v1/users/register", "",
		map[string]string{
			"fullName": "Alice Cooper",
			"email":    "Alice@Example.com",
			"username": "Alice",
			"password": "secret123",
		},
		map[string]string{"avatar": "face.png"},
	)

	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.Avatar)
	assert.NotContains(t, w.Body.String(), "secret123")

	// The new account can log in immediately.
	login := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, login.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	w := env.doMultipart(t, "POST", "/api/v1/users/register", "",
		map[string]string{
			"fullName": "Another Alice",
			"email":    "alice@example.com",
			"username": "alice",
			"password": "secret123",
		},
		map[string]string{"avatar": "face.png"},
	)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterMissingAvatar(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, "POST", "/api/v1/users/register", "",
		map[string]string{
			"fullName": "Alice",
			"email":    "alice@example.com",
			"username": "alice",
			"password": "secret123",
		},
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterBlankFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.doMultipart(t, "POST", "/api/v1/users/register", "",
		map[string]string{
			"fullName": "Alice",
			"email":    "",
			"username": "alice",
			"password": "secret123",
		},
		map[string]string{"avatar": "face.png"},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	w := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		AccessToken  string       `json:"accessToken"`
		RefreshToken string       `json:"refreshToken"`
		User         *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.Equal(t, user.ID, data.User.ID)

	// Credential material never appears in the body.
	assert.NotContains(t, w.Body.String(), "passwordHash")

	cookies := w.Result().Cookies()
	names := map[string]*http.Cookie{}
	for _, ck := range cookies {
		names[ck.Name] = ck
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
	assert.True(t, names["accessToken"].HttpOnly)
	assert.True(t, names["refreshToken"].HttpOnly)
}

func TestLoginByEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "bob")

	w := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	w := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid user credentials", resp.Message)
	assert.NotNil(t, resp.Errors)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "ghost",
		"password": "secret123",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	login := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var loginData struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, login).Data, &loginData))

	// First refresh succeeds and rotates the stored token.
	first := env.doJSON(t, "POST", "/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": loginData.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, first.Code)

	// Replaying the consumed token is rejected.
	replay := env.doJSON(t, "POST", "/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": loginData.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, replay.Code)
	assert.Equal(t, "refresh token is expired or used", decodeEnvelope(t, replay).Message)
}

func TestRefreshAfterLogout(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	login := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, login.Code)

	var loginData struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, login).Data, &loginData))

	logout := env.doJSON(t, "POST", "/api/v1/users/logout", env.accessToken(t, user), nil)
	require.Equal(t, http.StatusOK, logout.Code)

	refresh := env.doJSON(t, "POST", "/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": loginData.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")
	token := env.accessToken(t, user)

	w := env.doJSON(t, "POST", "/api/v1/users/change-password", token, map[string]string{
		"oldPassword": "secret123",
		"newPassword": "evenbetter456",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works, new one does.
	old := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := env.doJSON(t, "POST", "/api/v1/users/login", "", map[string]string{
		"username": "alice", "password": "evenbetter456",
	})
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestChangePasswordWrongOld(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	w := env.doJSON(t, "POST", "/api/v1/users/change-password", env.accessToken(t, user), map[string]string{
		"oldPassword": "nope",
		"newPassword": "evenbetter456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	w := env.doJSON(t, "GET", "/api/v1/users/current-user", env.accessToken(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, user.ID, data.ID)
	assert.Equal(t, "alice", data.Username)
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, "GET", "/api/v1/users/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAccountDetails(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	w := env.doJSON(t, "PATCH", "/api/v1/users/update-account", env.accessToken(t, user), map[string]string{
		"fullName": "Alice Cooper",
		"email":    "alice.cooper@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "Alice Cooper", data.FullName)
	assert.Equal(t, "alice.cooper@example.com", data.Email)
}

func TestUpdateAccountDetailsBlankFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	w := env.doJSON(t, "PATCH", "/api/v1/users/update-account", env.accessToken(t, user), map[string]string{
		"fullName": "  ",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChannelProfile(t *testing.T) {
	env := newTestEnv(t)
	channel := env.seedUser(t, "creator")
	viewer := env.seedUser(t, "viewer")

	// Viewer subscribes, then fetches the profile.
	sub := env.doJSON(t, "POST", "/api/v1/subscriptions/c/"+channel.ID, env.accessToken(t, viewer), nil)
	require.Equal(t, http.StatusOK, sub.Code)

	w := env.doJSON(t, "GET", "/api/v1/users/c/creator", env.accessToken(t, viewer), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.ChannelProfile
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &profile))
	assert.Equal(t, int64(1), profile.SubscriberCount)
	assert.True(t, profile.IsSubscribed)
}

func TestChannelProfileNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, "GET", "/api/v1/users/c/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWatchHistoryRecordedOnView(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "creator")
	viewer := env.seedUser(t, "viewer")
	video := env.seedVideo(t, owner.ID, true)

	view := env.doJSON(t, "GET", "/api/v1/videos/"+video.ID, env.accessToken(t, viewer), nil)
	require.Equal(t, http.StatusOK, view.Code)

	w := env.doJSON(t, "GET", "/api/v1/users/history", env.accessToken(t, viewer), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history []*models.Video
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, video.ID, history[0].ID)
}
