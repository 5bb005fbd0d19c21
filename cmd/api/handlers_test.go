package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/internal/ratelimit"
	"github.com/vidtube/backend/pkg/models"
)

// fakeStore is an in-memory implementation of every store interface the
// handlers use, plus the credential-store surface the session service needs.
type fakeStore struct {
	mu             sync.Mutex
	users          map[string]*models.User
	videos         map[string]*models.Video
	comments       map[string]*models.Comment
	playlists      map[string]*models.Playlist
	playlistVideos map[string][]string
	tweets         map[string]*models.Tweet
	videoLikes     map[string]map[string]bool // userID -> videoID set
	commentLikes   map[string]map[string]bool
	tweetLikes     map[string]map[string]bool
	subscriptions  map[string]map[string]bool // subscriberID -> channelID set
	watchHistory   map[string][]string
	healthErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:          make(map[string]*models.User),
		videos:         make(map[string]*models.Video),
		comments:       make(map[string]*models.Comment),
		playlists:      make(map[string]*models.Playlist),
		playlistVideos: make(map[string][]string),
		tweets:         make(map[string]*models.Tweet),
		videoLikes:     make(map[string]map[string]bool),
		commentLikes:   make(map[string]map[string]bool),
		tweetLikes:     make(map[string]map[string]bool),
		subscriptions:  make(map[string]map[string]bool),
		watchHistory:   make(map[string][]string),
	}
}

func (f *fakeStore) summary(userID string) *models.UserSummary {
	if u, ok := f.users[userID]; ok {
		return &models.UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
	}
	return &models.UserSummary{ID: userID}
}

func copyVideo(v *models.Video) *models.Video {
	cp := *v
	return &cp
}

// UserStore / auth.UserStore

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return errs.Conflict("user with email or username already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("user does not exist")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByUsernameOrEmail(_ context.Context, identifier string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NotFound("user does not exist")
}

func (f *fakeStore) SetRefreshToken(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.RefreshToken = token
	}
	return nil
}

func (f *fakeStore) SwapRefreshToken(_ context.Context, userID, old, new string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.RefreshToken != old {
		return false, nil
	}
	u.RefreshToken = new
	return true, nil
}

func (f *fakeStore) ClearRefreshToken(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.RefreshToken = ""
	}
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeStore) UpdateAccountDetails(_ context.Context, userID, fullName, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, errs.NotFound("user does not exist")
	}
	u.FullName = fullName
	u.Email = strings.ToLower(email)
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateAvatar(_ context.Context, userID, avatar string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return "", errs.NotFound("user does not exist")
	}
	old := u.Avatar
	u.Avatar = avatar
	return old, nil
}

func (f *fakeStore) UpdateCoverImage(_ context.Context, userID, coverImage string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return "", errs.NotFound("user does not exist")
	}
	old := u.CoverImage
	u.CoverImage = coverImage
	return old, nil
}

func (f *fakeStore) GetChannelProfile(_ context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username != strings.ToLower(username) {
			continue
		}
		profile := &models.ChannelProfile{
			ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName,
			Avatar: u.Avatar, CoverImage: u.CoverImage,
		}
		for sub, channels := range f.subscriptions {
			if channels[u.ID] {
				profile.SubscriberCount++
				if sub == viewerID {
					profile.IsSubscribed = true
				}
			}
		}
		profile.SubscribedToCount = int64(len(f.subscriptions[u.ID]))
		return profile, nil
	}
	return nil, errs.NotFound("channel does not exist")
}

func (f *fakeStore) AppendWatchHistory(_ context.Context, userID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.watchHistory[userID]
	for i, id := range history {
		if id == videoID {
			history = append(history[:i], history[i+1:]...)
			break
		}
	}
	f.watchHistory[userID] = append([]string{videoID}, history...)
	return nil
}

func (f *fakeStore) GetWatchHistory(_ context.Context, userID string) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []*models.Video
	for _, id := range f.watchHistory[userID] {
		if v, ok := f.videos[id]; ok {
			cp := copyVideo(v)
			cp.Owner = f.summary(v.OwnerID)
			videos = append(videos, cp)
		}
	}
	return videos, nil
}

// VideoStore

func (f *fakeStore) CreateVideo(_ context.Context, video *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	f.videos[video.ID] = copyVideo(video)
	return nil
}

func (f *fakeStore) GetVideo(_ context.Context, id string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, errs.NotFound("video does not exist")
	}
	return copyVideo(v), nil
}

func (f *fakeStore) GetVideoView(_ context.Context, id, viewerID string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok || (!v.IsPublished && v.OwnerID != viewerID) {
		return nil, errs.NotFound("video does not exist")
	}
	cp := copyVideo(v)
	cp.Owner = f.summary(v.OwnerID)
	return cp, nil
}

func (f *fakeStore) ListVideos(_ context.Context, q query.ListQuery, viewerID string) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []*models.Video
	for _, v := range f.videos {
		if !v.IsPublished && v.OwnerID != viewerID {
			continue
		}
		if q.OwnerID != "" && v.OwnerID != q.OwnerID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(q.Search)) &&
			!strings.Contains(strings.ToLower(v.Description), strings.ToLower(q.Search)) {
			continue
		}
		cp := copyVideo(v)
		cp.Owner = f.summary(v.OwnerID)
		videos = append(videos, cp)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (f *fakeStore) UpdateVideo(_ context.Context, video *models.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.videos[video.ID]
	if !ok {
		return errs.NotFound("video does not exist")
	}
	stored.Title = video.Title
	stored.Description = video.Description
	stored.Thumbnail = video.Thumbnail
	return nil
}

func (f *fakeStore) DeleteVideo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return errs.NotFound("video does not exist")
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeStore) TogglePublishState(_ context.Context, id string) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, errs.NotFound("video does not exist")
	}
	v.IsPublished = !v.IsPublished
	return copyVideo(v), nil
}

func (f *fakeStore) IncrementViews(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return 0, errs.NotFound("video does not exist")
	}
	v.Views++
	return v.Views, nil
}

// CommentStore

func (f *fakeStore) CreateComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	f.comments[comment.ID] = &cp
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cm, ok := f.comments[id]
	if !ok {
		return nil, errs.NotFound("comment does not exist")
	}
	cp := *cm
	return &cp, nil
}

func (f *fakeStore) ListVideoComments(_ context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var comments []*models.Comment
	for _, cm := range f.comments {
		if cm.VideoID != videoID {
			continue
		}
		cp := *cm
		cp.Owner = f.summary(cm.OwnerID)
		comments = append(comments, &cp)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	if offset >= len(comments) {
		return nil, nil
	}
	comments = comments[offset:]
	if limit < len(comments) {
		comments = comments[:limit]
	}
	return comments, nil
}

func (f *fakeStore) UpdateComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.comments[comment.ID]
	if !ok {
		return errs.NotFound("comment does not exist")
	}
	stored.Content = comment.Content
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return errs.NotFound("comment does not exist")
	}
	delete(f.comments, id)
	return nil
}

// LikeStore

func toggleSet(m map[string]map[string]bool, userID, targetID string) bool {
	if m[userID] == nil {
		m[userID] = make(map[string]bool)
	}
	if m[userID][targetID] {
		delete(m[userID], targetID)
		return false
	}
	m[userID][targetID] = true
	return true
}

func (f *fakeStore) ToggleVideoLike(_ context.Context, videoID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toggleSet(f.videoLikes, userID, videoID), nil
}

func (f *fakeStore) ToggleCommentLike(_ context.Context, commentID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toggleSet(f.commentLikes, userID, commentID), nil
}

func (f *fakeStore) ToggleTweetLike(_ context.Context, tweetID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toggleSet(f.tweetLikes, userID, tweetID), nil
}

func (f *fakeStore) GetLikedVideos(_ context.Context, userID string) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []*models.Video
	for videoID := range f.videoLikes[userID] {
		if v, ok := f.videos[videoID]; ok && (v.IsPublished || v.OwnerID == userID) {
			cp := copyVideo(v)
			cp.Owner = f.summary(v.OwnerID)
			videos = append(videos, cp)
		}
	}
	return videos, nil
}

// PlaylistStore

func (f *fakeStore) CreatePlaylist(_ context.Context, playlist *models.Playlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.playlists {
		if p.OwnerID == playlist.OwnerID && p.Name == playlist.Name {
			return errs.Conflict("playlist with this name already exists")
		}
	}
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}
	cp := *playlist
	f.playlists[playlist.ID] = &cp
	return nil
}

func (f *fakeStore) GetPlaylist(_ context.Context, id string) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[id]
	if !ok {
		return nil, errs.NotFound("playlist does not exist")
	}
	cp := *p
	for _, videoID := range f.playlistVideos[id] {
		if v, ok := f.videos[videoID]; ok {
			cp.Videos = append(cp.Videos, copyVideo(v))
		}
	}
	return &cp, nil
}

func (f *fakeStore) ListUserPlaylists(_ context.Context, userID string) ([]*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var playlists []*models.Playlist
	for _, p := range f.playlists {
		if p.OwnerID == userID {
			cp := *p
			playlists = append(playlists, &cp)
		}
	}
	return playlists, nil
}

func (f *fakeStore) UpdatePlaylist(_ context.Context, playlist *models.Playlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.playlists[playlist.ID]
	if !ok {
		return errs.NotFound("playlist does not exist")
	}
	stored.Name = playlist.Name
	stored.Description = playlist.Description
	return nil
}

func (f *fakeStore) DeletePlaylist(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.playlists[id]; !ok {
		return errs.NotFound("playlist does not exist")
	}
	delete(f.playlists, id)
	delete(f.playlistVideos, id)
	return nil
}

func (f *fakeStore) AddVideoToPlaylist(_ context.Context, playlistID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.playlistVideos[playlistID] {
		if id == videoID {
			return errs.Conflict("video already in playlist")
		}
	}
	f.playlistVideos[playlistID] = append(f.playlistVideos[playlistID], videoID)
	return nil
}

func (f *fakeStore) RemoveVideoFromPlaylist(_ context.Context, playlistID, videoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range f.playlistVideos[playlistID] {
		if id == videoID {
			f.playlistVideos[playlistID] = append(f.playlistVideos[playlistID][:i], f.playlistVideos[playlistID][i+1:]...)
			return nil
		}
	}
	return errs.NotFound("video not in playlist")
}

// SubscriptionStore

func (f *fakeStore) ToggleSubscription(_ context.Context, subscriberID, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return toggleSet(f.subscriptions, subscriberID, channelID), nil
}

func (f *fakeStore) GetChannelSubscribers(_ context.Context, channelID string) ([]*models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var subscribers []*models.UserSummary
	for sub, channels := range f.subscriptions {
		if channels[channelID] {
			subscribers = append(subscribers, f.summary(sub))
		}
	}
	return subscribers, nil
}

func (f *fakeStore) GetSubscribedChannels(_ context.Context, subscriberID string) ([]*models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var channels []*models.UserSummary
	for ch := range f.subscriptions[subscriberID] {
		channels = append(channels, f.summary(ch))
	}
	return channels, nil
}

// TweetStore

func (f *fakeStore) CreateTweet(_ context.Context, tweet *models.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}
	cp := *tweet
	f.tweets[tweet.ID] = &cp
	return nil
}

func (f *fakeStore) GetTweet(_ context.Context, id string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tw, ok := f.tweets[id]
	if !ok {
		return nil, errs.NotFound("tweet does not exist")
	}
	cp := *tw
	return &cp, nil
}

func (f *fakeStore) ListUserTweets(_ context.Context, userID string) ([]*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tweets []*models.Tweet
	for _, tw := range f.tweets {
		if tw.OwnerID == userID {
			cp := *tw
			tweets = append(tweets, &cp)
		}
	}
	return tweets, nil
}

func (f *fakeStore) UpdateTweet(_ context.Context, tweet *models.Tweet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tweets[tweet.ID]
	if !ok {
		return errs.NotFound("tweet does not exist")
	}
	stored.Content = tweet.Content
	return nil
}

func (f *fakeStore) DeleteTweet(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tweets[id]; !ok {
		return errs.NotFound("tweet does not exist")
	}
	delete(f.tweets, id)
	return nil
}

// DashboardStore

func (f *fakeStore) GetChannelStats(_ context.Context, channelID string) (*models.ChannelStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.ChannelStats{}
	for _, v := range f.videos {
		if v.OwnerID != channelID {
			continue
		}
		stats.TotalVideos++
		stats.TotalViews += v.Views
		for _, liked := range f.videoLikes {
			if liked[v.ID] {
				stats.TotalLikes++
			}
		}
	}
	for _, channels := range f.subscriptions {
		if channels[channelID] {
			stats.TotalSubscribers++
		}
	}
	return stats, nil
}

func (f *fakeStore) GetChannelVideos(_ context.Context, channelID string) ([]*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var videos []*models.Video
	for _, v := range f.videos {
		if v.OwnerID == channelID {
			videos = append(videos, copyVideo(v))
		}
	}
	return videos, nil
}

// HealthChecker

func (f *fakeStore) Health(_ context.Context) error {
	return f.healthErr
}

// fakeMedia records uploads and deletes instead of touching object storage.
type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: make(map[string][]byte)}
}

func (m *fakeMedia) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return nil
}

func (m *fakeMedia) Delete(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	m.deleted = append(m.deleted, objectName)
	return nil
}

func (m *fakeMedia) GetURL(_ context.Context, objectName string) (string, error) {
	return "https://media.test/" + objectName, nil
}

// testEnv wires the full router over the fakes.
type testEnv struct {
	router *gin.Engine
	store  *fakeStore
	media  *fakeMedia
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	media := newFakeMedia()

	tokens := auth.NewTokenService(config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenTTL:    24 * time.Hour,
	})
	sessions := auth.NewService(store, tokens)

	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	api := &API{
		users:         store,
		sessions:      sessions,
		videos:        store,
		comments:      store,
		likes:         store,
		playlists:     store,
		subscriptions: store,
		tweets:        store,
		dashboard:     store,
		media:         media,
		health:        store,
		log:           log,
		cookies:       cookieConfig{secure: false, accessMaxAge: 3600, refreshMaxAge: 86400},
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	limiter := ratelimit.NewWithClient(client, 1000, time.Minute)
	api.cacheHealth = limiter

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "*"
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000

	return &testEnv{
		router: setupRouter(api, tokens, limiter, cfg),
		store:  store,
		media:  media,
		tokens: tokens,
	}
}

// seedUser registers a user directly in the store with password "secret123".
func (env *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username + " tester",
		Avatar:       "avatars/" + username + ".png",
		PasswordHash: hash,
	}
	require.NoError(t, env.store.CreateUser(context.Background(), user))
	return user
}

func (env *testEnv) seedVideo(t *testing.T, ownerID string, published bool) *models.Video {
	t.Helper()
	video := &models.Video{
		OwnerID:     ownerID,
		Title:       "a video",
		Description: "about things",
		VideoFile:   "videos/a.mp4",
		Thumbnail:   "thumbnails/a.png",
		Duration:    12.5,
		IsPublished: published,
	}
	require.NoError(t, env.store.CreateVideo(context.Background(), video))
	return video
}

func (env *testEnv) accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := env.tokens.IssueAccessToken(user)
	require.NoError(t, err)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// envelope decodes a response body into the generic envelope fields.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
