package main

import (
	"context"
	"io"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/pkg/models"
)

// The handler layer talks to storage through these interfaces so tests can
// substitute in-memory fakes. *database.Repository satisfies all of them.

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatar string) (string, error)
	UpdateCoverImage(ctx context.Context, userID, coverImage string) (string, error)
	GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	AppendWatchHistory(ctx context.Context, userID, videoID string) error
	GetWatchHistory(ctx context.Context, userID string) ([]*models.Video, error)
}

// SessionService drives the login, refresh and logout flows.
type SessionService interface {
	Login(ctx context.Context, identifier, password string) (*auth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
	Logout(ctx context.Context, userID string) error
}

// VideoStore captures persistence for the video handlers.
type VideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	GetVideoView(ctx context.Context, id, viewerID string) (*models.Video, error)
	ListVideos(ctx context.Context, q query.ListQuery, viewerID string) ([]*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	DeleteVideo(ctx context.Context, id string) error
	TogglePublishState(ctx context.Context, id string) (*models.Video, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
}

// CommentStore captures persistence for the comment handlers.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListVideoComments(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
}

// LikeStore captures persistence for the like handlers.
type LikeStore interface {
	ToggleVideoLike(ctx context.Context, videoID, userID string) (bool, error)
	ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error)
	ToggleTweetLike(ctx context.Context, tweetID, userID string) (bool, error)
	GetLikedVideos(ctx context.Context, userID string) ([]*models.Video, error)
}

// PlaylistStore captures persistence for the playlist handlers.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error
}

// SubscriptionStore captures persistence for the subscription handlers.
type SubscriptionStore interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	GetChannelSubscribers(ctx context.Context, channelID string) ([]*models.UserSummary, error)
	GetSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.UserSummary, error)
}

// TweetStore captures persistence for the tweet handlers.
type TweetStore interface {
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweet(ctx context.Context, id string) (*models.Tweet, error)
	ListUserTweets(ctx context.Context, userID string) ([]*models.Tweet, error)
	UpdateTweet(ctx context.Context, tweet *models.Tweet) error
	DeleteTweet(ctx context.Context, id string) error
}

// DashboardStore captures the channel aggregates.
type DashboardStore interface {
	GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error)
	GetChannelVideos(ctx context.Context, channelID string) ([]*models.Video, error)
}

// MediaStore captures object storage for uploaded media.
type MediaStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	GetURL(ctx context.Context, objectName string) (string, error)
}

// HealthChecker reports datastore liveness for the healthcheck endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}
