package models

import (
	"time"
)

// Video represents an uploaded video and its publish state.
type Video struct {
	ID          string       `json:"id" db:"id"`
	OwnerID     string       `json:"ownerId" db:"owner_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	VideoFile   string       `json:"videoFile" db:"video_file"`
	Thumbnail   string       `json:"thumbnail" db:"thumbnail"`
	Duration    float64      `json:"duration" db:"duration"`
	Views       int64        `json:"views" db:"views"`
	IsPublished bool         `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
	Owner       *UserSummary `json:"owner,omitempty" db:"-"`
}

// Comment is a user comment on a video.
type Comment struct {
	ID        string       `json:"id" db:"id"`
	VideoID   string       `json:"videoId" db:"video_id"`
	OwnerID   string       `json:"ownerId" db:"owner_id"`
	Content   string       `json:"content" db:"content"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt" db:"updated_at"`
	Owner     *UserSummary `json:"owner,omitempty" db:"-"`
}

// Like is an existence record: exactly one of VideoID, CommentID or TweetID
// is set, keyed together with LikedBy.
type Like struct {
	ID        string    `json:"id" db:"id"`
	LikedBy   string    `json:"likedBy" db:"liked_by"`
	VideoID   *string   `json:"videoId,omitempty" db:"video_id"`
	CommentID *string   `json:"commentId,omitempty" db:"comment_id"`
	TweetID   *string   `json:"tweetId,omitempty" db:"tweet_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Playlist groups videos for one owner. Videos is populated on detail
// fetches only.
type Playlist struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Videos      []*Video  `json:"videos,omitempty" db:"-"`
}

// Subscription records that a subscriber follows a channel.
type Subscription struct {
	ID           string    `json:"id" db:"id"`
	SubscriberID string    `json:"subscriberId" db:"subscriber_id"`
	ChannelID    string    `json:"channelId" db:"channel_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ChannelStats is the dashboard aggregate for one channel.
type ChannelStats struct {
	TotalViews       int64 `json:"totalViews" db:"total_views"`
	TotalVideos      int64 `json:"totalVideos" db:"total_videos"`
	TotalSubscribers int64 `json:"totalSubscribers" db:"total_subscribers"`
	TotalLikes       int64 `json:"totalLikes" db:"total_likes"`
}
