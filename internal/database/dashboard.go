package database

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/pkg/models"
)

// GetChannelStats aggregates the dashboard numbers for one channel in a
// single round trip.
func (r *Repository) GetChannelStats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	q := `
		SELECT
			COALESCE((SELECT sum(views) FROM videos WHERE owner_id = $1), 0) AS total_views,
			(SELECT count(*) FROM videos WHERE owner_id = $1)                AS total_videos,
			(SELECT count(*) FROM subscriptions WHERE channel_id = $1)       AS total_subscribers,
			(SELECT count(*) FROM likes l
			 JOIN videos v ON v.id = l.video_id
			 WHERE v.owner_id = $1)                                          AS total_likes
	`

	var stats models.ChannelStats
	err := r.db.Pool.QueryRow(ctx, q, channelID).Scan(
		&stats.TotalViews, &stats.TotalVideos, &stats.TotalSubscribers, &stats.TotalLikes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}

	return &stats, nil
}

// GetChannelVideos returns every video owned by the channel, published or
// not, newest first. Dashboard access is owner-only so no visibility filter
// applies.
func (r *Repository) GetChannelVideos(ctx context.Context, channelID string) ([]*models.Video, error) {
	q := `
		SELECT id, owner_id, title, description, video_file, thumbnail,
		       duration, views, is_published, created_at, updated_at
		FROM videos
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, q, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID, &video.OwnerID, &video.Title, &video.Description,
			&video.VideoFile, &video.Thumbnail, &video.Duration, &video.Views,
			&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &video)
	}

	return videos, rows.Err()
}
