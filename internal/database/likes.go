package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidtube/backend/pkg/models"
)

// toggleLike tries to insert a like row for one target column; if the row
// already exists the insert is a no-op and the row is deleted instead. Both
// statements are atomic, so concurrent toggles of the same pair converge on a
// valid state with at most one row.
func (r *Repository) toggleLike(ctx context.Context, column, targetID, userID string) (liked bool, err error) {
	insert := fmt.Sprintf(`
		INSERT INTO likes (id, liked_by, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (liked_by, %s) DO NOTHING
	`, column, column)

	tag, err := r.db.Pool.Exec(ctx, insert, uuid.New().String(), userID, targetID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	del := fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column)
	if _, err := r.db.Pool.Exec(ctx, del, userID, targetID); err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return false, nil
}

// ToggleVideoLike flips the user's like on a video, reporting the new state.
func (r *Repository) ToggleVideoLike(ctx context.Context, videoID, userID string) (bool, error) {
	return r.toggleLike(ctx, "video_id", videoID, userID)
}

// ToggleCommentLike flips the user's like on a comment.
func (r *Repository) ToggleCommentLike(ctx context.Context, commentID, userID string) (bool, error) {
	return r.toggleLike(ctx, "comment_id", commentID, userID)
}

// ToggleTweetLike flips the user's like on a tweet.
func (r *Repository) ToggleTweetLike(ctx context.Context, tweetID, userID string) (bool, error) {
	return r.toggleLike(ctx, "tweet_id", tweetID, userID)
}

// GetLikedVideos returns all published videos the user has liked, most
// recently liked first.
func (r *Repository) GetLikedVideos(ctx context.Context, userID string) ([]*models.Video, error) {
	q := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       o.id, o.username, o.full_name, o.avatar
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users o  ON o.id = v.owner_id
		WHERE l.liked_by = $1 AND l.video_id IS NOT NULL
		  AND (v.is_published OR v.owner_id = $1)
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get liked videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}
