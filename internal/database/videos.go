package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/query"
	"github.com/vidtube/backend/pkg/models"
)

const videoWithOwnerSelect = `
	SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
	       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
	       o.id, o.username, o.full_name, o.avatar
	FROM videos v
	JOIN users o ON o.id = v.owner_id`

func scanVideoWithOwner(row pgx.Row) (*models.Video, error) {
	var video models.Video
	var owner models.UserSummary
	err := row.Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoFile, &video.Thumbnail, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("video does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	video.Owner = &owner
	return &video, nil
}

// CreateVideo creates a new video record
func (r *Repository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	q := `
		INSERT INTO videos (id, owner_id, title, description, video_file, thumbnail, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING views, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q,
		video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoFile, video.Thumbnail, video.Duration, video.IsPublished,
	).Scan(&video.Views, &video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetVideo retrieves a video by id without a visibility check; callers use
// it for ownership checks before mutations.
func (r *Repository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	q := `
		SELECT id, owner_id, title, description, video_file, thumbnail,
		       duration, views, is_published, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	var video models.Video
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoFile, &video.Thumbnail, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("video does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &video, nil
}

// GetVideoView retrieves a video with its owner summary, applying the
// owner-or-published visibility rule for viewerID (may be empty).
func (r *Repository) GetVideoView(ctx context.Context, id, viewerID string) (*models.Video, error) {
	q := videoWithOwnerSelect + `
	WHERE v.id = $1 AND (v.is_published OR v.owner_id = $2)`

	return scanVideoWithOwner(r.db.Pool.QueryRow(ctx, q, id, viewerID))
}

// ListVideos executes the query plan built from q for viewerID and returns
// one page of videos with owner summaries.
func (r *Repository) ListVideos(ctx context.Context, q query.ListQuery, viewerID string) ([]*models.Video, error) {
	where, tail, args := query.SQL(query.Build(q, viewerID), "v", 1)

	rows, err := r.db.Pool.Query(ctx, videoWithOwnerSelect+where+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
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

// UpdateVideo updates title, description and thumbnail
func (r *Repository) UpdateVideo(ctx context.Context, video *models.Video) error {
	q := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q,
		video.ID, video.Title, video.Description, video.Thumbnail,
	).Scan(&video.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errs.NotFound("video does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

// DeleteVideo removes a video record; dependent rows (comments, likes,
// playlist entries, watch history) go with it via ON DELETE CASCADE.
func (r *Repository) DeleteVideo(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("video does not exist")
	}
	return nil
}

// TogglePublishState flips the publish flag and returns the updated video.
func (r *Repository) TogglePublishState(ctx context.Context, id string) (*models.Video, error) {
	q := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING id, owner_id, title, description, video_file, thumbnail,
		          duration, views, is_published, created_at, updated_at
	`

	var video models.Video
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoFile, &video.Thumbnail, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("video does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle publish state: %w", err)
	}

	return &video, nil
}

// IncrementViews bumps the view counter and returns the new count.
func (r *Repository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views)
	if err == pgx.ErrNoRows {
		return 0, errs.NotFound("video does not exist")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return views, nil
}
