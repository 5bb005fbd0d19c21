package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/pkg/models"
)

// CreateComment inserts a comment on a video
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	q := `
		INSERT INTO comments (id, video_id, owner_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q,
		comment.ID, comment.VideoID, comment.OwnerID, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetComment retrieves a comment by id
func (r *Repository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	q := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var comment models.Comment
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("comment does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// ListVideoComments returns one page of a video's comments, newest first,
// each with its author summary.
func (r *Repository) ListVideoComments(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	q := `
		SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		       o.id, o.username, o.full_name, o.avatar
		FROM comments c
		JOIN users o ON o.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, q, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		var owner models.UserSummary
		err := rows.Scan(
			&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content,
			&comment.CreatedAt, &comment.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &owner.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.Owner = &owner
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}

// UpdateComment replaces the comment text
func (r *Repository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	q := `
		UPDATE comments
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q, comment.ID, comment.Content).Scan(&comment.UpdatedAt)
	if err == pgx.ErrNoRows {
		return errs.NotFound("comment does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// DeleteComment removes a comment; its likes cascade.
func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("comment does not exist")
	}
	return nil
}
