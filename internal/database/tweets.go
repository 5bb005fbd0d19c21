package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/pkg/models"
)

// CreateTweet inserts a tweet
func (r *Repository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	if tweet.ID == "" {
		tweet.ID = uuid.New().String()
	}

	q := `
		INSERT INTO tweets (id, owner_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q, tweet.ID, tweet.OwnerID, tweet.Content).
		Scan(&tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

// GetTweet retrieves a tweet by id
func (r *Repository) GetTweet(ctx context.Context, id string) (*models.Tweet, error) {
	q := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE id = $1
	`

	var tweet models.Tweet
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("tweet does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}

	return &tweet, nil
}

// ListUserTweets returns all tweets by a user, newest first.
func (r *Repository) ListUserTweets(ctx context.Context, userID string) ([]*models.Tweet, error) {
	q := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		var tweet models.Tweet
		err := rows.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, &tweet)
	}

	return tweets, rows.Err()
}

// UpdateTweet replaces the tweet text
func (r *Repository) UpdateTweet(ctx context.Context, tweet *models.Tweet) error {
	q := `
		UPDATE tweets
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q, tweet.ID, tweet.Content).Scan(&tweet.UpdatedAt)
	if err == pgx.ErrNoRows {
		return errs.NotFound("tweet does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}

	return nil
}

// DeleteTweet removes a tweet; its likes cascade.
func (r *Repository) DeleteTweet(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("tweet does not exist")
	}
	return nil
}
