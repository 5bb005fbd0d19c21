package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidtube/backend/pkg/models"
)

// ToggleSubscription flips whether subscriberID follows channelID, reporting
// the new state. The insert-or-delete pair is atomic per statement, so
// concurrent toggles converge on at most one row.
func (r *Repository) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (subscribed bool, err error) {
	insert := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`

	tag, err := r.db.Pool.Exec(ctx, insert, uuid.New().String(), subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle subscription: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	_, err = r.db.Pool.Exec(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`,
		subscriberID, channelID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle subscription: %w", err)
	}
	return false, nil
}

// GetChannelSubscribers lists the users subscribed to a channel.
func (r *Repository) GetChannelSubscribers(ctx context.Context, channelID string) ([]*models.UserSummary, error) {
	q := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUserSummaries(ctx, q, channelID)
}

// GetSubscribedChannels lists the channels a user subscribes to.
func (r *Repository) GetSubscribedChannels(ctx context.Context, subscriberID string) ([]*models.UserSummary, error) {
	q := `
		SELECT u.id, u.username, u.full_name, u.avatar
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUserSummaries(ctx, q, subscriberID)
}

func (r *Repository) listUserSummaries(ctx context.Context, q, arg string) ([]*models.UserSummary, error) {
	rows, err := r.db.Pool.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var users []*models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}
