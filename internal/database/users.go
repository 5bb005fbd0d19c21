package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/pkg/models"
)

const userColumns = `id, username, email, full_name, avatar, cover_image,
       password_hash, COALESCE(refresh_token, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.Avatar,
		&user.CoverImage, &user.PasswordHash, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user record. Username and email are stored
// lowercased; a duplicate on either surfaces as Conflict.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, full_name, avatar, cover_image, password_hash)
		VALUES ($1, lower($2), lower($3), $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FullName,
		user.Avatar, user.CoverImage, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("user with email or username already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by id
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.Pool.QueryRow(ctx, query, id))
}

// GetUserByUsernameOrEmail retrieves a user matching either unique identity
// field, case-insensitively.
func (r *Repository) GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = lower($1) OR email = lower($1)`
	return scanUser(r.db.Pool.QueryRow(ctx, query, identifier))
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
func (r *Repository) SetRefreshToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return nil
}

// SwapRefreshToken replaces the stored refresh token only when it still
// equals old. The conditional update is atomic, so of two concurrent
// refreshes presenting the same token exactly one wins.
func (r *Repository) SwapRefreshToken(ctx context.Context, userID, old, new string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $3, updated_at = now() WHERE id = $1 AND refresh_token = $2`,
		userID, old, new,
	)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearRefreshToken removes the stored refresh token; clearing an already
// cleared token is not an error.
func (r *Repository) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateAccountDetails updates display name and email
func (r *Repository) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `
		UPDATE users SET full_name = $2, email = lower($3), updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, fullName, email))
	if isUniqueViolation(err) {
		return nil, errs.Conflict("email already in use")
	}
	return user, err
}

// UpdateAvatar replaces the avatar reference and returns the previous one so
// the caller can delete the old media object.
func (r *Repository) UpdateAvatar(ctx context.Context, userID, avatar string) (old string, err error) {
	query := `
		UPDATE users u SET avatar = $2, updated_at = now()
		FROM (SELECT id, avatar FROM users WHERE id = $1) prev
		WHERE u.id = prev.id
		RETURNING prev.avatar
	`
	err = r.db.Pool.QueryRow(ctx, query, userID, avatar).Scan(&old)
	if err == pgx.ErrNoRows {
		return "", errs.NotFound("user does not exist")
	}
	if err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	return old, nil
}

// UpdateCoverImage replaces the cover image reference, returning the old one.
func (r *Repository) UpdateCoverImage(ctx context.Context, userID, coverImage string) (old string, err error) {
	query := `
		UPDATE users u SET cover_image = $2, updated_at = now()
		FROM (SELECT id, cover_image FROM users WHERE id = $1) prev
		WHERE u.id = prev.id
		RETURNING prev.cover_image
	`
	err = r.db.Pool.QueryRow(ctx, query, userID, coverImage).Scan(&old)
	if err == pgx.ErrNoRows {
		return "", errs.NotFound("user does not exist")
	}
	if err != nil {
		return "", fmt.Errorf("failed to update cover image: %w", err)
	}
	return old, nil
}

// GetChannelProfile assembles the public channel view: subscriber counts and
// whether the viewer subscribes to this channel. viewerID may be empty.
func (r *Repository) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	query := `
		SELECT u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image,
		       (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id)    AS subscriber_count,
		       (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		       EXISTS (SELECT 1 FROM subscriptions s
		               WHERE s.channel_id = u.id AND s.subscriber_id = $2)          AS is_subscribed
		FROM users u
		WHERE u.username = lower($1)
	`

	var profile models.ChannelProfile
	err := r.db.Pool.QueryRow(ctx, query, username, viewerID).Scan(
		&profile.ID, &profile.Username, &profile.Email, &profile.FullName,
		&profile.Avatar, &profile.CoverImage,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("channel does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return &profile, nil
}

// AppendWatchHistory records that the user watched the video. Re-watching
// moves the entry to the top rather than duplicating it.
func (r *Repository) AppendWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
	`
	if _, err := r.db.Pool.Exec(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// GetWatchHistory returns the user's watched videos, most recent first, each
// carrying its owner summary.
func (r *Repository) GetWatchHistory(ctx context.Context, userID string) ([]*models.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at,
		       o.id, o.username, o.full_name, o.avatar
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		JOIN users o  ON o.id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
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
