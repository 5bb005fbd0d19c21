package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/pkg/models"
)

// CreatePlaylist inserts a playlist; the (owner_id, name) pair is unique.
func (r *Repository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}

	q := `
		INSERT INTO playlists (id, owner_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q,
		playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("playlist with this name already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

// GetPlaylist retrieves a playlist with its videos in insertion order.
func (r *Repository) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	q := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	var playlist models.Playlist
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errs.NotFound("playlist does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	videos, err := r.getPlaylistVideos(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist.Videos = videos

	return &playlist, nil
}

func (r *Repository) getPlaylistVideos(ctx context.Context, playlistID string) ([]*models.Video, error) {
	q := videoWithOwnerSelect + `
	JOIN playlist_videos pv ON pv.video_id = v.id
	WHERE pv.playlist_id = $1
	ORDER BY pv.added_at`

	rows, err := r.db.Pool.Query(ctx, q, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
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

// ListUserPlaylists returns all playlists owned by userID, newest first.
func (r *Repository) ListUserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error) {
	q := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		var playlist models.Playlist
		err := rows.Scan(
			&playlist.ID, &playlist.OwnerID, &playlist.Name, &playlist.Description,
			&playlist.CreatedAt, &playlist.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, &playlist)
	}

	return playlists, rows.Err()
}

// UpdatePlaylist renames a playlist and updates its description
func (r *Repository) UpdatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	q := `
		UPDATE playlists
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, q,
		playlist.ID, playlist.Name, playlist.Description,
	).Scan(&playlist.UpdatedAt)

	if isUniqueViolation(err) {
		return errs.Conflict("playlist with this name already exists")
	}
	if err == pgx.ErrNoRows {
		return errs.NotFound("playlist does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return nil
}

// DeletePlaylist removes a playlist and its membership rows.
func (r *Repository) DeletePlaylist(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("playlist does not exist")
	}
	return nil
}

// AddVideoToPlaylist appends a video; adding one that is already present is
// a Conflict.
func (r *Repository) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	q := `
		INSERT INTO playlist_videos (playlist_id, video_id)
		VALUES ($1, $2)
	`
	_, err := r.db.Pool.Exec(ctx, q, playlistID, videoID)
	if isUniqueViolation(err) {
		return errs.Conflict("video already in playlist")
	}
	if err != nil {
		return fmt.Errorf("failed to add video to playlist: %w", err)
	}
	return nil
}

// RemoveVideoFromPlaylist removes a video from a playlist.
func (r *Repository) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`,
		playlistID, videoID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("video not in playlist")
	}
	return nil
}
