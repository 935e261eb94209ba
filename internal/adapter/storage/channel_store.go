// internal/adapter/storage/channel_store.go

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

// ChannelStore implements storage for channel snapshots
type ChannelStore struct {
	db *pgxpool.Pool
}

// NewChannelStore creates a new channel store
func NewChannelStore(db *pgxpool.Pool) *ChannelStore {
	return &ChannelStore{
		db: db,
	}
}

// SaveChannel replaces the stored snapshot of a channel
func (s *ChannelStore) SaveChannel(ctx context.Context, ch channel.Channel) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO channels (title, updated_at) VALUES ($1, now())
		ON CONFLICT (title) DO UPDATE SET updated_at = now()
	`, ch.Title)
	if err != nil {
		return fmt.Errorf("error upserting channel: %w", err)
	}

	// Comments go with their videos through ON DELETE CASCADE
	if _, err := tx.Exec(ctx, `DELETE FROM videos WHERE channel_title = $1`, ch.Title); err != nil {
		return fmt.Errorf("error clearing videos: %w", err)
	}

	seen := make(map[string]bool, len(ch.Videos))
	for i, v := range ch.Videos {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true

		tags := v.Tags
		if tags == nil {
			tags = []string{}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO videos (
				id, channel_title, position, title, description, category,
				views, likes, comment_count, duration, tags
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			v.ID,
			ch.Title,
			i,
			v.Title,
			v.Description,
			v.Category,
			v.Views,
			v.Likes,
			v.CommentCount,
			v.Duration,
			tags,
		)
		if err != nil {
			return fmt.Errorf("error inserting video %s: %w", v.ID, err)
		}

		for j, c := range v.TopComments {
			_, err := tx.Exec(ctx, `
				INSERT INTO comments (channel_title, video_id, position, text, published_at, likes)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, ch.Title, v.ID, j, c.Text, c.PublishedAt, c.Likes)
			if err != nil {
				return fmt.Errorf("error inserting comment for video %s: %w", v.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing channel: %w", err)
	}

	return nil
}

// GetChannel retrieves a channel snapshot by title
func (s *ChannelStore) GetChannel(ctx context.Context, title string) (*channel.Channel, error) {
	var ch channel.Channel

	err := s.db.QueryRow(ctx, `SELECT title FROM channels WHERE title = $1`, title).Scan(&ch.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("channel %q: %w", title, analytics.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying channel: %w", err)
	}

	videos, err := s.getVideos(ctx, title)
	if err != nil {
		return nil, err
	}

	comments, err := s.getComments(ctx, title)
	if err != nil {
		return nil, err
	}

	for i := range videos {
		videos[i].TopComments = comments[videos[i].ID]
	}
	ch.Videos = videos

	return &ch, nil
}

func (s *ChannelStore) getVideos(ctx context.Context, title string) ([]channel.Video, error) {
	query := `
		SELECT
			id, title, description, category,
			views, likes, comment_count, duration, tags
		FROM videos
		WHERE channel_title = $1
		ORDER BY position
	`

	rows, err := s.db.Query(ctx, query, title)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var videos []channel.Video
	for rows.Next() {
		var v channel.Video

		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Description,
			&v.Category,
			&v.Views,
			&v.Likes,
			&v.CommentCount,
			&v.Duration,
			&v.Tags,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning video: %w", err)
		}

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

func (s *ChannelStore) getComments(ctx context.Context, title string) (map[string][]channel.Comment, error) {
	query := `
		SELECT video_id, text, published_at, likes
		FROM comments
		WHERE channel_title = $1
		ORDER BY video_id, position
	`

	rows, err := s.db.Query(ctx, query, title)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	comments := make(map[string][]channel.Comment)
	for rows.Next() {
		var videoID string
		var c channel.Comment

		if err := rows.Scan(&videoID, &c.Text, &c.PublishedAt, &c.Likes); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}

		comments[videoID] = append(comments[videoID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
