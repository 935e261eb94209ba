// internal/adapter/storage/schema.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Schema is the DDL for the channel read model and stored reports
const Schema = `
CREATE TABLE IF NOT EXISTS channels (
	title       TEXT PRIMARY KEY,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS videos (
	id             TEXT NOT NULL,
	channel_title  TEXT NOT NULL REFERENCES channels(title) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	views          BIGINT NOT NULL DEFAULT 0,
	likes          BIGINT NOT NULL DEFAULT 0,
	comment_count  BIGINT NOT NULL DEFAULT 0,
	duration       DOUBLE PRECISION NOT NULL DEFAULT 0,
	tags           TEXT[] NOT NULL DEFAULT '{}',
	PRIMARY KEY (channel_title, id)
);

CREATE TABLE IF NOT EXISTS comments (
	channel_title  TEXT NOT NULL,
	video_id       TEXT NOT NULL,
	position       INTEGER NOT NULL,
	text           TEXT NOT NULL DEFAULT '',
	published_at   TEXT NOT NULL DEFAULT '',
	likes          BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (channel_title, video_id, position),
	FOREIGN KEY (channel_title, video_id) REFERENCES videos(channel_title, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS reports (
	id                   UUID PRIMARY KEY,
	channel              TEXT NOT NULL,
	best_time            TEXT NOT NULL,
	video_count          INTEGER NOT NULL,
	prediction_fallback  BOOLEAN NOT NULL DEFAULT false,
	generated_at         TIMESTAMPTZ NOT NULL,
	body                 JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_channel_generated_idx ON reports (channel, generated_at DESC);
`

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}
