package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
)

var videoColumns = []string{
	"id", "channel_id", "title", "description", "published_at",
	"thumbnail", "link", "type", "views", "likes", "last_updated",
}

// VideoRepo handles database operations for videos
type VideoRepo struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepo {
	return &VideoRepo{db: db}
}

// GetVideosPage returns videos newest first, ties broken by id
func (r *VideoRepo) GetVideosPage(ctx context.Context, channelID string, offset, limit int) ([]Video, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(videoColumns...).
		From("videos").
		Where(sb.Equal("channel_id", channelID)).
		OrderBy("published_at DESC", "id ASC").
		Limit(limit).
		Offset(offset)
	query, args := sb.Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos for %s: %w", channelID, err)
	}
	defer rows.Close()

	videos := make([]Video, 0, limit)
	for rows.Next() {
		var video Video
		var lastUpdated sql.NullTime
		err := rows.Scan(
			&video.ID,
			&video.ChannelID,
			&video.Title,
			&video.Description,
			&video.PublishedAt,
			&video.Thumbnail,
			&video.Link,
			&video.Type,
			&video.Views,
			&video.Likes,
			&lastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}

		video.PublishedAt = video.PublishedAt.UTC()
		if lastUpdated.Valid {
			updated := lastUpdated.Time.UTC()
			video.LastUpdated = &updated
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return videos, nil
}

func (r *VideoRepo) GetVideoCount(ctx context.Context, channelID string) (int, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)").From("videos").Where(sb.Equal("channel_id", channelID))
	query, args := sb.Build()

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos for %s: %w", channelID, err)
	}
	return count, nil
}

// UpsertVideos writes the whole batch in one transaction, stamping last_updated
func (r *VideoRepo) UpsertVideos(ctx context.Context, channelID string, videos []Video) error {
	if len(videos) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, video := range videos {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertInto("videos").
			Cols(videoColumns...).
			Values(
				video.ID,
				channelID,
				video.Title,
				video.Description,
				video.PublishedAt.UTC(),
				video.Thumbnail,
				video.Link,
				video.Type,
				video.Views,
				video.Likes,
				now,
			)
		query, args := ib.Build()
		query += ` ON CONFLICT (id) DO UPDATE SET
			channel_id = excluded.channel_id,
			title = excluded.title,
			description = excluded.description,
			published_at = excluded.published_at,
			thumbnail = excluded.thumbnail,
			link = excluded.link,
			type = excluded.type,
			views = excluded.views,
			likes = excluded.likes,
			last_updated = excluded.last_updated`

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert video %s: %w", video.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit videos for %s: %w", channelID, err)
	}
	return nil
}
