package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
)

// ChannelRepo handles database operations for channels
type ChannelRepo struct {
	db *DB
}

func NewChannelRepository(db *DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// GetChannel returns nil without error when the channel has never been stored
func (r *ChannelRepo) GetChannel(ctx context.Context, channelID string) (*Channel, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "name", "last_fetched").
		From("channels").
		Where(sb.Equal("id", channelID))
	query, args := sb.Build()

	var channel Channel
	var lastFetched sql.NullTime
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&channel.ID, &channel.Name, &lastFetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}

	if lastFetched.Valid {
		fetched := lastFetched.Time.UTC()
		channel.LastFetched = &fetched
	}

	return &channel, nil
}

func (r *ChannelRepo) GetChannelCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM channels").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count channels: %w", err)
	}
	return count, nil
}

// UpsertChannel stores the channel name and stamps last_fetched, defaulting to now
func (r *ChannelRepo) UpsertChannel(ctx context.Context, channel Channel) error {
	fetched := time.Now().UTC()
	if channel.LastFetched != nil {
		fetched = channel.LastFetched.UTC()
	}

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("channels").
		Cols("id", "name", "last_fetched").
		Values(channel.ID, channel.Name, fetched)
	query, args := ib.Build()
	query += " ON CONFLICT (id) DO UPDATE SET name = excluded.name, last_fetched = excluded.last_fetched"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert channel %s: %w", channel.ID, err)
	}
	return nil
}
