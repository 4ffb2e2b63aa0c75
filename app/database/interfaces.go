package database

import (
	"context"
)

type ChannelRepository interface {
	GetChannel(ctx context.Context, channelID string) (*Channel, error)
	GetChannelCount(ctx context.Context) (int, error)

	UpsertChannel(ctx context.Context, channel Channel) error
}

type VideoRepository interface {
	GetVideosPage(ctx context.Context, channelID string, offset, limit int) ([]Video, error)
	GetVideoCount(ctx context.Context, channelID string) (int, error)

	UpsertVideos(ctx context.Context, channelID string, videos []Video) error
}

// Store is the persistent cache the orchestrator reads through and writes back to.
type Store interface {
	ChannelRepository
	VideoRepository
}

var (
	_ ChannelRepository = (*ChannelRepo)(nil)
	_ VideoRepository   = (*VideoRepo)(nil)
	_ Store             = (*SQLStore)(nil)
)

type SQLStore struct {
	*ChannelRepo
	*VideoRepo
}

func NewStore(db *DB) *SQLStore {
	return &SQLStore{
		ChannelRepo: NewChannelRepository(db),
		VideoRepo:   NewVideoRepository(db),
	}
}
