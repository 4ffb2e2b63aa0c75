package api

import (
	"context"
	"time"

	"github.com/lysyi3m/channel-comb/app/feed"
	"github.com/lysyi3m/channel-comb/app/orchestrator"
	"github.com/lysyi3m/channel-comb/app/registry"
)

type FeedFetcher interface {
	Fetch(ctx context.Context, channelID string) (*feed.Document, error)
}

type ChannelSyncer interface {
	Load(ctx context.Context, session *orchestrator.Session, channelID string, page int) (orchestrator.ChannelView, error)
	Refresh(ctx context.Context, session *orchestrator.Session, channelID string) (orchestrator.ChannelView, error)
	LoadMore(ctx context.Context, session *orchestrator.Session, channelID string) (orchestrator.ChannelView, error)
}

var (
	_ FeedFetcher   = (*feed.Fetcher)(nil)
	_ ChannelSyncer = (*orchestrator.Orchestrator)(nil)
)

type Handler struct {
	fetcher   FeedFetcher
	syncer    ChannelSyncer
	registry  *registry.Registry
	session   *orchestrator.Session
	filterer  *feed.Filterer
	generator *feed.Generator
	version   string
	now       func() time.Time
}

type channelSummary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	State       orchestrator.State `json:"state"`
	VideoCount  int                `json:"videoCount"`
	HasMore     bool               `json:"hasMore"`
	LastFetched *time.Time         `json:"lastFetched"`
	Active      bool               `json:"active"`
}

type channelResponse struct {
	Channel  orchestrator.ChannelView `json:"channel"`
	Filters  feed.FilterState         `json:"filters"`
	Total    int                      `json:"total"`
	Filtered int                      `json:"filtered"`
}

type addChannelRequest struct {
	ChannelID string `json:"channelId" binding:"required"`
}
