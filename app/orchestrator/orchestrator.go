package orchestrator

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/channel-comb/app/database"
	"github.com/lysyi3m/channel-comb/app/feed"
)

const DefaultPageSize = 30

type Fetcher interface {
	Fetch(ctx context.Context, channelID string) (*feed.Document, error)
}

type Parser interface {
	Run(data []byte, channelID string) (*feed.ParsedFeed, error)
}

// Orchestrator decides between the store and the live feed for every channel read,
// and writes refreshed feed data back to the store.
type Orchestrator struct {
	fetcher      Fetcher
	parser       Parser
	store        database.Store
	pageSize     int
	discardStale bool
	now          func() time.Time
}

type Option func(*Orchestrator)

// WithStore enables the cache-first read path. A nil store keeps live-only mode.
func WithStore(store database.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

func WithPageSize(size int) Option {
	return func(o *Orchestrator) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithStaleDiscard drops completions of operations that started before one that
// has already been applied to the same channel.
func WithStaleDiscard() Option {
	return func(o *Orchestrator) {
		o.discardStale = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func New(fetcher Fetcher, parser Parser, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:  fetcher,
		parser:   parser,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) PageSize() int {
	return o.pageSize
}

func (o *Orchestrator) HasStore() bool {
	return o.store != nil
}

// Load reads one page for a channel, preferring the store and falling back to the live feed.
func (o *Orchestrator) Load(ctx context.Context, session *Session, channelID string, page int) (ChannelView, error) {
	if err := feed.ValidateChannelID(channelID); err != nil {
		return ChannelView{}, &LoadError{ChannelID: channelID, Cause: err}
	}
	if page < 0 {
		page = 0
	}

	token := session.begin(channelID)
	return o.resolve(ctx, session, channelID, page, token, nil, false)
}

// LoadMore loads the page after the last one loaded. A ready channel with no more
// pages is returned as is.
func (o *Orchestrator) LoadMore(ctx context.Context, session *Session, channelID string) (ChannelView, error) {
	view, ok := session.Get(channelID)
	if ok && view.State == StateReady && !view.HasMore {
		return view, nil
	}
	return o.Load(ctx, session, channelID, view.PageCount)
}

// Refresh always fetches the live feed and writes it through to the store.
func (o *Orchestrator) Refresh(ctx context.Context, session *Session, channelID string) (ChannelView, error) {
	if err := feed.ValidateChannelID(channelID); err != nil {
		return ChannelView{}, &LoadError{ChannelID: channelID, Cause: err}
	}

	token := session.begin(channelID)

	live := o.fetchLive(ctx, channelID)
	if live.err != nil {
		return o.fail(session, channelID, token, live.err)
	}

	if o.store == nil {
		return o.resolve(ctx, session, channelID, 0, token, &live, true)
	}

	if err := o.upsert(ctx, channelID, live.feed); err != nil {
		slog.Warn("Using live data after store write failure", "channel_id", channelID, "error", err)
		return o.apply(session, channelID, token, decideUseLive, 0, storeResult{}, &live, true)
	}

	return o.resolve(ctx, session, channelID, 0, token, &live, true)
}

func (o *Orchestrator) resolve(ctx context.Context, session *Session, channelID string, page int, token uint64, live *liveResult, reset bool) (ChannelView, error) {
	store := o.readStore(ctx, channelID, page)

	next := resolveLoad(store, live)
	if next == decideFetchLive {
		fetched := o.fetchLive(ctx, channelID)
		live = &fetched
		next = resolveLoad(store, live)
	}

	if next == decideFail {
		return o.fail(session, channelID, token, live.err)
	}

	return o.apply(session, channelID, token, next, page, store, live, reset)
}

func (o *Orchestrator) apply(session *Session, channelID string, token uint64, source decision, page int, store storeResult, live *liveResult, reset bool) (ChannelView, error) {
	fetchedAt := o.now().UTC()

	view, applied := session.finish(channelID, token, o.discardStale, func(view *ChannelView) {
		if reset {
			view.PageCount = 0
		}

		switch source {
		case decideUseStore:
			incoming := lo.Map(store.videos, func(video database.Video, _ int) feed.Video {
				return fromStoreVideo(video)
			})
			if page == 0 {
				view.Videos = incoming
			} else {
				view.Videos = appendNew(view.Videos, incoming)
			}
			view.Name = store.channel.Name
			view.LastFetched = store.channel.LastFetched
			view.PageCount = page + 1
			view.HasMore = page*o.pageSize+len(store.videos) < store.total
		case decideUseLive:
			view.Name = live.feed.ChannelName
			view.Videos = slices.Clone(live.feed.Videos)
			view.LastFetched = &fetchedAt
			view.HasMore = false
		}

		if view.Videos == nil {
			view.Videos = []feed.Video{}
		}
		view.LastError = ""
		view.State = StateReady
	})

	if !applied {
		slog.Debug("Discarded stale completion", "channel_id", channelID, "token", token)
	} else {
		slog.Info("Loaded channel",
			"channel_id", channelID,
			"source", source.String(),
			"page", page,
			"videos", len(view.Videos),
			"has_more", view.HasMore)
	}

	return view, nil
}

func (o *Orchestrator) fail(session *Session, channelID string, token uint64, cause error) (ChannelView, error) {
	err := &LoadError{ChannelID: channelID, Cause: cause}

	view, _ := session.finish(channelID, token, o.discardStale, func(view *ChannelView) {
		view.LastError = err.Error()
		view.State = StateError
	})

	slog.Error("Failed to load channel", "channel_id", channelID, "error", cause)
	return view, err
}

func (o *Orchestrator) readStore(ctx context.Context, channelID string, page int) storeResult {
	if o.store == nil {
		return storeResult{}
	}
	result := storeResult{configured: true}

	channel, err := o.store.GetChannel(ctx, channelID)
	if err != nil {
		result.err = o.storeFailure("get_channel", channelID, err)
		return result
	}
	if channel == nil {
		return result
	}
	result.channel = channel

	videos, err := o.store.GetVideosPage(ctx, channelID, page*o.pageSize, o.pageSize)
	if err != nil {
		result.err = o.storeFailure("get_videos", channelID, err)
		return result
	}
	result.videos = videos

	total, err := o.store.GetVideoCount(ctx, channelID)
	if err != nil {
		result.err = o.storeFailure("count_videos", channelID, err)
		return result
	}
	result.total = total

	return result
}

func (o *Orchestrator) fetchLive(ctx context.Context, channelID string) liveResult {
	doc, err := o.fetcher.Fetch(ctx, channelID)
	if err != nil {
		return liveResult{err: err}
	}

	parsed, err := o.parser.Run(doc.Body, channelID)
	if err != nil {
		return liveResult{err: err}
	}
	return liveResult{feed: parsed}
}

func (o *Orchestrator) upsert(ctx context.Context, channelID string, parsed *feed.ParsedFeed) error {
	now := o.now().UTC()

	if err := o.store.UpsertChannel(ctx, database.Channel{ID: channelID, Name: parsed.ChannelName, LastFetched: &now}); err != nil {
		return o.storeFailure("upsert_channel", channelID, err)
	}

	videos := lo.Map(parsed.Videos, func(video feed.Video, _ int) database.Video {
		return toStoreVideo(channelID, video)
	})
	if err := o.store.UpsertVideos(ctx, channelID, videos); err != nil {
		return o.storeFailure("upsert_videos", channelID, err)
	}

	slog.Debug("Stored channel", "channel_id", channelID, "videos", len(videos))
	return nil
}

func (o *Orchestrator) storeFailure(op, channelID string, err error) error {
	storeErr := &StoreError{Op: op, ChannelID: channelID, Err: err}
	slog.Warn("Store operation failed", "op", op, "channel_id", channelID, "error", err)
	return storeErr
}

// appendNew appends incoming videos whose ids are not already present.
func appendNew(existing, incoming []feed.Video) []feed.Video {
	seen := lo.SliceToMap(existing, func(video feed.Video) (string, struct{}) {
		return video.ID, struct{}{}
	})

	merged := slices.Clone(existing)
	for _, video := range incoming {
		if _, ok := seen[video.ID]; ok {
			continue
		}
		seen[video.ID] = struct{}{}
		merged = append(merged, video)
	}
	return merged
}
