package orchestrator

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/lysyi3m/channel-comb/app/database"
	"github.com/lysyi3m/channel-comb/app/feed"
)

var errStoreDown = errors.New("store unavailable")

type response struct {
	body    string
	err     error
	started chan struct{}
	release chan struct{}
}

// fakeFetcher serves responses in order, repeating the last one.
type fakeFetcher struct {
	mu        sync.Mutex
	responses []response
	calls     atomic.Int32
}

func newFakeFetcher(responses ...response) *fakeFetcher {
	return &fakeFetcher{responses: responses}
}

func (f *fakeFetcher) Fetch(ctx context.Context, channelID string) (*feed.Document, error) {
	if err := feed.ValidateChannelID(channelID); err != nil {
		return nil, err
	}

	call := int(f.calls.Add(1)) - 1

	f.mu.Lock()
	resp := f.responses[min(call, len(f.responses)-1)]
	f.mu.Unlock()

	if resp.started != nil {
		close(resp.started)
	}
	if resp.release != nil {
		<-resp.release
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return &feed.Document{ChannelID: channelID, Body: []byte(resp.body)}, nil
}

type fakeStore struct {
	mu        sync.Mutex
	channels  map[string]database.Channel
	videos    map[string]database.Video
	failRead  bool
	failWrite bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		channels: make(map[string]database.Channel),
		videos:   make(map[string]database.Video),
	}
}

func (s *fakeStore) GetChannel(ctx context.Context, channelID string) (*database.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failRead {
		return nil, errStoreDown
	}
	channel, ok := s.channels[channelID]
	if !ok {
		return nil, nil
	}
	return &channel, nil
}

func (s *fakeStore) GetChannelCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels), nil
}

func (s *fakeStore) UpsertChannel(ctx context.Context, channel database.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrite {
		return errStoreDown
	}
	s.channels[channel.ID] = channel
	return nil
}

func (s *fakeStore) sorted(channelID string) []database.Video {
	var videos []database.Video
	for _, video := range s.videos {
		if video.ChannelID == channelID {
			videos = append(videos, video)
		}
	}
	slices.SortFunc(videos, func(a, b database.Video) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return videos
}

func (s *fakeStore) GetVideosPage(ctx context.Context, channelID string, offset, limit int) ([]database.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failRead {
		return nil, errStoreDown
	}
	videos := s.sorted(channelID)
	if offset >= len(videos) {
		return []database.Video{}, nil
	}
	return videos[offset:min(offset+limit, len(videos))], nil
}

func (s *fakeStore) GetVideoCount(ctx context.Context, channelID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failRead {
		return 0, errStoreDown
	}
	return len(s.sorted(channelID)), nil
}

func (s *fakeStore) UpsertVideos(ctx context.Context, channelID string, videos []database.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrite {
		return errStoreDown
	}
	for _, video := range videos {
		video.ChannelID = channelID
		s.videos[video.ID] = video
	}
	return nil
}
