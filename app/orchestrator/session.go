package orchestrator

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/channel-comb/app/feed"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
)

const PlaceholderName = "Loading..."

// ChannelView is a snapshot of one channel's in-memory state.
type ChannelView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Videos      []feed.Video `json:"videos"`
	LastFetched *time.Time   `json:"lastFetched"`
	PageCount   int          `json:"pageCount"`
	HasMore     bool         `json:"hasMore"`
	State       State        `json:"state"`
	LastError   string       `json:"error,omitempty"`
}

func (v ChannelView) clone() ChannelView {
	v.Videos = slices.Clone(v.Videos)
	if v.Videos == nil {
		v.Videos = []feed.Video{}
	}
	return v
}

type channelEntry struct {
	view     ChannelView
	inflight int
	issued   uint64
	applied  uint64
}

// Session owns the channel collection the orchestrator reads and writes.
type Session struct {
	mu       sync.Mutex
	channels map[string]*channelEntry
}

func NewSession() *Session {
	return &Session{channels: make(map[string]*channelEntry)}
}

// Ensure adds an uninitialized channel if it is not present yet.
func (s *Session) Ensure(channelID string) ChannelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry(channelID).view.clone()
}

func (s *Session) Remove(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, channelID)
}

func (s *Session) Get(channelID string) (ChannelView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.channels[channelID]
	if !ok {
		return ChannelView{}, false
	}
	return entry.view.clone(), true
}

// List returns views for ids in the given order, skipping unknown ones.
func (s *Session) List(channelIDs []string) []ChannelView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.FilterMap(channelIDs, func(id string, _ int) (ChannelView, bool) {
		entry, ok := s.channels[id]
		if !ok {
			return ChannelView{}, false
		}
		return entry.view.clone(), true
	})
}

func (s *Session) IsLoading(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.channels[channelID]
	return ok && entry.inflight > 0
}

func (s *Session) entry(channelID string) *channelEntry {
	entry, ok := s.channels[channelID]
	if !ok {
		entry = &channelEntry{view: ChannelView{
			ID:     channelID,
			Name:   PlaceholderName,
			Videos: []feed.Video{},
			State:  StateUninitialized,
		}}
		s.channels[channelID] = entry
	}
	return entry
}

// begin marks the channel loading and issues the operation's sequence token.
func (s *Session) begin(channelID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entry(channelID)
	entry.inflight++
	entry.issued++
	entry.view.State = StateLoading
	return entry.issued
}

// finish applies mutate unless the channel was removed, or discardStale is set and a
// newer operation has already been applied. The loading mark is cleared either way.
func (s *Session) finish(channelID string, token uint64, discardStale bool, mutate func(view *ChannelView)) (ChannelView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.channels[channelID]
	if !ok {
		return ChannelView{}, false
	}

	entry.inflight--
	applied := !discardStale || token > entry.applied
	if applied {
		entry.applied = max(entry.applied, token)
		mutate(&entry.view)
	}

	if entry.inflight > 0 {
		entry.view.State = StateLoading
	} else if entry.view.State == StateLoading {
		entry.view.State = lo.Ternary(entry.view.LastError == "", StateReady, StateError)
	}

	return entry.view.clone(), applied
}
