package registry

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/lysyi3m/channel-comb/app/feed"
)

const PreferencesKey = "youtube-analytics-channels"

var DefaultChannels = []string{
	"UC6HBmXVAtwRBkZuaV9Jsubw",
	"UCcxQOPeGruITLHd2knOa3eA",
	"UCuysQYjoOTAcZZPb0-_rCpA",
}

var (
	ErrLastChannel = errors.New("cannot remove the last tracked channel")
	ErrNotTracked  = errors.New("channel is not tracked")
)

// Registry is the ordered list of tracked channel ids plus the active selection.
// It never holds zero channels.
type Registry struct {
	prefs Preferences

	mu     sync.RWMutex
	ids    []string
	active string
}

// New restores the tracked ids from prefs, falling back to DefaultChannels
// when nothing usable is stored.
func New(prefs Preferences) *Registry {
	r := &Registry{prefs: prefs}
	r.ids = r.restore()
	r.active = r.ids[0]
	return r
}

func (r *Registry) restore() []string {
	if r.prefs == nil {
		return slices.Clone(DefaultChannels)
	}

	stored, ok, err := r.prefs.Load(PreferencesKey)
	if err != nil {
		slog.Warn("Failed to load tracked channels, using defaults", "error", err)
		return slices.Clone(DefaultChannels)
	}

	ids := lo.Uniq(lo.Filter(stored, func(id string, _ int) bool {
		return feed.IsValidChannelID(id)
	}))
	if !ok || len(ids) == 0 {
		return slices.Clone(DefaultChannels)
	}
	return ids
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ids)
}

func (r *Registry) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registry) Contains(channelID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.ids, channelID)
}

// Add tracks and selects a channel. A channel that is already tracked is only
// selected. added reports whether the list grew.
func (r *Registry) Add(channelID string) (added bool, err error) {
	if err := feed.ValidateChannelID(channelID); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = channelID
	if slices.Contains(r.ids, channelID) {
		return false, nil
	}

	r.ids = append(r.ids, channelID)
	r.persist()
	return true, nil
}

// Remove untracks a channel. Removing the active channel selects the first
// remaining one.
func (r *Registry) Remove(channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := slices.Index(r.ids, channelID)
	if index < 0 {
		return ErrNotTracked
	}
	if len(r.ids) <= 1 {
		return ErrLastChannel
	}

	r.ids = slices.Delete(r.ids, index, index+1)
	if r.active == channelID {
		r.active = r.ids[0]
	}
	r.persist()
	return nil
}

func (r *Registry) Select(channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.ids, channelID) {
		return ErrNotTracked
	}
	r.active = channelID
	return nil
}

// persist must be called with mu held. Write failures keep the in-memory list.
func (r *Registry) persist() {
	if r.prefs == nil {
		return
	}
	if err := r.prefs.Save(PreferencesKey, slices.Clone(r.ids)); err != nil {
		slog.Error("Failed to persist tracked channels", "error", err)
	}
}
