package orchestrator

import (
	"github.com/lysyi3m/channel-comb/app/database"
	"github.com/lysyi3m/channel-comb/app/feed"
)

type storeResult struct {
	configured bool
	channel    *database.Channel
	videos     []database.Video
	total      int
	err        error
}

// usable reports whether the store result is authoritative: the channel row
// exists and the page holds at least one video.
func (r storeResult) usable() bool {
	return r.configured && r.err == nil && r.channel != nil && len(r.videos) > 0
}

type liveResult struct {
	feed *feed.ParsedFeed
	err  error
}

type decision int

const (
	decideUseStore decision = iota
	decideFetchLive
	decideUseLive
	decideFail
)

func (d decision) String() string {
	switch d {
	case decideUseStore:
		return "store"
	case decideFetchLive:
		return "fetch-live"
	case decideUseLive:
		return "live"
	default:
		return "fail"
	}
}

// resolveLoad picks the source that becomes the channel state. live is nil
// until the live path has been attempted.
func resolveLoad(store storeResult, live *liveResult) decision {
	switch {
	case store.usable():
		return decideUseStore
	case live == nil:
		return decideFetchLive
	case live.err == nil && live.feed != nil:
		return decideUseLive
	default:
		return decideFail
	}
}
