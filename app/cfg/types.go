package cfg

import (
	"time"
)

type Cfg struct {
	// Store configuration
	StoreDSN string

	// Application configuration
	Port            string
	StateFile       string
	StaticDir       string
	WorkerCount     int
	RefreshInterval time.Duration
	PageSize        int
	DiscardStale    bool

	// Upstream feed
	FeedURLTemplate string
	UserAgent       string
	FetchTimeout    time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// StoreEnabled reports whether a persistent store was configured.
func (c *Cfg) StoreEnabled() bool {
	return c.StoreDSN != ""
}
