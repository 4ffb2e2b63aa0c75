package database

import (
	"time"
)

type Channel struct {
	ID          string
	Name        string
	LastFetched *time.Time
}

type Video struct {
	ID          string
	ChannelID   string
	Title       string
	Description string
	PublishedAt time.Time
	Thumbnail   string
	Link        string
	Type        string // "video" or "short"
	Views       int64
	Likes       int64
	LastUpdated *time.Time
}
