package feed

import (
	"time"
)

type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeShort ContentType = "short"
)

// Video is a single feed entry, either freshly parsed or read back from the store.
type Video struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	PublishedAt  time.Time   `json:"published"`
	UpdatedAt    *time.Time  `json:"updated,omitempty"`     // entry <updated> from the feed
	LastUpdated  *time.Time  `json:"lastUpdated,omitempty"` // set when the row was last upserted
	ThumbnailURL string      `json:"thumbnail"`
	Link         string      `json:"link"`
	ContentType  ContentType `json:"type"`
	Views        int64       `json:"views"`
	Likes        int64       `json:"likes"`
}

type ParsedFeed struct {
	ChannelName string
	ChannelID   string
	Videos      []Video
}

// Filter types

type DatePreset string

const (
	DatePresetAll    DatePreset = "all"
	DatePreset7d     DatePreset = "7d"
	DatePreset30d    DatePreset = "30d"
	DatePreset90d    DatePreset = "90d"
	DatePresetCustom DatePreset = "custom"
)

type TypeFilter string

const (
	TypeFilterAll   TypeFilter = "all"
	TypeFilterVideo TypeFilter = "video"
	TypeFilterShort TypeFilter = "short"
)

type DateRange struct {
	Preset    DatePreset `json:"preset"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type FilterState struct {
	DateRange   DateRange  `json:"dateRange"`
	SearchQuery string     `json:"searchQuery"`
	TypeFilter  TypeFilter `json:"typeFilter"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		DateRange:  DateRange{Preset: DatePresetAll},
		TypeFilter: TypeFilterAll,
	}
}

// IsActive reports whether any filter would narrow the result set.
func (s FilterState) IsActive() bool {
	return s.SearchQuery != "" ||
		(s.TypeFilter != "" && s.TypeFilter != TypeFilterAll) ||
		(s.DateRange.Preset != "" && s.DateRange.Preset != DatePresetAll)
}
