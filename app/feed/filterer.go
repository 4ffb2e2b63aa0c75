package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

var presetWindows = map[DatePreset]time.Duration{
	DatePreset7d:  7 * 24 * time.Hour,
	DatePreset30d: 30 * 24 * time.Hour,
	DatePreset90d: 90 * 24 * time.Hour,
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the videos matching every part of state, preserving input order.
// Rolling date presets end at now.
func (f *Filterer) Run(videos []Video, state FilterState, now time.Time) []Video {
	// A Caser is stateful, so one is built per call.
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(state.SearchQuery))
	from, to, bounded := f.dateBounds(state.DateRange, now)

	return lo.Filter(videos, func(video Video, _ int) bool {
		if !f.matchesType(video, state.TypeFilter) {
			return false
		}
		if bounded && (video.PublishedAt.Before(from) || video.PublishedAt.After(to)) {
			return false
		}
		return query == "" || f.matchesSearch(fold, video, query)
	})
}

func (f *Filterer) matchesType(video Video, typeFilter TypeFilter) bool {
	switch typeFilter {
	case "", TypeFilterAll:
		return true
	default:
		return string(video.ContentType) == string(typeFilter)
	}
}

func (f *Filterer) matchesSearch(fold cases.Caser, video Video, query string) bool {
	for _, value := range []string{video.Title, video.Description, string(video.ContentType)} {
		if strings.Contains(fold.String(value), query) {
			return true
		}
	}
	return false
}

func (f *Filterer) dateBounds(dateRange DateRange, now time.Time) (time.Time, time.Time, bool) {
	switch dateRange.Preset {
	case DatePreset7d, DatePreset30d, DatePreset90d:
		return now.Add(-presetWindows[dateRange.Preset]), now, true
	case DatePresetCustom:
		if dateRange.StartDate == nil || dateRange.EndDate == nil || dateRange.StartDate.After(*dateRange.EndDate) {
			return time.Time{}, time.Time{}, false
		}
		return *dateRange.StartDate, *dateRange.EndDate, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func ParsePreset(value string) (DatePreset, error) {
	preset := DatePreset(strings.ToLower(strings.TrimSpace(value)))
	switch preset {
	case "":
		return DatePresetAll, nil
	case DatePresetAll, DatePreset7d, DatePreset30d, DatePreset90d, DatePresetCustom:
		return preset, nil
	default:
		return "", fmt.Errorf("unknown date preset: %s", value)
	}
}

func ParseTypeFilter(value string) (TypeFilter, error) {
	typeFilter := TypeFilter(strings.ToLower(strings.TrimSpace(value)))
	switch typeFilter {
	case "":
		return TypeFilterAll, nil
	case TypeFilterAll, TypeFilterVideo, TypeFilterShort:
		return typeFilter, nil
	default:
		return "", fmt.Errorf("unknown type filter: %s", value)
	}
}
