package feed

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

const topVideoCount = 5

type Stats struct {
	VideoCount        int     `json:"videoCount"`
	TotalViews        int64   `json:"totalViews"`
	TotalLikes        int64   `json:"totalLikes"`
	EngagementPercent float64 `json:"engagementPercent"`
	AvgViews          int64   `json:"avgViews"`
	MaxViews          int64   `json:"maxViews"`
	Shorts            int     `json:"shorts"`
	LongForm          int     `json:"longForm"`
	ShortsViews       int64   `json:"shortsViews"`
	LongFormViews     int64   `json:"longFormViews"`
	TopVideos         []Video `json:"topVideos"`
}

// Summarize computes dashboard totals for a video set. Engagement is likes per view as a
// percentage rounded to one decimal.
func Summarize(videos []Video) Stats {
	shorts, longForm := lo.FilterReject(videos, func(video Video, _ int) bool {
		return video.ContentType == ContentTypeShort
	})

	stats := Stats{
		VideoCount:    len(videos),
		TotalViews:    sumViews(videos),
		TotalLikes:    lo.SumBy(videos, func(video Video) int64 { return video.Likes }),
		Shorts:        len(shorts),
		LongForm:      len(longForm),
		ShortsViews:   sumViews(shorts),
		LongFormViews: sumViews(longForm),
		MaxViews:      1,
	}

	if stats.TotalViews > 0 {
		engagement := float64(stats.TotalLikes) / float64(stats.TotalViews) * 100
		stats.EngagementPercent = math.Round(engagement*10) / 10
	}
	if len(videos) > 0 {
		stats.AvgViews = int64(math.Round(float64(stats.TotalViews) / float64(len(videos))))
		stats.MaxViews = max(stats.MaxViews, lo.MaxBy(videos, func(a, b Video) bool { return a.Views > b.Views }).Views)
	}

	top := slices.Clone(videos)
	slices.SortStableFunc(top, func(a, b Video) int {
		switch {
		case a.Views > b.Views:
			return -1
		case a.Views < b.Views:
			return 1
		default:
			return 0
		}
	})
	if len(top) > topVideoCount {
		top = top[:topVideoCount]
	}
	stats.TopVideos = lo.Ternary(top == nil, []Video{}, top)

	return stats
}

func sumViews(videos []Video) int64 {
	return lo.SumBy(videos, func(video Video) int64 { return video.Views })
}
