package feed

import (
	"testing"
)

func TestSummarize(t *testing.T) {
	videos := []Video{
		{ID: "a", Views: 1000, Likes: 50, ContentType: ContentTypeVideo},
		{ID: "b", Views: 300, Likes: 30, ContentType: ContentTypeShort},
		{ID: "c", Views: 5000, Likes: 100, ContentType: ContentTypeVideo},
		{ID: "d", Views: 200, Likes: 2, ContentType: ContentTypeShort},
		{ID: "e", Views: 700, Likes: 7, ContentType: ContentTypeVideo},
		{ID: "f", Views: 10, Likes: 1, ContentType: ContentTypeShort},
	}

	stats := Summarize(videos)

	if stats.VideoCount != 6 {
		t.Errorf("Expected 6 videos, got %d", stats.VideoCount)
	}
	if stats.TotalViews != 7210 {
		t.Errorf("Expected 7210 total views, got %d", stats.TotalViews)
	}
	if stats.TotalLikes != 190 {
		t.Errorf("Expected 190 total likes, got %d", stats.TotalLikes)
	}
	if stats.EngagementPercent != 2.6 {
		t.Errorf("Expected 2.6%% engagement, got %v", stats.EngagementPercent)
	}
	if stats.AvgViews != 1202 {
		t.Errorf("Expected 1202 average views, got %d", stats.AvgViews)
	}
	if stats.MaxViews != 5000 {
		t.Errorf("Expected max views 5000, got %d", stats.MaxViews)
	}
	if stats.Shorts != 3 || stats.LongForm != 3 {
		t.Errorf("Expected 3 shorts and 3 long-form, got %d and %d", stats.Shorts, stats.LongForm)
	}
	if stats.ShortsViews != 510 || stats.LongFormViews != 6700 {
		t.Errorf("Unexpected split views: shorts=%d long=%d", stats.ShortsViews, stats.LongFormViews)
	}

	if len(stats.TopVideos) != 5 {
		t.Fatalf("Expected 5 top videos, got %d", len(stats.TopVideos))
	}
	expectedTop := []string{"c", "a", "e", "b", "d"}
	for i, id := range expectedTop {
		if stats.TopVideos[i].ID != id {
			t.Errorf("Top video %d: expected %s, got %s", i, id, stats.TopVideos[i].ID)
		}
	}
	if videos[0].ID != "a" {
		t.Error("Summarize must not reorder its input")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	if stats.VideoCount != 0 || stats.TotalViews != 0 || stats.EngagementPercent != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
	if stats.MaxViews != 1 {
		t.Errorf("Expected max views floor of 1, got %d", stats.MaxViews)
	}
	if stats.TopVideos == nil || len(stats.TopVideos) != 0 {
		t.Errorf("Expected empty non-nil top videos, got %v", stats.TopVideos)
	}
}
