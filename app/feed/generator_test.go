package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

func generatorVideos() []Video {
	published := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	return []Video{
		{
			ID:           "vid00000001",
			Title:        "Building a Compiler <From> Scratch & More",
			Description:  "A long walkthrough",
			PublishedAt:  published,
			ThumbnailURL: "https://i1.ytimg.com/vi/vid00000001/hqdefault.jpg",
			Link:         "https://www.youtube.com/watch?v=vid00000001",
			ContentType:  ContentTypeVideo,
			Views:        48210,
			Likes:        1520,
		},
		{
			ID:          "vid00000002",
			Title:       "Quick tip",
			PublishedAt: published.Add(-time.Hour),
			Link:        "https://www.youtube.com/shorts/vid00000002",
			ContentType: ContentTypeShort,
		},
	}
}

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator()
	channel := ChannelInfo{
		ID:       "UCjnYCUIym8aNRjLtZCc6gNg",
		Name:     "Sample Channel",
		SelfLink: "http://localhost:3001/api/channels/UCjnYCUIym8aNRjLtZCc6gNg/rss",
		Version:  "test",
	}

	output, err := generator.Run(channel, generatorVideos(), DefaultFilterState())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(output, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(output, "<generator>Channel-Comb/test</generator>") {
		t.Error("RSS should contain generator with version")
	}
	if !strings.Contains(output, `rel="self"`) {
		t.Error("RSS should contain self link")
	}
	if !strings.Contains(output, "Building a Compiler &lt;From&gt; Scratch &amp; More") {
		t.Error("Special characters in titles should be escaped")
	}
	if !strings.Contains(output, "<description>No description available</description>") {
		t.Error("Missing descriptions should get a placeholder")
	}

	// The output must be readable by a real RSS parser
	parsed, err := (&rss.Parser{}).Parse(strings.NewReader(output))
	if err != nil {
		t.Fatalf("Generated RSS should parse, got: %v", err)
	}
	if parsed.Title != "Sample Channel" {
		t.Errorf("Expected title 'Sample Channel', got '%s'", parsed.Title)
	}
	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Items))
	}
	if parsed.Items[0].GUID == nil || parsed.Items[0].GUID.Value != "vid00000001" {
		t.Errorf("Expected guid vid00000001, got %+v", parsed.Items[0].GUID)
	}
	if len(parsed.Items[1].Categories) != 1 || parsed.Items[1].Categories[0].Value != "short" {
		t.Errorf("Expected short category, got %+v", parsed.Items[1].Categories)
	}
	if parsed.LastBuildDate != "Fri, 10 May 2024 15:00:00 +0000" {
		t.Errorf("Expected last build date from newest video, got '%s'", parsed.LastBuildDate)
	}
}

func TestGenerateWithoutPublishTime(t *testing.T) {
	lastFetched := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	channel := ChannelInfo{ID: "UCjnYCUIym8aNRjLtZCc6gNg", Name: "Sample Channel", LastFetched: &lastFetched}
	videos := []Video{{ID: "vid00000009", Title: "Undated", ContentType: ContentTypeVideo}}

	output, err := NewGenerator().Run(channel, videos, DefaultFilterState())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(output, "Jan 0001") {
		t.Error("RSS should not render zero times")
	}
	if strings.Contains(output, "<pubDate>") {
		t.Error("Undated items should omit pubDate")
	}
	if !strings.Contains(output, "<lastBuildDate>Sat, 01 Jun 2024 09:30:00 +0000</lastBuildDate>") {
		t.Error("Expected last build date from last fetch time")
	}
}

func TestGenerateWithFilterDescription(t *testing.T) {
	generator := NewGenerator()
	state := FilterState{
		DateRange:   DateRange{Preset: DatePreset7d},
		SearchQuery: "go",
		TypeFilter:  TypeFilterShort,
	}

	output, err := generator.Run(ChannelInfo{ID: "UCjnYCUIym8aNRjLtZCc6gNg", Name: "Sample"}, nil, state)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := `<description>Videos from Sample (type short, range 7d, matching &#34;go&#34;)</description>`
	if !strings.Contains(output, expected) {
		t.Errorf("Expected filter description, got:\n%s", output)
	}
	if strings.Contains(output, "<item>") {
		t.Error("Expected no items")
	}
	if strings.Contains(output, "atom:link") {
		t.Error("Self link should be omitted when unknown")
	}
}

func TestIsURLMethod(t *testing.T) {
	generator := NewGenerator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"vid00000001", false},
		{"http://", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := generator.isURL(tt.input); got != tt.expected {
			t.Errorf("isURL(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
