package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lysyi3m/channel-comb/app/feed/feedtest"
)

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}, nil
}

func TestFetcherReturnsBodyUnmodified(t *testing.T) {
	var gotUserAgent, gotChannel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotChannel = r.URL.Query().Get("channel_id")
		w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
		w.Write([]byte(feedtest.SampleFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), server.URL+"/feeds/videos.xml?channel_id=%s", "")
	doc, err := fetcher.Fetch(context.Background(), feedtest.ChannelID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if string(doc.Body) != feedtest.SampleFeed {
		t.Error("Expected body to be returned unmodified")
	}
	if gotChannel != feedtest.ChannelID {
		t.Errorf("Expected channel_id %s, got: %s", feedtest.ChannelID, gotChannel)
	}
	if gotUserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got: %s", gotUserAgent)
	}
	if doc.MaxAge != FreshnessWindow {
		t.Errorf("Expected max age %v, got: %v", FreshnessWindow, doc.MaxAge)
	}
	if doc.CacheControl() != "public, max-age=300" {
		t.Errorf("Unexpected cache control: %s", doc.CacheControl())
	}
	if doc.ContentType != "text/xml; charset=UTF-8" {
		t.Errorf("Unexpected content type: %s", doc.ContentType)
	}
}

func TestFetcherUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), server.URL+"?channel_id=%s", "test-agent")
	_, err := fetcher.Fetch(context.Background(), feedtest.ChannelID)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got: %v", err)
	}
	if upstreamErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got: %d", upstreamErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected error message to mention 404, got: %s", err.Error())
	}
}

func TestFetcherRejectsInvalidIDWithoutNetwork(t *testing.T) {
	transport := &countingTransport{}
	fetcher := NewFetcher(&http.Client{Transport: transport}, "", "")

	for _, id := range []string{"", "UCshort", "XXjnYCUIym8aNRjLtZCc6gNg"} {
		_, err := fetcher.Fetch(context.Background(), id)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Expected ValidationError for %q, got: %v", id, err)
		}
	}

	if calls := transport.calls.Load(); calls != 0 {
		t.Errorf("Expected no network calls, got %d", calls)
	}
}

func TestFetcherFeedURL(t *testing.T) {
	fetcher := NewFetcher(nil, "", "")
	expected := "https://www.youtube.com/feeds/videos.xml?channel_id=" + feedtest.ChannelID

	if got := fetcher.FeedURL(feedtest.ChannelID); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}
