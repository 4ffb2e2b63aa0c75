package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultFeedURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
	DefaultUserAgent       = "Mozilla/5.0 (compatible; YouTubeAnalytics/1.0)"
	FreshnessWindow        = 5 * time.Minute
)

// Document is an upstream feed body, returned unmodified.
type Document struct {
	ChannelID   string
	Body        []byte
	ContentType string
	FetchedAt   time.Time
	MaxAge      time.Duration
}

// CacheControl is the header value intermediate layers may use to reuse the body.
func (d *Document) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d", int(d.MaxAge.Seconds()))
}

type Fetcher struct {
	httpClient  *http.Client
	urlTemplate string
	userAgent   string
}

func NewFetcher(httpClient *http.Client, urlTemplate, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if urlTemplate == "" {
		urlTemplate = DefaultFeedURLTemplate
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Fetcher{
		httpClient:  httpClient,
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
	}
}

// IsValidURLTemplate reports whether template has exactly one %s placeholder for the channel id.
func IsValidURLTemplate(template string) bool {
	return strings.Count(template, "%s") == 1
}

func (f *Fetcher) FeedURL(channelID string) string {
	return fmt.Sprintf(f.urlTemplate, channelID)
}

// Fetch issues a single GET for the channel's feed. Malformed ids never reach the network.
func (f *Fetcher) Fetch(ctx context.Context, channelID string) (*Document, error) {
	if err := ValidateChannelID(channelID); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.FeedURL(channelID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("Feed fetched", "channel", channelID, "bytes", len(data))

	return &Document{
		ChannelID:   channelID,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		FetchedAt:   time.Now().UTC(),
		MaxAge:      FreshnessWindow,
	}, nil
}
