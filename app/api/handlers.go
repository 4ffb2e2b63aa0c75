package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/lysyi3m/channel-comb/app/feed"
	"github.com/lysyi3m/channel-comb/app/orchestrator"
	"github.com/lysyi3m/channel-comb/app/registry"
)

const dateLayout = "2006-01-02"

func NewHandler(fetcher FeedFetcher, syncer ChannelSyncer, channels *registry.Registry,
	session *orchestrator.Session, filterer *feed.Filterer, version string) *Handler {
	return &Handler{
		fetcher:   fetcher,
		syncer:    syncer,
		registry:  channels,
		session:   session,
		filterer:  filterer,
		generator: feed.NewGenerator(),
		version:   version,
		now:       time.Now,
	}
}

// GetFeed proxies the upstream feed body for a channel.
func (h *Handler) GetFeed(c *gin.Context) {
	channelID := c.Query("channelId")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}
	if !feed.IsValidChannelID(channelID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID format. Must start with UC and be 24 characters."})
		return
	}

	doc, err := h.fetcher.Fetch(c.Request.Context(), channelID)
	if err != nil {
		slog.Error("RSS fetch error", "channel_id", channelID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch RSS feed: %s", err.Error())})
		return
	}

	c.Header("Cache-Control", doc.CacheControl())
	c.Data(http.StatusOK, "application/xml", doc.Body)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) APIListChannels(c *gin.Context) {
	active := h.registry.Active()
	ids := h.registry.IDs()

	summaries := lo.Map(h.session.List(ids), func(view orchestrator.ChannelView, _ int) channelSummary {
		return channelSummary{
			ID:          view.ID,
			Name:        view.Name,
			State:       view.State,
			VideoCount:  len(view.Videos),
			HasMore:     view.HasMore,
			LastFetched: view.LastFetched,
			Active:      view.ID == active,
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"channels": summaries,
		"order":    ids,
		"active":   active,
		"total":    len(ids),
	})
}

func (h *Handler) APIAddChannel(c *gin.Context) {
	var req addChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channelId is required"})
		return
	}

	channelID, err := feed.ExtractChannelID(req.ChannelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.registry.Add(channelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	view := h.session.Ensure(channelID)
	if added {
		status = http.StatusCreated
		// A failed first load still tracks the channel; the view carries the error.
		view, _ = h.syncer.Load(c.Request.Context(), h.session, channelID, 0)
	}

	c.JSON(status, gin.H{
		"channel": view,
		"added":   added,
		"active":  h.registry.Active(),
	})
}

func (h *Handler) APIRemoveChannel(c *gin.Context) {
	channelID := c.Param("id")

	err := h.registry.Remove(channelID)
	switch {
	case errors.Is(err, registry.ErrNotTracked):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, registry.ErrLastChannel):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		slog.Error("Failed to remove channel", "channel_id", channelID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.session.Remove(channelID)

	c.JSON(http.StatusOK, gin.H{
		"removed": channelID,
		"order":   h.registry.IDs(),
		"active":  h.registry.Active(),
	})
}

func (h *Handler) APISelectChannel(c *gin.Context) {
	channelID := c.Param("id")

	if err := h.registry.Select(channelID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": channelID})
}

// APIGetChannel returns the channel loading its first page on first access,
// narrowed by the query's filters.
func (h *Handler) APIGetChannel(c *gin.Context) {
	channelID, ok := h.trackedChannel(c)
	if !ok {
		return
	}

	state, err := parseFilterState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := h.session.Ensure(channelID)
	if view.State == orchestrator.StateUninitialized {
		view, err = h.syncer.Load(c.Request.Context(), h.session, channelID, 0)
		if err != nil && len(view.Videos) == 0 {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	h.respondWithView(c, view, state)
}

func (h *Handler) APIRefreshChannel(c *gin.Context) {
	channelID, ok := h.trackedChannel(c)
	if !ok {
		return
	}

	view, err := h.syncer.Refresh(c.Request.Context(), h.session, channelID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.respondWithView(c, view, feed.DefaultFilterState())
}

func (h *Handler) APILoadMore(c *gin.Context) {
	channelID, ok := h.trackedChannel(c)
	if !ok {
		return
	}

	view, err := h.syncer.LoadMore(c.Request.Context(), h.session, channelID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.respondWithView(c, view, feed.DefaultFilterState())
}

func (h *Handler) APIGetChannelStats(c *gin.Context) {
	channelID, ok := h.trackedChannel(c)
	if !ok {
		return
	}

	state, err := parseFilterState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, _ := h.session.Get(channelID)
	videos := h.filterer.Run(view.Videos, state, h.now())

	c.JSON(http.StatusOK, gin.H{
		"channelId": channelID,
		"name":      view.Name,
		"filters":   state,
		"stats":     feed.Summarize(videos),
	})
}

// APIGetChannelRSS renders the channel's filtered videos as an RSS feed.
func (h *Handler) APIGetChannelRSS(c *gin.Context) {
	channelID, ok := h.trackedChannel(c)
	if !ok {
		return
	}

	state, err := parseFilterState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view := h.session.Ensure(channelID)
	if view.State == orchestrator.StateUninitialized {
		view, err = h.syncer.Load(c.Request.Context(), h.session, channelID, 0)
		if err != nil && len(view.Videos) == 0 {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	videos := h.filterer.Run(view.Videos, state, h.now())
	channel := feed.ChannelInfo{
		ID:          channelID,
		Name:        view.Name,
		SelfLink:    selfLink(c),
		Version:     h.version,
		LastFetched: view.LastFetched,
	}

	output, err := h.generator.Run(channel, videos, state)
	if err != nil {
		slog.Error("RSS generation error", "channel_id", channelID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(videos)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(output))
}

func selfLink(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.RequestURI())
}

func (h *Handler) trackedChannel(c *gin.Context) (string, bool) {
	channelID := c.Param("id")
	if !h.registry.Contains(channelID) {
		c.JSON(http.StatusNotFound, gin.H{"error": registry.ErrNotTracked.Error()})
		return "", false
	}
	return channelID, true
}

func (h *Handler) respondWithView(c *gin.Context, view orchestrator.ChannelView, state feed.FilterState) {
	total := len(view.Videos)
	view.Videos = h.filterer.Run(view.Videos, state, h.now())

	c.JSON(http.StatusOK, channelResponse{
		Channel:  view,
		Filters:  state,
		Total:    total,
		Filtered: len(view.Videos),
	})
}

// parseFilterState reads q, type, preset, start and end. Supplying a bound
// without a preset selects the custom range.
func parseFilterState(c *gin.Context) (feed.FilterState, error) {
	state := feed.DefaultFilterState()
	state.SearchQuery = c.Query("q")

	typeFilter, err := feed.ParseTypeFilter(c.Query("type"))
	if err != nil {
		return state, err
	}
	state.TypeFilter = typeFilter

	preset, err := feed.ParsePreset(c.Query("preset"))
	if err != nil {
		return state, err
	}

	start, err := parseDate(c.Query("start"), false)
	if err != nil {
		return state, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(c.Query("end"), true)
	if err != nil {
		return state, fmt.Errorf("invalid end date: %w", err)
	}

	if c.Query("preset") == "" && (start != nil || end != nil) {
		preset = feed.DatePresetCustom
	}
	state.DateRange = feed.DateRange{Preset: preset, StartDate: start, EndDate: end}

	return state, nil
}

// parseDate accepts RFC3339 or a calendar day in the local timezone. A day used as
// an end bound covers the whole day.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", value)
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}
