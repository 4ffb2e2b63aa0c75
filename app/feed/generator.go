package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

// ChannelInfo describes the channel a generated feed is built for.
type ChannelInfo struct {
	ID          string
	Name        string
	SelfLink    string
	Version     string
	LastFetched *time.Time
}

func (c ChannelInfo) link() string {
	return "https://www.youtube.com/channel/" + c.ID
}

// Generator renders a video list as an RSS 2.0 document.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(channel ChannelInfo, videos []Video, state FilterState) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:media="http://search.yahoo.com/mrss/">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(channel.Name, "Unknown Channel"), 4)
	g.writeElement(&buf, "link", channel.link(), 4)
	g.writeElement(&buf, "description", g.describe(channel, state), 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(videos) > 0 && !videos[0].PublishedAt.IsZero() {
		lastBuildDate = videos[0].PublishedAt
	} else if channel.LastFetched != nil {
		lastBuildDate = *channel.LastFetched
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Channel-Comb/%s", cmp.Or(channel.Version, "dev")), 4)

	for _, video := range videos {
		g.writeItem(&buf, video)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) describe(channel ChannelInfo, state FilterState) string {
	description := fmt.Sprintf("Videos from %s", cmp.Or(channel.Name, channel.ID))
	if !state.IsActive() {
		return description
	}

	var parts []string
	if state.TypeFilter != "" && state.TypeFilter != TypeFilterAll {
		parts = append(parts, "type "+string(state.TypeFilter))
	}
	if state.DateRange.Preset != "" && state.DateRange.Preset != DatePresetAll {
		parts = append(parts, "range "+string(state.DateRange.Preset))
	}
	if state.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("matching %q", state.SearchQuery))
	}
	return description + " (" + strings.Join(parts, ", ") + ")"
}

func (g *Generator) writeItem(buf *bytes.Buffer, video Video) {
	buf.WriteString("    <item>\n")

	if video.ID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(video.ID)))
		xml.EscapeText(buf, []byte(video.ID))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", video.Title, 6)
	g.writeElement(buf, "link", video.Link, 6)
	g.writeElement(buf, "description", cmp.Or(video.Description, "No description available"), 6)
	if !video.PublishedAt.IsZero() {
		g.writeElement(buf, "pubDate", video.PublishedAt.Format(time.RFC1123Z), 6)
	}
	g.writeElement(buf, "category", string(video.ContentType), 6)

	if video.ThumbnailURL != "" {
		buf.WriteString(fmt.Sprintf("      <media:thumbnail url=\"%s\" />\n", html.EscapeString(video.ThumbnailURL)))
	}
	buf.WriteString(fmt.Sprintf("      <media:community><media:statistics views=\"%d\" /><media:starRating count=\"%d\" /></media:community>\n",
		video.Views, video.Likes))

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
