// Package feedtest builds YouTube-style Atom documents for tests.
package feedtest

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const ChannelID = "UCjnYCUIym8aNRjLtZCc6gNg"

// LongDescription is long enough to keep an entry classified as a regular video.
var LongDescription = strings.Repeat("A long-form walkthrough with plenty of detail. ", 4)

type Entry struct {
	VideoID     string
	Title       string
	Description string
	Link        string // empty means no alternate link element
	Published   time.Time
	Updated     time.Time
	Thumbnail   string
	Views       int64
	Likes       int64
	NoMedia     bool
}

// SampleFeed contains one regular video, one Short by link, and one entry without
// media or statistics blocks.
const SampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UCjnYCUIym8aNRjLtZCc6gNg"/>
  <id>yt:channel:jnYCUIym8aNRjLtZCc6gNg</id>
  <yt:channelId>jnYCUIym8aNRjLtZCc6gNg</yt:channelId>
  <title>Sample Channel</title>
  <link rel="alternate" href="https://www.youtube.com/channel/UCjnYCUIym8aNRjLtZCc6gNg"/>
  <published>2015-03-01T10:00:00+00:00</published>
  <entry>
    <id>yt:video:vid00000001</id>
    <yt:videoId>vid00000001</yt:videoId>
    <yt:channelId>UCjnYCUIym8aNRjLtZCc6gNg</yt:channelId>
    <title>Building a Compiler From Scratch</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=vid00000001"/>
    <author>
      <name>Sample Channel</name>
      <uri>https://www.youtube.com/channel/UCjnYCUIym8aNRjLtZCc6gNg</uri>
    </author>
    <published>2024-05-10T15:00:00+00:00</published>
    <updated>2024-05-11T08:30:00+00:00</updated>
    <media:group>
      <media:title>Building a Compiler From Scratch</media:title>
      <media:content url="https://www.youtube.com/v/vid00000001?version=3" type="application/x-shockwave-flash" width="640" height="390"/>
      <media:thumbnail url="https://i1.ytimg.com/vi/vid00000001/hqdefault.jpg" width="480" height="360"/>
      <media:description>In this episode we write a lexer, a parser and a code generator for a tiny language, then benchmark the result against an interpreter.</media:description>
      <media:community>
        <media:starRating count="1520" average="5.00" min="1" max="5"/>
        <media:statistics views="48210"/>
      </media:community>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:vid00000002</id>
    <yt:videoId>vid00000002</yt:videoId>
    <yt:channelId>UCjnYCUIym8aNRjLtZCc6gNg</yt:channelId>
    <title>Quick tip</title>
    <link rel="alternate" href="https://www.youtube.com/shorts/vid00000002"/>
    <published>2024-05-09T12:00:00+00:00</published>
    <updated>2024-05-09T12:05:00+00:00</updated>
    <media:group>
      <media:title>Quick tip</media:title>
      <media:thumbnail url="https://i2.ytimg.com/vi/vid00000002/hqdefault.jpg" width="480" height="360"/>
      <media:description>One keyboard shortcut that saves a surprising amount of time every single day when editing code in a terminal.</media:description>
      <media:community>
        <media:starRating count="310" average="5.00" min="1" max="5"/>
        <media:statistics views="9050"/>
      </media:community>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:vid00000003</id>
    <title>Livestream replay</title>
    <published>2024-05-01T20:00:00+00:00</published>
    <updated>2024-05-01T23:00:00+00:00</updated>
  </entry>
</feed>`

// BuildFeed renders an Atom document for channelName with the given entries.
func BuildFeed(channelName string, entries []Entry) string {
	var buf strings.Builder

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">` + "\n")
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(channelName))

	for _, entry := range entries {
		buf.WriteString("  <entry>\n")
		fmt.Fprintf(&buf, "    <id>yt:video:%s</id>\n", entry.VideoID)
		fmt.Fprintf(&buf, "    <yt:videoId>%s</yt:videoId>\n", entry.VideoID)
		fmt.Fprintf(&buf, "    <title>%s</title>\n", html.EscapeString(entry.Title))
		if entry.Link != "" {
			fmt.Fprintf(&buf, "    <link rel=\"alternate\" href=\"%s\"/>\n", html.EscapeString(entry.Link))
		}
		fmt.Fprintf(&buf, "    <published>%s</published>\n", entry.Published.UTC().Format(time.RFC3339))
		updated := entry.Updated
		if updated.IsZero() {
			updated = entry.Published
		}
		fmt.Fprintf(&buf, "    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339))
		if !entry.NoMedia {
			buf.WriteString("    <media:group>\n")
			fmt.Fprintf(&buf, "      <media:thumbnail url=\"%s\" width=\"480\" height=\"360\"/>\n", html.EscapeString(entry.Thumbnail))
			fmt.Fprintf(&buf, "      <media:description>%s</media:description>\n", html.EscapeString(entry.Description))
			buf.WriteString("      <media:community>\n")
			fmt.Fprintf(&buf, "        <media:starRating count=\"%d\" average=\"5.00\" min=\"1\" max=\"5\"/>\n", entry.Likes)
			fmt.Fprintf(&buf, "        <media:statistics views=\"%d\"/>\n", entry.Views)
			buf.WriteString("      </media:community>\n")
			buf.WriteString("    </media:group>\n")
		}
		buf.WriteString("  </entry>\n")
	}

	buf.WriteString("</feed>")
	return buf.String()
}

// Entries generates n regular videos published one hour apart, newest first, ending at newest.
func Entries(n int, newest time.Time) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("video%06d", i)
		entries = append(entries, Entry{
			VideoID:     id,
			Title:       fmt.Sprintf("Episode %d", n-i),
			Description: LongDescription,
			Link:        "https://www.youtube.com/watch?v=" + id,
			Published:   newest.Add(-time.Duration(i) * time.Hour),
			Thumbnail:   "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
			Views:       int64(1000 + i),
			Likes:       int64(10 + i),
		})
	}
	return entries
}
