package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/samber/lo"
)

const (
	UnknownChannelName = "Unknown Channel"
	watchURLTemplate   = "https://www.youtube.com/watch?v=%s"
	entryIDPrefix      = "yt:video:"
)

type Parser struct {
	classifier Classifier
}

func NewParser() *Parser {
	return NewParserWithClassifier(DefaultClassifier)
}

func NewParserWithClassifier(classifier Classifier) *Parser {
	return &Parser{classifier: classifier}
}

// Run parses a channel's Atom feed. It performs no I/O and is deterministic for identical input.
func (p *Parser) Run(data []byte, channelID string) (*ParsedFeed, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, &ParseError{Err: err}
	}

	// atom.Parser keeps per-document state, so each call gets its own.
	atomParser := &atom.Parser{}
	doc, err := atomParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	parsed := &ParsedFeed{
		ChannelName: cmp.Or(strings.TrimSpace(doc.Title), UnknownChannelName),
		ChannelID:   channelID,
		Videos:      make([]Video, 0, len(doc.Entries)),
	}

	for _, entry := range doc.Entries {
		if entry == nil {
			continue
		}
		video := p.normalizeEntry(entry)
		if video.ID == "" {
			continue
		}
		parsed.Videos = append(parsed.Videos, video)
	}

	// First occurrence wins so ids stay unique within the channel.
	parsed.Videos = lo.UniqBy(parsed.Videos, func(video Video) string { return video.ID })

	return parsed, nil
}

// checkWellFormed reads every token with a strict decoder. gofeed's tokenizer is
// lenient and returns partial documents for mismatched tags.
func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true

	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("malformed XML: %w", err)
		}
	}
}

func (p *Parser) normalizeEntry(entry *atom.Entry) Video {
	video := Video{
		ID:    p.extractVideoID(entry),
		Title: entry.Title,
	}

	if entry.PublishedParsed != nil {
		video.PublishedAt = entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		updated := entry.UpdatedParsed.UTC()
		video.UpdatedAt = &updated
	}

	if group, ok := firstExtension(entry.Extensions, "media", "group"); ok {
		if description, ok := firstChild(group, "description"); ok {
			video.Description = description.Value
		}
		if thumbnail, ok := firstChild(group, "thumbnail"); ok {
			video.ThumbnailURL = thumbnail.Attrs["url"]
		}
		if community, ok := firstChild(group, "community"); ok {
			if statistics, ok := firstChild(community, "statistics"); ok {
				video.Views = parseCount(statistics.Attrs["views"])
			}
			if rating, ok := firstChild(community, "starRating"); ok {
				video.Likes = parseCount(rating.Attrs["count"])
			}
		}
	}

	video.Link = alternateLink(entry)
	if video.Link == "" && video.ID != "" {
		video.Link = fmt.Sprintf(watchURLTemplate, video.ID)
	}

	video.ContentType = p.classifier.Classify(video.Link, video.Title, video.Description)

	return video
}

func (p *Parser) extractVideoID(entry *atom.Entry) string {
	if videoID, ok := firstExtension(entry.Extensions, "yt", "videoId"); ok {
		if id := strings.TrimSpace(videoID.Value); id != "" {
			return id
		}
	}
	return strings.TrimPrefix(strings.TrimSpace(entry.ID), entryIDPrefix)
}

func alternateLink(entry *atom.Entry) string {
	for _, link := range entry.Links {
		if link != nil && link.Rel == "alternate" {
			return link.Href
		}
	}
	return ""
}

func firstExtension(extensions ext.Extensions, prefix, name string) (ext.Extension, bool) {
	if extensions == nil {
		return ext.Extension{}, false
	}
	elements := extensions[prefix][name]
	if len(elements) == 0 {
		return ext.Extension{}, false
	}
	return elements[0], true
}

func firstChild(element ext.Extension, name string) (ext.Extension, bool) {
	children := element.Children[name]
	if len(children) == 0 {
		return ext.Extension{}, false
	}
	return children[0], true
}

func parseCount(value string) int64 {
	count, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || count < 0 {
		return 0
	}
	return count
}
