package feed

import (
	"strings"
	"unicode/utf8"
)

// Classifier guesses whether an entry is a Short. The feed carries no duration, so
// these markers are proxies and may misclassify.
type Classifier struct {
	ShortsPathMarker          string
	HashtagMarker             string
	MinVideoDescriptionLength int
}

var DefaultClassifier = Classifier{
	ShortsPathMarker:          "/shorts/",
	HashtagMarker:             "#",
	MinVideoDescriptionLength: 100,
}

func (c Classifier) Classify(link, title, description string) ContentType {
	if c.ShortsPathMarker != "" && strings.Contains(link, c.ShortsPathMarker) {
		return ContentTypeShort
	}
	if c.HashtagMarker != "" && strings.Contains(title, c.HashtagMarker) {
		return ContentTypeShort
	}
	if utf8.RuneCountInString(description) < c.MinVideoDescriptionLength {
		return ContentTypeShort
	}
	return ContentTypeVideo
}
