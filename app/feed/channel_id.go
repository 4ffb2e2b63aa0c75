package feed

import (
	"regexp"
	"strings"
)

const (
	ChannelIDPrefix = "UC"
	ChannelIDLength = 24
)

var channelIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`channel_id=([A-Za-z0-9_-]{24})`),
	regexp.MustCompile(`channel/([A-Za-z0-9_-]{24})`),
}

func IsValidChannelID(id string) bool {
	return len(id) == ChannelIDLength && strings.HasPrefix(id, ChannelIDPrefix)
}

func ValidateChannelID(id string) error {
	if !IsValidChannelID(id) {
		return &ValidationError{Input: id}
	}
	return nil
}

// ExtractChannelID accepts a bare channel id or a channel/feed URL and returns the id.
func ExtractChannelID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if IsValidChannelID(input) {
		return input, nil
	}

	for _, pattern := range channelIDPatterns {
		if match := pattern.FindStringSubmatch(input); match != nil && IsValidChannelID(match[1]) {
			return match[1], nil
		}
	}

	return "", &ValidationError{Input: input}
}
